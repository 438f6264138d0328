package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/window"
)

// WindowJobs closes VET and VTO windows whose schedule date has passed.
type WindowJobs struct {
	closer window.Closer
}

func NewWindowJobs(closer window.Closer) *WindowJobs {
	return &WindowJobs{closer: closer}
}

func (j *WindowJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_past_windows", time.Hour, j.ClosePastWindows)
}

func (j *WindowJobs) ClosePastWindows(ctx context.Context) error {
	vets, vtos, err := j.closer.ClosePastWindows(ctx)
	if err != nil {
		return err
	}
	if vets > 0 || vtos > 0 {
		slog.Info("Closed windows on past schedules", "vets", vets, "vtos", vtos)
	}
	return nil
}
