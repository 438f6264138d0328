package window

import (
	"context"
	"time"
)

type VETRepository interface {
	Create(ctx context.Context, vet VET) (VET, error)
	GetByScheduleID(ctx context.Context, scheduleID string) (VET, error)
	// GetByScheduleIDForUpdate locks the row until the surrounding transaction ends.
	GetByScheduleIDForUpdate(ctx context.Context, scheduleID string) (VET, error)
	Update(ctx context.Context, vet VET) (VET, error)
	// CloseOpenBefore closes OPEN windows whose schedule date is before date.
	CloseOpenBefore(ctx context.Context, date time.Time) ([]ClosedWindow, error)
}

type VTORepository interface {
	Create(ctx context.Context, vto VTO) (VTO, error)
	GetByScheduleID(ctx context.Context, scheduleID string) (VTO, error)
	GetByScheduleIDForUpdate(ctx context.Context, scheduleID string) (VTO, error)
	Update(ctx context.Context, vto VTO) (VTO, error)
	CloseOpenBefore(ctx context.Context, date time.Time) ([]ClosedWindow, error)
}
