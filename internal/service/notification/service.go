package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/sse"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount int // default: 2
	QueueSize   int // default: 1000
}

type service struct {
	hub          *sse.Hub
	emailService email.EmailService
	orgRepo      organization.OrganizationRepository
	config       Config

	queue    chan notification.Event
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewNotificationService starts the background workers that deliver window events.
func NewNotificationService(hub *sse.Hub, emailService email.EmailService, orgRepo organization.OrganizationRepository, cfg Config) notification.Service {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		hub:          hub,
		emailService: emailService,
		orgRepo:      orgRepo,
		config:       cfg,
		queue:        make(chan notification.Event, cfg.QueueSize),
		stopCh:       make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)

	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case ev := <-s.queue:
			s.deliver(id, ev)
		case <-s.stopCh:
			// drain what is already queued
			for {
				select {
				case ev := <-s.queue:
					s.deliver(id, ev)
				default:
					return
				}
			}
		}
	}
}

// Queue implements notification.Service. A full queue drops the event.
func (s *service) Queue(ctx context.Context, event notification.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	select {
	case s.queue <- event:
	case <-ctx.Done():
		slog.Warn("Notification not queued, context done", "type", event.Type, "schedule_id", event.ScheduleID)
	default:
		slog.Warn("Notification queue full, dropping event", "type", event.Type, "schedule_id", event.ScheduleID)
	}
}

func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("Notification service stopped")
	})
}

func (s *service) deliver(workerID int, ev notification.Event) {
	s.hub.Publish(ev.OrganizationID, sse.Event{
		Event: string(ev.Type),
		Data:  toStreamPayload(ev),
	})

	if !ev.Type.Emails() || len(ev.Recipients) == 0 {
		return
	}

	orgName := ""
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if org, err := s.orgRepo.GetByID(ctx, ev.OrganizationID); err == nil {
		orgName = org.Name
	} else {
		slog.Warn("Failed to resolve organization for notification", "organization_id", ev.OrganizationID, "error", err)
	}
	cancel()

	sent := 0
	for _, r := range ev.Recipients {
		if r.Email == "" {
			continue
		}
		err := s.emailService.SendWindowNotification(r.Email, email.WindowNotification{
			Subject:            ev.Subject(),
			RecipientName:      r.Name,
			OrganizationName:   orgName,
			Window:             ev.Window,
			Status:             ev.Status,
			ScheduleDate:       ev.ScheduleDate.Format("Mon, 02 Jan 2006"),
			TargetPackageCount: ev.TargetPackageCount,
			Headline:           ev.Subject(),
		})
		if err != nil {
			slog.Error("Failed to send window notification",
				"worker", workerID,
				"type", ev.Type,
				"schedule_id", ev.ScheduleID,
				"to", r.Email,
				"error", err,
			)
			continue
		}
		sent++
	}

	slog.Info("Window notification delivered",
		"worker", workerID,
		"type", ev.Type,
		"schedule_id", ev.ScheduleID,
		"recipients", len(ev.Recipients),
		"sent", sent,
	)
}

func toStreamPayload(ev notification.Event) notification.StreamPayload {
	return notification.StreamPayload{
		Type:               ev.Type,
		ScheduleID:         ev.ScheduleID,
		ScheduleDate:       ev.ScheduleDate.Format("2006-01-02"),
		Window:             ev.Window,
		Status:             ev.Status,
		TargetPackageCount: ev.TargetPackageCount,
		EmployeeID:         ev.EmployeeID,
		OccurredAt:         ev.OccurredAt.Format(time.RFC3339),
	}
}
