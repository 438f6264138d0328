package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/window"
	"github.com/google/uuid"
)

type vetRepository struct{ *Store }

func (s *Store) VETs() window.VETRepository { return vetRepository{s} }

func (r vetRepository) Create(ctx context.Context, vet window.VET) (window.VET, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data.vets[vet.ScheduleID]; exists {
		return window.VET{}, window.ErrVETExists
	}
	vet.ID = uuid.NewString()
	vet.CreatedAt = r.now()
	vet.UpdatedAt = vet.CreatedAt
	r.data.vets[vet.ScheduleID] = vet
	return vet, nil
}

func (r vetRepository) GetByScheduleID(ctx context.Context, scheduleID string) (window.VET, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vet, ok := r.data.vets[scheduleID]
	if !ok {
		return window.VET{}, window.ErrVETNotFound
	}
	return vet, nil
}

// GetByScheduleIDForUpdate relies on the store serializing transactions.
func (r vetRepository) GetByScheduleIDForUpdate(ctx context.Context, scheduleID string) (window.VET, error) {
	return r.GetByScheduleID(ctx, scheduleID)
}

func (r vetRepository) Update(ctx context.Context, vet window.VET) (window.VET, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data.vets[vet.ScheduleID]
	if !ok || existing.ID != vet.ID {
		return window.VET{}, window.ErrVETNotFound
	}
	vet.CreatedAt = existing.CreatedAt
	vet.UpdatedAt = r.now()
	r.data.vets[vet.ScheduleID] = vet
	return vet, nil
}

func (r vetRepository) CloseOpenBefore(ctx context.Context, date time.Time) ([]window.ClosedWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var closed []window.ClosedWindow
	now := r.now()
	for scheduleID, vet := range r.data.vets {
		sched, ok := r.data.schedules[scheduleID]
		if !ok || vet.Status != window.VETOpen || !sched.Date.Before(date) {
			continue
		}
		vet.Status = window.VETClosed
		vet.ClosedAt = &now
		vet.UpdatedAt = now
		r.data.vets[scheduleID] = vet
		target := vet.TargetPackageCount
		closed = append(closed, window.ClosedWindow{
			ScheduleID:         scheduleID,
			OrganizationID:     sched.OrganizationID,
			ScheduleDate:       sched.Date,
			TargetPackageCount: &target,
		})
	}
	return closed, nil
}

type vtoRepository struct{ *Store }

func (s *Store) VTOs() window.VTORepository { return vtoRepository{s} }

func (r vtoRepository) Create(ctx context.Context, vto window.VTO) (window.VTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data.vtos[vto.ScheduleID]; exists {
		return window.VTO{}, window.ErrVTOExists
	}
	vto.ID = uuid.NewString()
	vto.CreatedAt = r.now()
	vto.UpdatedAt = vto.CreatedAt
	r.data.vtos[vto.ScheduleID] = vto
	return vto, nil
}

func (r vtoRepository) GetByScheduleID(ctx context.Context, scheduleID string) (window.VTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vto, ok := r.data.vtos[scheduleID]
	if !ok {
		return window.VTO{}, window.ErrVTONotFound
	}
	return vto, nil
}

func (r vtoRepository) GetByScheduleIDForUpdate(ctx context.Context, scheduleID string) (window.VTO, error) {
	return r.GetByScheduleID(ctx, scheduleID)
}

func (r vtoRepository) Update(ctx context.Context, vto window.VTO) (window.VTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data.vtos[vto.ScheduleID]
	if !ok || existing.ID != vto.ID {
		return window.VTO{}, window.ErrVTONotFound
	}
	vto.CreatedAt = existing.CreatedAt
	vto.UpdatedAt = r.now()
	r.data.vtos[vto.ScheduleID] = vto
	return vto, nil
}

func (r vtoRepository) CloseOpenBefore(ctx context.Context, date time.Time) ([]window.ClosedWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var closed []window.ClosedWindow
	now := r.now()
	for scheduleID, vto := range r.data.vtos {
		sched, ok := r.data.schedules[scheduleID]
		if !ok || vto.Status != window.VTOOpen || !sched.Date.Before(date) {
			continue
		}
		vto.Status = window.VTOClosed
		vto.ClosedAt = &now
		vto.UpdatedAt = now
		r.data.vtos[scheduleID] = vto
		closed = append(closed, window.ClosedWindow{
			ScheduleID:     scheduleID,
			OrganizationID: sched.OrganizationID,
			ScheduleDate:   sched.Date,
		})
	}
	return closed, nil
}
