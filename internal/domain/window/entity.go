package window

import (
	"math"
	"time"
)

// AutoCloseThreshold closes a VET once the remaining target drops to or below it.
const AutoCloseThreshold = 50

type VETStatus string

const (
	VETOpen   VETStatus = "OPEN"
	VETClosed VETStatus = "CLOSED"
)

type VTOStatus string

const (
	VTOOpen      VTOStatus = "OPEN"
	VTOClosed    VTOStatus = "CLOSED"
	VTOCompleted VTOStatus = "COMPLETED"
)

// Action is a requested window transition.
type Action string

const (
	ActionClose    Action = "close"
	ActionReopen   Action = "reopen"
	ActionComplete Action = "complete"
)

var (
	VETActionValues = []string{string(ActionClose), string(ActionReopen)}
	VTOActionValues = []string{string(ActionClose), string(ActionComplete), string(ActionReopen)}
)

// ClosedWindow identifies a window closed because its schedule date passed.
// TargetPackageCount is set for VETs only.
type ClosedWindow struct {
	ScheduleID         string
	OrganizationID     string
	ScheduleDate       time.Time
	TargetPackageCount *int
}

// VET is a Voluntary Extra Time window. TargetPackageCount shrinks as flex
// employees confirm.
type VET struct {
	ID                 string
	ScheduleID         string
	TargetPackageCount int
	Status             VETStatus
	OpenedAt           time.Time
	ClosedAt           *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (v *VET) Close(now time.Time) error {
	if v.Status != VETOpen {
		return ErrVETNotOpen
	}
	v.Status = VETClosed
	v.ClosedAt = &now
	return nil
}

func (v *VET) Reopen(now time.Time) error {
	if v.Status != VETClosed {
		return ErrVETNotClosed
	}
	v.Status = VETOpen
	v.OpenedAt = now
	v.ClosedAt = nil
	return nil
}

// ApplyConfirmation subtracts a confirming employee's stower efficiency from
// the target, floored at zero, and closes the window at the threshold.
// It reports whether the window closed.
func (v *VET) ApplyConfirmation(efficiency float64, now time.Time) (bool, error) {
	if v.Status != VETOpen {
		return false, ErrVETNotOpen
	}
	remaining := v.TargetPackageCount - int(math.Round(efficiency))
	if remaining < 0 {
		remaining = 0
	}
	v.TargetPackageCount = remaining
	if remaining <= AutoCloseThreshold {
		v.Status = VETClosed
		v.ClosedAt = &now
		return true, nil
	}
	return false, nil
}

// VTO is a Voluntary Time Off window. COMPLETED is terminal.
type VTO struct {
	ID         string
	ScheduleID string
	Status     VTOStatus
	OpenedAt   time.Time
	ClosedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (v *VTO) Close(now time.Time) error {
	if v.Status != VTOOpen {
		return ErrVTONotOpen
	}
	v.Status = VTOClosed
	v.ClosedAt = &now
	return nil
}

func (v *VTO) Complete(now time.Time) error {
	if v.Status != VTOOpen {
		return ErrVTONotOpen
	}
	v.Status = VTOCompleted
	v.ClosedAt = &now
	return nil
}

func (v *VTO) Reopen(now time.Time) error {
	if v.Status != VTOClosed {
		return ErrVTONotClosed
	}
	v.Status = VTOOpen
	v.OpenedAt = now
	v.ClosedAt = nil
	return nil
}
