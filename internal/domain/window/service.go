package window

import "context"

type VETService interface {
	OpenVET(ctx context.Context, req OpenVETRequest) (VETResponse, error)
	GetVET(ctx context.Context, scheduleID string) (VETResponse, error)
	UpdateVET(ctx context.Context, req UpdateVETRequest) (VETResponse, error)
	// ConfirmVET books a flex employee as a stower and shrinks the target in one transaction.
	ConfirmVET(ctx context.Context, req EmployeeActionRequest) (ConfirmVETResponse, error)
}

type VTOService interface {
	OpenVTO(ctx context.Context, scheduleID string) (VTOResponse, error)
	GetVTO(ctx context.Context, scheduleID string) (VTOResponse, error)
	UpdateVTO(ctx context.Context, req UpdateVTORequest) (VTOResponse, error)
	AcceptVTO(ctx context.Context, req EmployeeActionRequest) (AcceptVTOResponse, error)
}

// Closer closes windows left open on past schedules.
type Closer interface {
	ClosePastWindows(ctx context.Context) (vets int64, vtos int64, err error)
}
