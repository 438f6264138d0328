package notification

import "context"

// Service delivers window events to e-mail recipients and the organization's
// live stream. Delivery is best effort and never fails the caller's request.
type Service interface {
	Queue(ctx context.Context, event Event)
	Stop()
}
