package notification

import "context"

// Service is the fire-and-forget notification dispatcher. Implementations
// must never let a delivery failure surface to the triggering business
// operation.
type Service interface {
	Notify(ctx context.Context, userID, title, message string, data map[string]string)
}
