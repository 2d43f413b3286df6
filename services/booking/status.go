package booking

import (
	"fmt"

	"servana/models"
	"servana/utils"
)

// transitions is the booking state machine. Absent source states are
// terminal and accept nothing.
var transitions = map[string][]string{
	models.StatusPending:     {models.StatusConfirmed, models.StatusRejected},
	models.StatusConfirmed:   {models.StatusInProgress, models.StatusCancelled, models.StatusRescheduled, models.StatusCompleted},
	models.StatusInProgress:  {models.StatusCompleted},
	models.StatusRescheduled: {models.StatusInProgress, models.StatusCancelled, models.StatusCompleted},
}

// transitionActor maps each target status to the role allowed to request it.
var transitionActor = map[string]string{
	models.StatusConfirmed:   models.RoleProvider,
	models.StatusRejected:    models.RoleProvider,
	models.StatusInProgress:  models.RoleProvider,
	models.StatusCompleted:   models.RoleProvider,
	models.StatusCancelled:   models.RoleCustomer,
	models.StatusRescheduled: models.RoleCustomer,
}

// validateTransition checks the requested edge and the requesting actor.
// An unknown target is a validation failure, an illegal edge is an invalid
// state, and a wrong actor is forbidden.
func validateTransition(b *models.Booking, newStatus, actorID string) error {
	role, known := transitionActor[newStatus]
	if !known {
		return utils.NewValidationError(fmt.Sprintf("unknown booking status %q", newStatus))
	}

	allowed := false
	for _, target := range transitions[b.Status] {
		if target == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return utils.NewInvalidStateError(fmt.Sprintf("cannot move booking from %s to %s", b.Status, newStatus))
	}

	switch role {
	case models.RoleProvider:
		if actorID != b.ProviderID {
			return utils.NewForbiddenError("only the provider may perform this transition")
		}
	case models.RoleCustomer:
		if actorID != b.CustomerID {
			return utils.NewForbiddenError("only the customer may perform this transition")
		}
	}
	return nil
}
