package lifecycle

import (
	"errors"
	"fmt"

	"github.com/nusatel/simfleet/pkg/types"
)

var (
	// ErrSimNotFound is returned when the referenced SIM id does not exist.
	ErrSimNotFound = errors.New("sim card not found")

	// ErrPhoneNumberTaken is returned on create when the phone number is
	// already registered.
	ErrPhoneNumberTaken = errors.New("phone number already registered")

	// ErrIMEIOccupied is returned on create when a non-deactivated SIM already
	// holds the IMEI. Creation fails hard; only install auto-resolves the
	// collision by replacing the holder.
	ErrIMEIOccupied = errors.New("imei already held by an active sim")
)

// ValidationError reports a missing or structurally invalid field. It is
// raised before any store write happens.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid field %s: %s", e.Field, e.Detail)
	}
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// TransitionError reports an edge outside the lifecycle graph.
type TransitionError struct {
	From types.SimStatus
	To   types.SimStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition: %s -> %s", e.From, e.To)
}
