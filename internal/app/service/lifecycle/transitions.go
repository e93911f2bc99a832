package lifecycle

import (
	"github.com/nusatel/simfleet/pkg/types"
)

// allowedTransitions is the complete lifecycle graph. No code path may move a
// SIM along an edge that is not listed here. A warehouse SIM may be installed
// directly, skipping activation. DEACTIVATED is terminal but re-enterable
// through explicit reactivation into ACTIVATED or GRACE_PERIOD.
var allowedTransitions = map[types.SimStatus][]types.SimStatus{
	types.SimStatusWarehouse:   {types.SimStatusActivated, types.SimStatusInstalled},
	types.SimStatusActivated:   {types.SimStatusInstalled, types.SimStatusGracePeriod, types.SimStatusDeactivated},
	types.SimStatusInstalled:   {types.SimStatusBilling, types.SimStatusGracePeriod, types.SimStatusDeactivated},
	types.SimStatusBilling:     {types.SimStatusGracePeriod, types.SimStatusDeactivated},
	types.SimStatusGracePeriod: {types.SimStatusActivated, types.SimStatusDeactivated},
	types.SimStatusDeactivated: {types.SimStatusActivated, types.SimStatusGracePeriod},
}

func checkTransition(from, to types.SimStatus) error {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}
