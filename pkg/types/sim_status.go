package types

// SimStatus is the closed lifecycle enumeration for a SIM card.
type SimStatus string

const (
	SimStatusWarehouse   SimStatus = "WAREHOUSE"
	SimStatusActivated   SimStatus = "ACTIVATED"
	SimStatusInstalled   SimStatus = "INSTALLED"
	SimStatusBilling     SimStatus = "BILLING"
	SimStatusGracePeriod SimStatus = "GRACE_PERIOD"
	SimStatusDeactivated SimStatus = "DEACTIVATED"
)

var simStatuses = map[SimStatus]struct{}{
	SimStatusWarehouse:   {},
	SimStatusActivated:   {},
	SimStatusInstalled:   {},
	SimStatusBilling:     {},
	SimStatusGracePeriod: {},
	SimStatusDeactivated: {},
}

func (s SimStatus) Valid() bool {
	_, ok := simStatuses[s]
	return ok
}

// Terminal reports whether the status is DEACTIVATED. A terminal SIM is only
// re-enterable through an explicit reactivation.
func (s SimStatus) Terminal() bool { return s == SimStatusDeactivated }

const (
	// ReplacementReasonSimReplaced marks a SIM that was auto-deactivated
	// because another SIM was installed on the same IMEI.
	ReplacementReasonSimReplaced = "SIM_REPLACED"

	// AutoDeactivationNote is recorded as the history reason on a
	// replacement-driven deactivation.
	AutoDeactivationNote = "Auto-deactivated due to SIM Replacement"
)
