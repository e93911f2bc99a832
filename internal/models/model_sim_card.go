package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nusatel/simfleet/pkg/types"
)

// SimCard is the central entity of the fleet. Lifecycle dates are nullable on
// purpose: a nil date means that phase has not happened yet, which is a valid
// steady state, never a fault.
type SimCard struct {
	ID          string  `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ICCID       *string `gorm:"column:iccid;type:varchar(32);uniqueIndex" json:"iccid"`
	PhoneNumber string  `gorm:"column:phone_number;type:varchar(32);not null;uniqueIndex" json:"phone_number"`
	Provider    string  `gorm:"column:provider;type:varchar(64)" json:"provider"`

	Status types.SimStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`

	ActivationDate       *time.Time `gorm:"column:activation_date;default:null" json:"activation_date"`
	InstallationDate     *time.Time `gorm:"column:installation_date;default:null" json:"installation_date"`
	DeactivationDate     *time.Time `gorm:"column:deactivation_date;default:null" json:"deactivation_date"`
	GracePeriodStartDate *time.Time `gorm:"column:grace_period_start_date;default:null" json:"grace_period_start_date"`
	GracePeriodDueDate   *time.Time `gorm:"column:grace_period_due_date;default:null" json:"grace_period_due_date"`

	// BillingCycleDay is the recurring day-of-month (1-31) billing is due on.
	BillingCycleDay *int `gorm:"column:billing_cycle_day" json:"billing_cycle_day"`

	MonthlyCost     decimal.Decimal `gorm:"column:monthly_cost;type:numeric(18,2);not null" json:"monthly_cost"`
	FreePulsaMonths int             `gorm:"column:free_pulsa_months;not null;default:0" json:"free_pulsa_months"`

	// AccumulatedCost caches the sum of the overlap costs. It is recomputed on
	// every mutation and is always re-derivable from the dates above; it is
	// never a source of truth.
	AccumulatedCost decimal.Decimal `gorm:"column:accumulated_cost;type:numeric(18,2);not null;default:0" json:"accumulated_cost"`

	// CurrentIMEI references the device currently hosting this SIM. At most
	// one non-deactivated SIM may hold a given IMEI; the lifecycle service
	// enforces this at write time.
	CurrentIMEI *string `gorm:"column:current_imei;type:varchar(32);index" json:"current_imei"`

	CustomerID *string `gorm:"column:customer_id;type:uuid;index" json:"customer_id"`

	// IsReactivated flags a SIM that re-entered ACTIVATED or GRACE_PERIOD from
	// DEACTIVATED. Audit only; never used in cost math.
	IsReactivated bool `gorm:"column:is_reactivated;not null;default:false" json:"is_reactivated"`

	// ReplacementReason is set on SIMs auto-deactivated by a replacement
	// install (types.ReplacementReasonSimReplaced).
	ReplacementReason *string `gorm:"column:replacement_reason;type:varchar(64);default:null" json:"replacement_reason"`

	Notes string `gorm:"column:notes;type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SimCard) TableName() string {
	return "sim_card"
}

// Active reports whether the SIM still occupies its IMEI, i.e. any status but
// DEACTIVATED.
func (s *SimCard) Active() bool {
	return s != nil && !s.Status.Terminal()
}

// HoldsIMEI reports whether the SIM currently holds the given device IMEI.
func (s *SimCard) HoldsIMEI(imei string) bool {
	return s != nil && s.CurrentIMEI != nil && *s.CurrentIMEI == imei
}
