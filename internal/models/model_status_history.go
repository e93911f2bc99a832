package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/nusatel/simfleet/pkg/types"
)

// StatusHistory is the append-only transition log. A row is written in the
// same store transaction as the transition it records; rows are never updated.
type StatusHistory struct {
	ID        string          `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SimCardID string          `gorm:"column:sim_card_id;type:uuid;not null;index" json:"sim_card_id"`
	OldStatus types.SimStatus `gorm:"column:old_status;type:varchar(32);not null" json:"old_status"`
	NewStatus types.SimStatus `gorm:"column:new_status;type:varchar(32);not null" json:"new_status"`
	ChangedBy string          `gorm:"column:changed_by;type:varchar(64)" json:"changed_by"`
	Reason    string          `gorm:"column:reason;type:text" json:"reason"`
	ChangedAt time.Time       `gorm:"column:changed_at;not null" json:"changed_at"`

	// Before/After hold full record images around the transition.
	Before datatypes.JSONType[*SimCard] `gorm:"column:before;type:jsonb" json:"before"`
	After  datatypes.JSONType[*SimCard] `gorm:"column:after;type:jsonb" json:"after"`

	CreatedAt time.Time `json:"created_at"`
}

func (StatusHistory) TableName() string {
	return "sim_status_history"
}
