package models

import "time"

// Installation records every install event for attribution. One SIM may have
// many installations over its life (replacements, reinstalls).
type Installation struct {
	ID         string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	SimCardID  string    `gorm:"column:sim_card_id;type:uuid;not null;index" json:"sim_card_id"`
	IMEI       string    `gorm:"column:imei;type:varchar(32);not null;index" json:"imei"`
	CustomerID *string   `gorm:"column:customer_id;type:uuid" json:"customer_id"`
	InstalledAt time.Time `gorm:"column:installed_at;not null" json:"installed_at"`
	InstalledBy string    `gorm:"column:installed_by;type:varchar(64)" json:"installed_by"`

	CreatedAt time.Time `json:"created_at"`
}

func (Installation) TableName() string {
	return "sim_installation"
}
