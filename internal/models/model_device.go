package models

import "time"

// Device is descriptive only. The lifecycle engine depends on nothing here
// beyond the IMEI string a SIM references.
type Device struct {
	ID      string  `gorm:"column:id;type:uuid;primary_key" json:"id"`
	IMEI    string  `gorm:"column:imei;type:varchar(32);not null;uniqueIndex" json:"imei"`
	Name    string  `gorm:"column:name;type:varchar(128)" json:"name"`
	Model   string  `gorm:"column:model;type:varchar(128)" json:"model"`
	Plate   string  `gorm:"column:plate;type:varchar(32)" json:"plate"`
	Notes   string  `gorm:"column:notes;type:text" json:"notes"`
	OwnerID *string `gorm:"column:owner_id;type:uuid;index" json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Device) TableName() string {
	return "device"
}
