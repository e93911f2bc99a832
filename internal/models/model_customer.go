package models

import "time"

type Customer struct {
	ID      string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name    string `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Phone   string `gorm:"column:phone;type:varchar(32)" json:"phone"`
	Email   string `gorm:"column:email;type:varchar(128)" json:"email"`
	Address string `gorm:"column:address;type:text" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customer"
}
