package models

import (
	"gorm.io/datatypes"
)

// Order statuses mirrored from the booking flow.
const (
	OrderStatusWaitAccept  = "WAIT_ACCEPT"
	OrderStatusWaitPayment = "WAIT_PAYMENT"
	OrderStatusPaid        = "PAID"
	OrderStatusComplete    = "COMPLETE"
	OrderStatusCanceled    = "CANCELED"
	OrderStatusRejected    = "REJECTED"
)

// Order is a booking of a house for an inclusive calendar date range.
type Order struct {
	BaseModel

	UserID     uint           `gorm:"index;not null" json:"user_id"`
	HouseID    uint           `gorm:"index;not null" json:"house_id"`
	BeginDate  datatypes.Date `gorm:"not null;index" json:"begin_date"`
	EndDate    datatypes.Date `gorm:"not null;index" json:"end_date"`
	Days       int            `gorm:"not null" json:"days"`
	HousePrice int            `gorm:"not null" json:"house_price"`
	Amount     int            `gorm:"not null" json:"amount"`
	Status     string         `gorm:"type:varchar(16);not null;default:WAIT_ACCEPT;index" json:"status"`
	Comment    string         `gorm:"type:text" json:"comment,omitempty"`
}
