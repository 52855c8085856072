package models

// HouseImage records an uploaded image object for a house. Rows are append-only.
type HouseImage struct {
	BaseModel

	HouseID uint   `gorm:"index;not null" json:"house_id"`
	URL     string `gorm:"type:varchar(256);not null" json:"url"`
}
