package models

// Facility is reference data attached to houses at creation time.
type Facility struct {
	BaseModel

	Name string `gorm:"type:varchar(32);not null" json:"name"`
}
