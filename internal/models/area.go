package models

// Area is immutable reference data for the city districts houses belong to.
type Area struct {
	BaseModel

	Name string `gorm:"type:varchar(32);not null" json:"name"`
}

// AreaView is the cached projection of an area.
type AreaView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ToView projects the area for list responses.
func (a Area) ToView() AreaView {
	return AreaView{ID: a.ID, Name: a.Name}
}
