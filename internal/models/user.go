package models

// User is a house owner or guest. Identity and credentials are managed upstream;
// this service only reads display fields.
type User struct {
	BaseModel

	Name      string `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`
	Mobile    string `gorm:"type:varchar(11);uniqueIndex;not null" json:"mobile"`
	AvatarURL string `gorm:"type:varchar(128)" json:"avatar_url"`

	Houses []House `gorm:"foreignKey:UserID" json:"-"`
}
