package models

// House is a listing published by a user. Prices are stored in fen.
type House struct {
	BaseModel

	UserID        uint    `gorm:"index;not null" json:"user_id"`
	AreaID        uint    `gorm:"index;not null" json:"area_id"`
	Title         string  `gorm:"type:varchar(64);not null" json:"title"`
	Price         int     `gorm:"not null;default:0;index" json:"price"`
	Address       string  `gorm:"type:varchar(512);not null;default:''" json:"address"`
	RoomCount     int     `gorm:"not null;default:1" json:"room_count"`
	Acreage       int     `gorm:"not null;default:0" json:"acreage"`
	Unit          string  `gorm:"type:varchar(32);not null;default:''" json:"unit"`
	Capacity      int     `gorm:"not null;default:1" json:"capacity"`
	Beds          string  `gorm:"type:varchar(64);not null;default:''" json:"beds"`
	Deposit       int     `gorm:"not null;default:0" json:"deposit"`
	MinDays       int     `gorm:"not null;default:1" json:"min_days"`
	MaxDays       int     `gorm:"not null;default:0" json:"max_days"`
	OrderCount    int     `gorm:"not null;default:0;index" json:"order_count"`
	IndexImageURL *string `gorm:"type:varchar(256)" json:"index_image_url"`

	User       User         `gorm:"foreignKey:UserID" json:"-"`
	Area       Area         `gorm:"foreignKey:AreaID" json:"-"`
	Facilities []Facility   `gorm:"many2many:house_facilities;" json:"-"`
	Images     []HouseImage `gorm:"foreignKey:HouseID" json:"-"`
	Orders     []Order      `gorm:"foreignKey:HouseID" json:"-"`
}

// HouseBasic is the summary projection used by list views.
type HouseBasic struct {
	HouseID    uint   `json:"house_id"`
	Title      string `json:"title"`
	Price      int    `json:"price"`
	AreaName   string `json:"area_name"`
	ImageURL   string `json:"img_url"`
	RoomCount  int    `json:"room_count"`
	OrderCount int    `json:"order_count"`
	Address    string `json:"address"`
	UserAvatar string `json:"user_avatar"`
	CreatedAt  string `json:"ctime"`
}

// HouseFull is the detail projection, including facility ids and image urls.
type HouseFull struct {
	HouseID    uint     `json:"hid"`
	UserID     uint     `json:"user_id"`
	UserName   string   `json:"user_name"`
	UserAvatar string   `json:"user_avatar"`
	Title      string   `json:"title"`
	Price      int      `json:"price"`
	Address    string   `json:"address"`
	RoomCount  int      `json:"room_count"`
	Acreage    int      `json:"acreage"`
	Unit       string   `json:"unit"`
	Capacity   int      `json:"capacity"`
	Beds       string   `json:"beds"`
	Deposit    int      `json:"deposit"`
	MinDays    int      `json:"min_days"`
	MaxDays    int      `json:"max_days"`
	ImageURLs  []string `json:"img_urls"`
	Facilities []uint   `json:"facilities"`
}

// HasIndexImage reports whether the house has a cover image.
func (h House) HasIndexImage() bool {
	return h.IndexImageURL != nil && *h.IndexImageURL != ""
}

// ToBasic projects the house for list responses. Area and User must be preloaded.
// Image object names are expanded with prefix.
func (h House) ToBasic(prefix string) HouseBasic {
	basic := HouseBasic{
		HouseID:    h.ID,
		Title:      h.Title,
		Price:      h.Price,
		AreaName:   h.Area.Name,
		RoomCount:  h.RoomCount,
		OrderCount: h.OrderCount,
		Address:    h.Address,
		UserAvatar: ObjectURL(prefix, h.User.AvatarURL),
		CreatedAt:  h.CreatedAt.UTC().Format("2006-01-02"),
	}
	if h.HasIndexImage() {
		basic.ImageURL = ObjectURL(prefix, *h.IndexImageURL)
	}
	return basic
}

// ToFull projects the house for the detail page. User, Images and Facilities
// must be preloaded.
func (h House) ToFull(prefix string) HouseFull {
	full := HouseFull{
		HouseID:    h.ID,
		UserID:     h.UserID,
		UserName:   h.User.Name,
		UserAvatar: ObjectURL(prefix, h.User.AvatarURL),
		Title:      h.Title,
		Price:      h.Price,
		Address:    h.Address,
		RoomCount:  h.RoomCount,
		Acreage:    h.Acreage,
		Unit:       h.Unit,
		Capacity:   h.Capacity,
		Beds:       h.Beds,
		Deposit:    h.Deposit,
		MinDays:    h.MinDays,
		MaxDays:    h.MaxDays,
		ImageURLs:  make([]string, 0, len(h.Images)),
		Facilities: make([]uint, 0, len(h.Facilities)),
	}
	for _, image := range h.Images {
		full.ImageURLs = append(full.ImageURLs, ObjectURL(prefix, image.URL))
	}
	for _, facility := range h.Facilities {
		full.Facilities = append(full.Facilities, facility.ID)
	}
	return full
}

// ObjectURL joins the object storage prefix with an object name.
func ObjectURL(prefix, name string) string {
	if name == "" {
		return ""
	}
	return prefix + name
}
