package database

import (
	"gorm.io/gorm"

	"github.com/ehomehq/ehome/internal/models"
)

var defaultAreas = []string{
	"Dongcheng", "Xicheng", "Chaoyang", "Haidian", "Changping", "Fengtai",
	"Fangshan", "Tongzhou", "Shunyi", "Daxing", "Huairou", "Miyun",
	"Yanqing", "Shijingshan", "Mentougou", "Pinggu",
}

var defaultFacilities = []string{
	"Wireless network", "Hot water", "Air conditioning", "Heating",
	"Smoking allowed", "Drinking water", "Toiletries", "Slippers",
	"Towels", "Refrigerator", "Washing machine", "Elevator",
	"Kitchen", "Pets allowed", "Parking", "Fire extinguisher",
}

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Area{},
		&models.Facility{},
		&models.House{},
		&models.HouseImage{},
		&models.Order{},
		&models.CacheEntry{},
	)
}

// SeedData populates the area and facility reference tables.
func SeedData(db *gorm.DB) error {
	for _, name := range defaultAreas {
		if err := db.Where(models.Area{Name: name}).FirstOrCreate(&models.Area{}).Error; err != nil {
			return err
		}
	}

	for _, name := range defaultFacilities {
		if err := db.Where(models.Facility{Name: name}).FirstOrCreate(&models.Facility{}).Error; err != nil {
			return err
		}
	}

	return nil
}
