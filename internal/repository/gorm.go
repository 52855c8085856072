package repository

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ehomehq/ehome/internal/models"
	"github.com/ehomehq/ehome/internal/search"
)

// GormRepository implements Repository on gorm.
type GormRepository struct {
	db *gorm.DB
}

var _ Repository = (*GormRepository)(nil)

// NewGormRepository constructs the repository once a database handle is supplied.
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if db == nil {
		return nil, errors.New("repository: db is required")
	}
	return &GormRepository{db: db}, nil
}

// ListAreas returns every area ordered by id.
func (r *GormRepository) ListAreas(ctx context.Context) ([]models.Area, error) {
	var areas []models.Area
	if err := r.db.WithContext(ctx).Order("id asc").Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

// GetHouse loads a house with owner, images and facilities.
func (r *GormRepository) GetHouse(ctx context.Context, id uint) (*models.House, error) {
	var house models.House
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Area").
		Preload("Images", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		Preload("Facilities", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		First(&house, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHouseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &house, nil
}

// TopHouses returns the most booked houses.
func (r *GormRepository) TopHouses(ctx context.Context, limit int) ([]models.House, error) {
	var houses []models.House
	err := r.db.WithContext(ctx).
		Preload("Area").
		Preload("User").
		Order("order_count desc").
		Order("id desc").
		Limit(limit).
		Find(&houses).Error
	if err != nil {
		return nil, err
	}
	return houses, nil
}

// SearchHouses runs a search plan and returns one page together with the page count.
// Pages past the end yield an empty, non-nil slice.
func (r *GormRepository) SearchHouses(ctx context.Context, plan search.Plan) ([]models.House, int, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		if plan.AreaID != nil {
			tx = tx.Where("area_id = ?", *plan.AreaID)
		}
		if len(plan.Exclude) > 0 {
			tx = tx.Where("id NOT IN ?", plan.Exclude)
		}
		return tx
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.House{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	totalPages := search.TotalPages(total, plan.PageSize)
	houses := []models.House{}
	if plan.Page > totalPages {
		return houses, totalPages, nil
	}

	// id breaks ties so pages never overlap.
	err := r.db.WithContext(ctx).
		Scopes(filter).
		Preload("Area").
		Preload("User").
		Order(clause.OrderByColumn{Column: clause.Column{Name: plan.Order.Column}, Desc: plan.Order.Desc}).
		Order("id desc").
		Offset(plan.Offset()).
		Limit(plan.PageSize).
		Find(&houses).Error
	if err != nil {
		return nil, 0, err
	}
	return houses, totalPages, nil
}

// FindOrderHouseIDs lists the house ids of orders matching the predicate.
func (r *GormRepository) FindOrderHouseIDs(ctx context.Context, predicate search.OrderPredicate) ([]uint, error) {
	tx := r.db.WithContext(ctx).Model(&models.Order{})
	if predicate.BeginOnOrBefore != nil {
		tx = tx.Where("begin_date <= ?", datatypes.Date(*predicate.BeginOnOrBefore))
	}
	if predicate.EndOnOrAfter != nil {
		tx = tx.Where("end_date >= ?", datatypes.Date(*predicate.EndOnOrAfter))
	}

	var ids []uint
	if err := tx.Distinct().Pluck("house_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListHousesByOwner returns a user's houses, newest first.
func (r *GormRepository) ListHousesByOwner(ctx context.Context, userID uint) ([]models.House, error) {
	var houses []models.House
	err := r.db.WithContext(ctx).
		Preload("Area").
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Find(&houses).Error
	if err != nil {
		return nil, err
	}
	return houses, nil
}

// CreateHouse inserts a house and attaches the known facilities among facilityIDs.
func (r *GormRepository) CreateHouse(ctx context.Context, house *models.House, facilityIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var areaCount int64
		if err := tx.Model(&models.Area{}).Where("id = ?", house.AreaID).Count(&areaCount).Error; err != nil {
			return err
		}
		if areaCount == 0 {
			return ErrAreaNotFound
		}

		if len(facilityIDs) > 0 {
			var facilities []models.Facility
			if err := tx.Where("id IN ?", facilityIDs).Order("id asc").Find(&facilities).Error; err != nil {
				return err
			}
			house.Facilities = facilities
		}

		return tx.Omit("Facilities.*").Create(house).Error
	})
}

// AddHouseImage records an image for a house. The first image becomes the
// house's index image; later images never replace it.
func (r *GormRepository) AddHouseImage(ctx context.Context, houseID uint, objectName string) (*models.HouseImage, error) {
	image := &models.HouseImage{HouseID: houseID, URL: objectName}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var houseCount int64
		if err := tx.Model(&models.House{}).Where("id = ?", houseID).Count(&houseCount).Error; err != nil {
			return err
		}
		if houseCount == 0 {
			return ErrHouseNotFound
		}

		if err := tx.Create(image).Error; err != nil {
			return err
		}

		return tx.Model(&models.House{}).
			Where("id = ? AND (index_image_url IS NULL OR index_image_url = '')", houseID).
			Update("index_image_url", objectName).Error
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}
