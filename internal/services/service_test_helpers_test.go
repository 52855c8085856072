package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ehomehq/ehome/internal/cache/cachetest"
	"github.com/ehomehq/ehome/internal/cacheaside"
	"github.com/ehomehq/ehome/internal/database/testutil"
	"github.com/ehomehq/ehome/internal/models"
	"github.com/ehomehq/ehome/internal/repository"
	"github.com/ehomehq/ehome/internal/search"
)

// countingRepository records store reads issued by the services.
type countingRepository struct {
	repository.Repository
	calls map[string]int
}

func (r *countingRepository) ListAreas(ctx context.Context) ([]models.Area, error) {
	r.calls["ListAreas"]++
	return r.Repository.ListAreas(ctx)
}

func (r *countingRepository) GetHouse(ctx context.Context, id uint) (*models.House, error) {
	r.calls["GetHouse"]++
	return r.Repository.GetHouse(ctx, id)
}

func (r *countingRepository) TopHouses(ctx context.Context, limit int) ([]models.House, error) {
	r.calls["TopHouses"]++
	return r.Repository.TopHouses(ctx, limit)
}

func (r *countingRepository) SearchHouses(ctx context.Context, plan search.Plan) ([]models.House, int, error) {
	r.calls["SearchHouses"]++
	return r.Repository.SearchHouses(ctx, plan)
}

func (r *countingRepository) FindOrderHouseIDs(ctx context.Context, p search.OrderPredicate) ([]uint, error) {
	r.calls["FindOrderHouseIDs"]++
	return r.Repository.FindOrderHouseIDs(ctx, p)
}

func (r *countingRepository) total() int {
	sum := 0
	for _, n := range r.calls {
		sum += n
	}
	return sum
}

type listingEnv struct {
	db    *gorm.DB
	repo  *countingRepository
	store *cachetest.Store
	svc   *ListingService
	owner models.User
	area  models.Area
}

func newListingEnv(t *testing.T) *listingEnv {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	gormRepo, err := repository.NewGormRepository(db)
	require.NoError(t, err)
	repo := &countingRepository{Repository: gormRepo, calls: map[string]int{}}

	store := cachetest.New()
	c, err := cacheaside.New(store, zap.NewNop())
	require.NoError(t, err)

	cfg := DefaultListingConfig()
	cfg.ImageURLPrefix = "http://img.example.com/"
	svc, err := NewListingService(repo, c, cfg)
	require.NoError(t, err)

	owner := models.User{Name: "owner", Mobile: "13800000000"}
	require.NoError(t, db.Create(&owner).Error)
	area := models.Area{Name: "Downtown"}
	require.NoError(t, db.Create(&area).Error)

	return &listingEnv{db: db, repo: repo, store: store, svc: svc, owner: owner, area: area}
}

func (e *listingEnv) addHouse(t *testing.T, house models.House) models.House {
	t.Helper()
	house.UserID = e.owner.ID
	if house.AreaID == 0 {
		house.AreaID = e.area.ID
	}
	require.NoError(t, e.db.Create(&house).Error)
	return house
}

func (e *listingEnv) addOrder(t *testing.T, houseID uint, begin, end string) {
	t.Helper()
	b, err := time.Parse(search.DateLayout, begin)
	require.NoError(t, err)
	en, err := time.Parse(search.DateLayout, end)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(&models.Order{
		UserID:    e.owner.ID,
		HouseID:   houseID,
		BeginDate: datatypes.Date(b),
		EndDate:   datatypes.Date(en),
	}).Error)
}

func strPtr(value string) *string {
	return &value
}
