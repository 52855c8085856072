package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ehomehq/ehome/internal/api"
	"github.com/ehomehq/ehome/internal/app"
	"github.com/ehomehq/ehome/internal/auth"
	"github.com/ehomehq/ehome/internal/cache/cachetest"
	"github.com/ehomehq/ehome/internal/cacheaside"
	sharedtestutil "github.com/ehomehq/ehome/internal/database/testutil"
	"github.com/ehomehq/ehome/internal/models"
	"github.com/ehomehq/ehome/internal/monitoring"
	"github.com/ehomehq/ehome/internal/monitoring/checks"
	"github.com/ehomehq/ehome/internal/repository"
	"github.com/ehomehq/ehome/internal/services"
)

// ImageURLPrefix is the object storage prefix configured for handler tests.
const ImageURLPrefix = "http://img.test/"

// Env encapsulates a fully-wired API instance backed by an in-memory database
// and a deterministic cache tier for handler tests.
type Env struct {
	T        *testing.T
	DB       *gorm.DB
	Cache    *cachetest.Store
	Router   *gin.Engine
	Sessions *auth.Sessions
}

// NewEnv provisions a fresh handler test environment with migrations and seed data applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithSeedData())
	store := cachetest.New()

	sessions, err := auth.NewSessions(auth.Config{
		Secret: "test-suite-super-secret-key-32-bytes!!",
		Issuer: "test-suite",
		TTL:    time.Hour,
	})
	require.NoError(t, err)

	cfg := &app.Config{
		Listing: app.ListingConfig{ImageURLPrefix: ImageURLPrefix},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
			Health:     app.HealthConfig{Enabled: true},
		},
	}

	repo, err := repository.NewGormRepository(db)
	require.NoError(t, err)

	cacheLayer, err := cacheaside.New(store, zap.NewNop())
	require.NoError(t, err)

	listing, err := services.NewListingService(repo, cacheLayer, cfg.Listing.ServiceConfig())
	require.NoError(t, err)

	houses, err := services.NewHouseService(repo, ImageURLPrefix)
	require.NoError(t, err)

	mon, err := monitoring.NewModule(monitoring.Options{IncludeDefaultRegistry: true})
	require.NoError(t, err)
	mon.Health().RegisterReadiness(checks.Database(db, time.Second))
	mon.Health().RegisterReadiness(checks.Cache("test", store, time.Second))

	router, err := api.NewRouter(api.Dependencies{
		Config:     cfg,
		Sessions:   sessions,
		Listing:    listing,
		Houses:     houses,
		Monitoring: mon,
	})
	require.NoError(t, err)

	return &Env{
		T:        t,
		DB:       db,
		Cache:    store,
		Router:   router,
		Sessions: sessions,
	}
}

// CreateUser inserts a user with a unique name and mobile number.
func (e *Env) CreateUser() *models.User {
	e.T.Helper()

	suffix := uuid.NewString()
	user := &models.User{
		Name:      "user-" + suffix[:8],
		Mobile:    fmt.Sprintf("1%010d", uuid.New().ID()),
		AvatarURL: "avatar-" + suffix[:8] + ".png",
	}
	require.NoError(e.T, e.DB.Create(user).Error)
	return user
}

// Token issues a bearer token for the user.
func (e *Env) Token(user *models.User) string {
	e.T.Helper()

	token, err := e.Sessions.Issue(auth.Session{
		UserID: user.ID,
		Name:   user.Name,
		Mobile: user.Mobile,
	})
	require.NoError(e.T, err)
	return token
}

// CreateHouse inserts a house owned by owner in the seeded area with the given id.
// mutate may adjust fields before the insert.
func (e *Env) CreateHouse(owner *models.User, areaID uint, mutate func(*models.House)) *models.House {
	e.T.Helper()

	house := &models.House{
		UserID:    owner.ID,
		AreaID:    areaID,
		Title:     "house-" + uuid.NewString()[:8],
		Price:     10000,
		Address:   "1 Test Road",
		RoomCount: 1,
		Capacity:  2,
		MinDays:   1,
	}
	if mutate != nil {
		mutate(house)
	}
	require.NoError(e.T, e.DB.Create(house).Error)
	return house
}

// CreateOrder books house for the inclusive date range.
func (e *Env) CreateOrder(guest *models.User, houseID uint, begin, end string) {
	e.T.Helper()

	b, err := time.Parse("2006-01-02", begin)
	require.NoError(e.T, err)
	en, err := time.Parse("2006-01-02", end)
	require.NoError(e.T, err)

	require.NoError(e.T, e.DB.Create(&models.Order{
		UserID:    guest.ID,
		HouseID:   houseID,
		BeginDate: datatypes.Date(b),
		EndDate:   datatypes.Date(en),
		Days:      int(en.Sub(b).Hours()/24) + 1,
		Status:    models.OrderStatusPaid,
	}).Error)
}

// APIResponse represents the errno/errmsg/data envelope returned by handlers.
type APIResponse struct {
	Errno  int             `json:"errno"`
	Errmsg string          `json:"errmsg"`
	Data   json.RawMessage `json:"data"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	switch v := body.(type) {
	case nil:
		buf = bytes.NewBuffer(nil)
	case string:
		buf = bytes.NewBufferString(v)
	default:
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
