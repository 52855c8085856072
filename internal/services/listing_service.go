package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ehomehq/ehome/internal/cache"
	"github.com/ehomehq/ehome/internal/cacheaside"
	"github.com/ehomehq/ehome/internal/models"
	"github.com/ehomehq/ehome/internal/repository"
	"github.com/ehomehq/ehome/internal/search"
	"github.com/ehomehq/ehome/pkg/response"
)

// Resource names used for cache metrics and logs.
const (
	ResourceAreas       = "areas"
	ResourceHomeFeed    = "home_feed"
	ResourceHouseDetail = "house_detail"
	ResourceSearch      = "search"
)

// ListingConfig holds cache lifetimes and paging constants for listing reads.
type ListingConfig struct {
	AreaTTL           time.Duration
	HomeTTL           time.Duration
	DetailTTL         time.Duration
	SearchTTL         time.Duration
	HomePageMaxHouses int
	PageCapacity      int
	ImageURLPrefix    string
}

// DefaultListingConfig returns two-hour lifetimes, a five-house home feed and two houses per page.
func DefaultListingConfig() ListingConfig {
	return ListingConfig{
		AreaTTL:           2 * time.Hour,
		HomeTTL:           2 * time.Hour,
		DetailTTL:         2 * time.Hour,
		SearchTTL:         2 * time.Hour,
		HomePageMaxHouses: 5,
		PageCapacity:      2,
	}
}

func (c ListingConfig) withDefaults() ListingConfig {
	defaults := DefaultListingConfig()
	if c.AreaTTL <= 0 {
		c.AreaTTL = defaults.AreaTTL
	}
	if c.HomeTTL <= 0 {
		c.HomeTTL = defaults.HomeTTL
	}
	if c.DetailTTL <= 0 {
		c.DetailTTL = defaults.DetailTTL
	}
	if c.SearchTTL <= 0 {
		c.SearchTTL = defaults.SearchTTL
	}
	if c.HomePageMaxHouses <= 0 {
		c.HomePageMaxHouses = defaults.HomePageMaxHouses
	}
	if c.PageCapacity <= 0 {
		c.PageCapacity = defaults.PageCapacity
	}
	return c
}

// SearchPage is the data section of a search response.
type SearchPage struct {
	Houses      []models.HouseBasic `json:"houses"`
	TotalPages  int                 `json:"total_page"`
	CurrentPage int                 `json:"current_page"`
}

// ListingService serves the cached read paths: areas, home feed, house detail and search.
// Results are JSON payloads ready to be written to the client.
type ListingService struct {
	repo  repository.Repository
	cache *cacheaside.Cache
	cfg   ListingConfig
}

// NewListingService constructs a listing service.
func NewListingService(repo repository.Repository, c *cacheaside.Cache, cfg ListingConfig) (*ListingService, error) {
	if repo == nil {
		return nil, errors.New("listing service: repository is required")
	}
	if c == nil {
		return nil, errors.New("listing service: cache is required")
	}
	return &ListingService{repo: repo, cache: c, cfg: cfg.withDefaults()}, nil
}

// Areas returns the JSON array of every area.
func (s *ListingService) Areas(ctx context.Context) (json.RawMessage, error) {
	ctx = ensuredContext(ctx)
	res := cacheaside.Resource{Name: ResourceAreas, TTL: s.cfg.AreaTTL}

	result, err := cacheaside.Fetch(ctx, s.cache, res, cache.AreasKey(), func(ctx context.Context) ([]models.AreaView, error) {
		areas, err := s.repo.ListAreas(ctx)
		if err != nil {
			return nil, err
		}
		if len(areas) == 0 {
			return nil, cacheaside.ErrEmpty
		}
		views := make([]models.AreaView, 0, len(areas))
		for _, area := range areas {
			views = append(views, area.ToView())
		}
		return views, nil
	})
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// HomeFeed returns the most booked houses that have a cover image.
func (s *ListingService) HomeFeed(ctx context.Context) (json.RawMessage, error) {
	ctx = ensuredContext(ctx)
	res := cacheaside.Resource{Name: ResourceHomeFeed, TTL: s.cfg.HomeTTL}

	result, err := cacheaside.Fetch(ctx, s.cache, res, cache.HomeFeedKey(), func(ctx context.Context) ([]models.HouseBasic, error) {
		houses, err := s.repo.TopHouses(ctx, s.cfg.HomePageMaxHouses)
		if err != nil {
			return nil, err
		}
		feed := make([]models.HouseBasic, 0, len(houses))
		for _, house := range houses {
			if !house.HasIndexImage() {
				continue
			}
			feed = append(feed, house.ToBasic(s.cfg.ImageURLPrefix))
		}
		if len(feed) == 0 {
			return nil, cacheaside.ErrEmpty
		}
		return feed, nil
	})
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// HouseDetail returns the full projection of one house.
func (s *ListingService) HouseDetail(ctx context.Context, houseID uint) (json.RawMessage, error) {
	ctx = ensuredContext(ctx)
	res := cacheaside.Resource{Name: ResourceHouseDetail, TTL: s.cfg.DetailTTL}

	result, err := cacheaside.Fetch(ctx, s.cache, res, cache.HouseDetailKey(houseID), func(ctx context.Context) (models.HouseFull, error) {
		house, err := s.repo.GetHouse(ctx, houseID)
		if errors.Is(err, repository.ErrHouseNotFound) {
			return models.HouseFull{}, cacheaside.ErrEmpty
		}
		if err != nil {
			return models.HouseFull{}, err
		}
		return house.ToFull(s.cfg.ImageURLPrefix), nil
	})
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// Search returns the complete response envelope for one page of a search.
// Pages past the end produce an empty house list and are not cached.
func (s *ListingService) Search(ctx context.Context, q search.Query) (json.RawMessage, error) {
	ctx = ensuredContext(ctx)
	res := cacheaside.Resource{Name: ResourceSearch, TTL: s.cfg.SearchTTL}
	bucket := cache.SearchBucketKey(q.AreaID, q.Dates.StartRaw, q.Dates.EndRaw, q.SortRaw)

	result, err := s.cache.FetchPage(ctx, res, bucket, q.Page, func(ctx context.Context) (cacheaside.Page, error) {
		exclude, err := search.ConflictingHouses(ctx, s.repo, q.Dates)
		if err != nil {
			return cacheaside.Page{}, err
		}

		houses, totalPages, err := s.repo.SearchHouses(ctx, search.BuildPlan(q, exclude, s.cfg.PageCapacity))
		if err != nil {
			return cacheaside.Page{}, err
		}

		page := SearchPage{
			Houses:      make([]models.HouseBasic, 0, len(houses)),
			TotalPages:  totalPages,
			CurrentPage: q.Page,
		}
		for _, house := range houses {
			page.Houses = append(page.Houses, house.ToBasic(s.cfg.ImageURLPrefix))
		}

		payload, err := json.Marshal(response.Response{Errno: 0, Errmsg: "OK", Data: page})
		if err != nil {
			return cacheaside.Page{}, err
		}
		return cacheaside.Page{Payload: payload, TotalPages: totalPages}, nil
	})
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}
