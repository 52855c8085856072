package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ehomehq/ehome/internal/models"
	"github.com/ehomehq/ehome/internal/repository"
)

var (
	// ErrHouseNotFound indicates the requested house does not exist.
	ErrHouseNotFound = errors.New("house service: house not found")
	// ErrNotHouseOwner indicates the caller does not own the house.
	ErrNotHouseOwner = errors.New("house service: caller does not own house")
	// ErrInvalidHouse indicates the publish payload is inconsistent.
	ErrInvalidHouse = errors.New("house service: invalid house")
)

// CreateHouseInput captures the fields of a new listing. Amounts are in yuan.
type CreateHouseInput struct {
	Title       string
	Price       string
	AreaID      uint
	Address     string
	RoomCount   int
	Acreage     int
	Unit        string
	Capacity    int
	Beds        string
	Deposit     string
	MinDays     int
	MaxDays     int
	FacilityIDs []uint
}

// HouseService publishes houses and records their images. Writes do not touch
// the listing cache; cached reads converge when their ttl lapses.
type HouseService struct {
	repo           repository.Repository
	imageURLPrefix string
}

// NewHouseService constructs a house service.
func NewHouseService(repo repository.Repository, imageURLPrefix string) (*HouseService, error) {
	if repo == nil {
		return nil, errors.New("house service: repository is required")
	}
	return &HouseService{repo: repo, imageURLPrefix: imageURLPrefix}, nil
}

// Create publishes a house owned by ownerID and returns its id.
func (s *HouseService) Create(ctx context.Context, ownerID uint, input CreateHouseInput) (uint, error) {
	ctx = ensuredContext(ctx)

	price, err := yuanToFen(input.Price)
	if err != nil {
		return 0, fmt.Errorf("%w: price: %v", ErrInvalidHouse, err)
	}
	deposit, err := yuanToFen(input.Deposit)
	if err != nil {
		return 0, fmt.Errorf("%w: deposit: %v", ErrInvalidHouse, err)
	}
	if input.MaxDays != 0 && input.MaxDays < input.MinDays {
		return 0, fmt.Errorf("%w: max_days is below min_days", ErrInvalidHouse)
	}

	house := &models.House{
		UserID:    ownerID,
		AreaID:    input.AreaID,
		Title:     strings.TrimSpace(input.Title),
		Price:     price,
		Address:   strings.TrimSpace(input.Address),
		RoomCount: input.RoomCount,
		Acreage:   input.Acreage,
		Unit:      strings.TrimSpace(input.Unit),
		Capacity:  input.Capacity,
		Beds:      strings.TrimSpace(input.Beds),
		Deposit:   deposit,
		MinDays:   input.MinDays,
		MaxDays:   input.MaxDays,
	}

	if err := s.repo.CreateHouse(ctx, house, normaliseIDs(input.FacilityIDs)); err != nil {
		if errors.Is(err, repository.ErrAreaNotFound) {
			return 0, fmt.Errorf("%w: unknown area %d", ErrInvalidHouse, input.AreaID)
		}
		return 0, fmt.Errorf("house service: create house: %w", err)
	}
	return house.ID, nil
}

// AddImage records an uploaded image object for a house owned by ownerID and
// returns its public url.
func (s *HouseService) AddImage(ctx context.Context, ownerID, houseID uint, objectName string) (string, error) {
	ctx = ensuredContext(ctx)

	house, err := s.repo.GetHouse(ctx, houseID)
	if errors.Is(err, repository.ErrHouseNotFound) {
		return "", ErrHouseNotFound
	}
	if err != nil {
		return "", fmt.Errorf("house service: load house: %w", err)
	}
	if house.UserID != ownerID {
		return "", ErrNotHouseOwner
	}

	objectName = strings.TrimSpace(objectName)
	if _, err := s.repo.AddHouseImage(ctx, houseID, objectName); err != nil {
		if errors.Is(err, repository.ErrHouseNotFound) {
			return "", ErrHouseNotFound
		}
		return "", fmt.Errorf("house service: add image: %w", err)
	}
	return models.ObjectURL(s.imageURLPrefix, objectName), nil
}

// ListByOwner returns the owner's houses in summary form.
func (s *HouseService) ListByOwner(ctx context.Context, ownerID uint) ([]models.HouseBasic, error) {
	ctx = ensuredContext(ctx)

	houses, err := s.repo.ListHousesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("house service: list houses: %w", err)
	}
	out := make([]models.HouseBasic, 0, len(houses))
	for _, house := range houses {
		out = append(out, house.ToBasic(s.imageURLPrefix))
	}
	return out, nil
}

// maxFen is the largest amount a price or deposit column holds.
const maxFen = math.MaxInt32

// yuanToFen converts a decimal yuan amount into integer fen.
func yuanToFen(value string) (int, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	fen := math.Round(amount * 100)
	if math.IsNaN(fen) || fen < 0 || fen > maxFen {
		return 0, fmt.Errorf("amount %q out of range", value)
	}
	return int(fen), nil
}
