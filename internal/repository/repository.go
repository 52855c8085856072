// Package repository is the relational store behind the listing cache.
package repository

import (
	"context"
	"errors"

	"github.com/ehomehq/ehome/internal/models"
	"github.com/ehomehq/ehome/internal/search"
)

var (
	// ErrHouseNotFound indicates the requested house does not exist.
	ErrHouseNotFound = errors.New("repository: house not found")
	// ErrAreaNotFound indicates a house references an unknown area.
	ErrAreaNotFound = errors.New("repository: area not found")
)

// Repository exposes the reads and writes the listing service needs. Reads
// return Area/User preloaded so projections can be built without extra queries.
type Repository interface {
	search.OrderFinder

	ListAreas(ctx context.Context) ([]models.Area, error)
	GetHouse(ctx context.Context, id uint) (*models.House, error)
	TopHouses(ctx context.Context, limit int) ([]models.House, error)
	SearchHouses(ctx context.Context, plan search.Plan) ([]models.House, int, error)
	ListHousesByOwner(ctx context.Context, userID uint) ([]models.House, error)

	CreateHouse(ctx context.Context, house *models.House, facilityIDs []uint) error
	AddHouseImage(ctx context.Context, houseID uint, objectName string) (*models.HouseImage, error)
}
