package handlers

import (
	"errors"

	"go.uber.org/zap"

	"github.com/ehomehq/ehome/internal/cacheaside"
	"github.com/ehomehq/ehome/internal/search"
	"github.com/ehomehq/ehome/internal/services"
	appErrors "github.com/ehomehq/ehome/pkg/errors"
	"github.com/ehomehq/ehome/pkg/logger"
)

// translateError maps service and cache-aside failures onto API errors.
// Anything unrecognised is treated as a store failure.
func translateError(err error) error {
	var inputErr *search.InputError
	var storeErr *cacheaside.StoreError

	switch {
	case errors.As(err, &inputErr):
		return appErrors.NewBadParam(inputErr.Error())
	case errors.Is(err, search.ErrInvalidInput):
		return appErrors.ErrBadParam
	case errors.Is(err, cacheaside.ErrEmpty), errors.Is(err, services.ErrHouseNotFound):
		return appErrors.ErrNoData
	case errors.Is(err, services.ErrNotHouseOwner):
		return appErrors.ErrForbidden
	case errors.Is(err, services.ErrInvalidHouse):
		return appErrors.NewBadParam(err.Error())
	case errors.As(err, &storeErr):
		logger.WithModule("handlers").Error("store query failed",
			zap.String("resource", storeErr.Resource),
			zap.Error(storeErr.Err),
		)
		return appErrors.ErrDatabase.WithInternal(err)
	default:
		logger.WithModule("handlers").Error("request failed", zap.Error(err))
		return appErrors.ErrDatabase.WithInternal(err)
	}
}
