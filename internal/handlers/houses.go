package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ehomehq/ehome/internal/middleware"
	"github.com/ehomehq/ehome/internal/services"
	appErrors "github.com/ehomehq/ehome/pkg/errors"
	"github.com/ehomehq/ehome/pkg/response"
)

// HouseHandler exposes the landlord write paths.
type HouseHandler struct {
	svc *services.HouseService
}

// NewHouseHandler constructs a house handler.
func NewHouseHandler(svc *services.HouseService) *HouseHandler {
	return &HouseHandler{svc: svc}
}

type publishHouseRequest struct {
	Title     string      `json:"title" validate:"required,max=64"`
	Price     json.Number `json:"price" validate:"required,yuan"`
	AreaID    uint        `json:"area_id" validate:"required"`
	Address   string      `json:"address" validate:"required,max=512"`
	RoomCount int         `json:"room_count" validate:"required,min=1"`
	Acreage   int         `json:"acreage" validate:"required,min=1"`
	Unit      string      `json:"unit" validate:"required,max=32"`
	Capacity  int         `json:"capacity" validate:"required,min=1"`
	Beds      string      `json:"beds" validate:"required,max=64"`
	Deposit   json.Number `json:"deposit" validate:"required,yuan"`
	MinDays   *int        `json:"min_days" validate:"required,min=0"`
	MaxDays   *int        `json:"max_days" validate:"required,min=0"`
	Facility  []uint      `json:"facility"`
}

type addImageRequest struct {
	Image string `json:"image" validate:"required,max=256"`
}

// Publish handles POST /api/v1.0/houses.
func (h *HouseHandler) Publish(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, appErrors.ErrSession)
		return
	}

	var req publishHouseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	houseID, err := h.svc.Create(requestContext(c), ownerID, services.CreateHouseInput{
		Title:       req.Title,
		Price:       req.Price.String(),
		AreaID:      req.AreaID,
		Address:     req.Address,
		RoomCount:   req.RoomCount,
		Acreage:     req.Acreage,
		Unit:        req.Unit,
		Capacity:    req.Capacity,
		Beds:        req.Beds,
		Deposit:     req.Deposit.String(),
		MinDays:     *req.MinDays,
		MaxDays:     *req.MaxDays,
		FacilityIDs: req.Facility,
	})
	if err != nil {
		response.Error(c, translateError(err))
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"house_id": houseID})
}

// AddImage handles POST /api/v1.0/houses/:id/images.
func (h *HouseHandler) AddImage(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, appErrors.ErrSession)
		return
	}

	houseID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.NewBadParam("house id must be a positive integer"))
		return
	}

	var req addImageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		response.Error(c, appErrors.NewBadParam("image is required"))
		return
	}

	url, err := h.svc.AddImage(requestContext(c), ownerID, houseID, req.Image)
	if err != nil {
		response.Error(c, translateError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url})
}

// OwnerHouses handles GET /api/v1.0/user/houses.
func (h *HouseHandler) OwnerHouses(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, appErrors.ErrSession)
		return
	}

	houses, err := h.svc.ListByOwner(requestContext(c), ownerID)
	if err != nil {
		response.Error(c, translateError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"houses": houses})
}
