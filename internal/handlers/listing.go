package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ehomehq/ehome/internal/middleware"
	"github.com/ehomehq/ehome/internal/search"
	"github.com/ehomehq/ehome/internal/services"
	appErrors "github.com/ehomehq/ehome/pkg/errors"
	"github.com/ehomehq/ehome/pkg/response"
)

// anonymousViewer is reported as the viewer id when the caller is not signed in.
const anonymousViewer int64 = -1

// ListingHandler exposes the cached listing reads.
type ListingHandler struct {
	svc *services.ListingService
}

// NewListingHandler constructs a listing handler.
func NewListingHandler(svc *services.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

type houseDetailData struct {
	UserID int64           `json:"user_id"`
	House  json.RawMessage `json:"house"`
}

// Areas handles GET /api/v1.0/areas.
func (h *ListingHandler) Areas(c *gin.Context) {
	payload, err := h.svc.Areas(requestContext(c))
	if err != nil {
		response.Error(c, translateError(err))
		return
	}
	response.Raw(c, http.StatusOK, payload)
}

// HomeFeed handles GET /api/v1.0/houses/index.
func (h *ListingHandler) HomeFeed(c *gin.Context) {
	payload, err := h.svc.HomeFeed(requestContext(c))
	if err != nil {
		response.Error(c, translateError(err))
		return
	}
	response.Raw(c, http.StatusOK, payload)
}

// Detail handles GET /api/v1.0/houses/:id. The viewer id comes from an
// optional bearer token and never enters the cached payload.
func (h *ListingHandler) Detail(c *gin.Context) {
	houseID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.NewBadParam("house id must be a positive integer"))
		return
	}

	payload, err := h.svc.HouseDetail(requestContext(c), houseID)
	if err != nil {
		response.Error(c, translateError(err))
		return
	}

	viewer := anonymousViewer
	if userID, ok := middleware.UserID(c); ok {
		viewer = int64(userID)
	}
	response.Success(c, http.StatusOK, houseDetailData{UserID: viewer, House: payload})
}

// Search handles GET /api/v1.0/houses?aid=&sd=&ed=&sk=&p=.
func (h *ListingHandler) Search(c *gin.Context) {
	query, err := search.ParseQuery(c.Query("aid"), c.Query("sd"), c.Query("ed"), c.Query("sk"), c.Query("p"))
	if err != nil {
		response.Error(c, translateError(err))
		return
	}

	body, err := h.svc.Search(requestContext(c), query)
	if err != nil {
		response.Error(c, translateError(err))
		return
	}
	response.Blob(c, http.StatusOK, body)
}
