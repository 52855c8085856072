package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehomehq/ehome/internal/handlers/testutil"
	"github.com/ehomehq/ehome/internal/models"
	apperrors "github.com/ehomehq/ehome/pkg/errors"
)

func validPublishPayload() map[string]any {
	return map[string]any{
		"title":      "Sunny loft",
		"price":      "12.5",
		"area_id":    1,
		"address":    "8 Garden Street",
		"room_count": 2,
		"acreage":    60,
		"unit":       "two bedrooms",
		"capacity":   3,
		"beds":       "double",
		"deposit":    200,
		"min_days":   1,
		"max_days":   0,
		"facility":   []uint{1, 3, 9999},
	}
}

func TestPublishHouseRequiresSession(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/api/v1.0/houses", validPublishPayload(), "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, apperrors.SESSIONERR, testutil.DecodeResponse(t, w).Errno)

	w = env.Request(http.MethodPost, "/api/v1.0/houses", validPublishPayload(), "not-a-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublishHouse(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.CreateUser()

	w := env.Request(http.MethodPost, "/api/v1.0/houses", validPublishPayload(), env.Token(owner))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	require.Equal(t, apperrors.OK, resp.Errno)
	var data struct {
		HouseID uint `json:"house_id"`
	}
	testutil.DecodeInto(t, resp.Data, &data)
	require.NotZero(t, data.HouseID)

	var house models.House
	require.NoError(t, env.DB.Preload("Facilities").First(&house, data.HouseID).Error)
	require.Equal(t, owner.ID, house.UserID)
	require.Equal(t, 1250, house.Price)
	require.Equal(t, 20000, house.Deposit)
	require.Len(t, house.Facilities, 2)
	require.Nil(t, house.IndexImageURL)
}

func TestPublishHouseValidation(t *testing.T) {
	env := testutil.NewEnv(t)
	token := env.Token(env.CreateUser())

	cases := map[string]func(map[string]any){
		"missing title":     func(p map[string]any) { delete(p, "title") },
		"missing min days":  func(p map[string]any) { delete(p, "min_days") },
		"non numeric price": func(p map[string]any) { p["price"] = "cheap" },
		"negative deposit":  func(p map[string]any) { p["deposit"] = "-1" },
		"huge price":        func(p map[string]any) { p["price"] = "99999999999999999999" },
		"unknown area":      func(p map[string]any) { p["area_id"] = 9999 },
		"max below min":     func(p map[string]any) { p["min_days"] = 5; p["max_days"] = 2 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			payload := validPublishPayload()
			mutate(payload)

			w := env.Request(http.MethodPost, "/api/v1.0/houses", payload, token)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			require.Equal(t, apperrors.PARAMERR, testutil.DecodeResponse(t, w).Errno)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		w := env.Request(http.MethodPost, "/api/v1.0/houses", "{", token)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, apperrors.PARAMERR, testutil.DecodeResponse(t, w).Errno)
	})

	var count int64
	require.NoError(t, env.DB.Model(&models.House{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAddHouseImage(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.CreateUser()
	house := env.CreateHouse(owner, 1, nil)
	path := fmt.Sprintf("/api/v1.0/houses/%d/images", house.ID)

	w := env.Request(http.MethodPost, path, map[string]string{"image": "front.jpg"}, env.Token(owner))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		URL string `json:"url"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &data)
	require.Equal(t, testutil.ImageURLPrefix+"front.jpg", data.URL)

	w = env.Request(http.MethodPost, path, map[string]string{"image": "kitchen.jpg"}, env.Token(owner))
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.House
	require.NoError(t, env.DB.Preload("Images").First(&stored, house.ID).Error)
	require.Len(t, stored.Images, 2)
	require.NotNil(t, stored.IndexImageURL)
	require.Equal(t, "front.jpg", *stored.IndexImageURL)
}

func TestAddHouseImageErrors(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.CreateUser()
	stranger := env.CreateUser()
	house := env.CreateHouse(owner, 1, nil)
	body := map[string]string{"image": "front.jpg"}

	w := env.Request(http.MethodPost, fmt.Sprintf("/api/v1.0/houses/%d/images", house.ID), body, env.Token(stranger))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, apperrors.ROLEERR, testutil.DecodeResponse(t, w).Errno)

	w = env.Request(http.MethodPost, "/api/v1.0/houses/99999/images", body, env.Token(owner))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, apperrors.NODATA, testutil.DecodeResponse(t, w).Errno)

	w = env.Request(http.MethodPost, "/api/v1.0/houses/abc/images", body, env.Token(owner))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Request(http.MethodPost, fmt.Sprintf("/api/v1.0/houses/%d/images", house.ID), map[string]string{"image": ""}, env.Token(owner))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, apperrors.PARAMERR, testutil.DecodeResponse(t, w).Errno)

	var images int64
	require.NoError(t, env.DB.Model(&models.HouseImage{}).Count(&images).Error)
	require.Zero(t, images)
}

func TestOwnerHouses(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.CreateUser()
	other := env.CreateUser()
	env.CreateHouse(owner, 1, func(h *models.House) { h.Title = "mine" })
	env.CreateHouse(other, 1, func(h *models.House) { h.Title = "theirs" })

	w := env.Request(http.MethodGet, "/api/v1.0/user/houses", nil, env.Token(owner))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Houses []models.HouseBasic `json:"houses"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &data)
	require.Len(t, data.Houses, 1)
	require.Equal(t, "mine", data.Houses[0].Title)

	w = env.Request(http.MethodGet, "/api/v1.0/user/houses", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
