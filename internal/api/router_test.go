package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehomehq/ehome/internal/api"
	"github.com/ehomehq/ehome/internal/app"
	"github.com/ehomehq/ehome/internal/cache/cachetest"
	"github.com/ehomehq/ehome/internal/handlers/testutil"
	apperrors "github.com/ehomehq/ehome/pkg/errors"
)

func TestNewRouterRequiresDependencies(t *testing.T) {
	_, err := api.NewRouter(api.Dependencies{})
	require.EqualError(t, err, "config must be provided")

	_, err = api.NewRouter(api.Dependencies{Config: &app.Config{}})
	require.EqualError(t, err, "session verifier must be provided")
}

func TestRouterHealthEndpoints(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"success":true`)

	w = env.Request(http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"status":"up"`)
}

func TestRouterReadinessDegradesWhenCacheIsDown(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Cache.Fail(cachetest.OpPing, cachetest.ErrUnavailable)

	w := env.Request(http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"status":"degraded"`)
	require.Contains(t, w.Body.String(), `"success":true`)
}

func TestRouterExposesMetrics(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/api/v1.0/areas", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.Request(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ehome_api_latency_seconds")
	require.Contains(t, w.Body.String(), "ehome_cache_lookups_total")
}

func TestRouterUnknownRoute(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/api/v1.0/nowhere", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := testutil.DecodeResponse(t, w)
	require.Equal(t, apperrors.REQERR, resp.Errno)
	require.Contains(t, resp.Errmsg, "/api/v1.0/nowhere")
}

func TestRouterProtectedRoutesRequireToken(t *testing.T) {
	env := testutil.NewEnv(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1.0/houses"},
		{http.MethodPost, "/api/v1.0/houses/1/images"},
		{http.MethodGet, "/api/v1.0/user/houses"},
	} {
		w := env.Request(route.method, route.path, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, route.path)
		require.Equal(t, apperrors.SESSIONERR, testutil.DecodeResponse(t, w).Errno)
	}
}
