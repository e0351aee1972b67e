package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/dynamic-form-builder/internal/config"
)

func cacheTestContext(t *testing.T, target, routeTemplate string, userID any) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(routeTemplate)
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c
}

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Prefix:      "formcache",
		KeyStrategy: "route_query",
	}
}

func TestCacheKeyFrom_DistinctPerConcretePath(t *testing.T) {
	cfg := cacheTestConfig()
	// Two different forms share the same route template; their field
	// listings must never share a cache entry.
	a := cacheTestContext(t, "/v1/forms/aaaaaaaaaaaaaaaaaaaaaaaa/fields", "/v1/forms/:id/fields", float64(1))
	b := cacheTestContext(t, "/v1/forms/bbbbbbbbbbbbbbbbbbbbbbbb/fields", "/v1/forms/:id/fields", float64(1))

	assert.NotEqual(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b))
}

func TestCacheKeyFrom_DistinctPerUser(t *testing.T) {
	cfg := cacheTestConfig()
	// The forms listing is owner/assignment scoped; one user's cached page
	// must not be replayed to another.
	a := cacheTestContext(t, "/v1/forms?page=1", "/v1/forms", float64(1))
	b := cacheTestContext(t, "/v1/forms?page=1", "/v1/forms", float64(2))

	assert.NotEqual(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b))
}

func TestCacheKeyFrom_StableForSameRequest(t *testing.T) {
	cfg := cacheTestConfig()
	a := cacheTestContext(t, "/v1/forms?page=2&page_size=10", "/v1/forms", float64(7))
	b := cacheTestContext(t, "/v1/forms?page=2&page_size=10", "/v1/forms", float64(7))

	assert.Equal(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b))
}

func TestCacheKeyFrom_QueryVariesKey(t *testing.T) {
	cfg := cacheTestConfig()
	a := cacheTestContext(t, "/v1/forms?page=1", "/v1/forms", float64(1))
	b := cacheTestContext(t, "/v1/forms?page=2", "/v1/forms", float64(1))

	assert.NotEqual(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b))
}

func TestCacheKeyFrom_AnonDistinctFromUser(t *testing.T) {
	cfg := cacheTestConfig()
	anon := cacheTestContext(t, "/v1/forms", "/v1/forms", nil)
	user := cacheTestContext(t, "/v1/forms", "/v1/forms", float64(1))

	assert.NotEqual(t, cacheKeyFrom(cfg, anon), cacheKeyFrom(cfg, user))
}
