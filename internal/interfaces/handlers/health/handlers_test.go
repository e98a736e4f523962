package health

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	healthsvc "akaguriroo-backend/internal/application/health"
	"akaguriroo-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHealthTest(t *testing.T, db healthsvc.Pinger) (*fiber.App, *miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := &Handlers{
		Rdb:            rdb,
		Checker:        &healthsvc.Checker{Service: "akaguriroo-api", Rdb: rdb, DB: db},
		HealthAdminKey: "admin-key",
	}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(middleware.ErrorConfig{})})
	app.Get("/health/json", h.JSON)
	app.Get("/health/errors", h.Errors)
	app.Get("/health/reset", h.Reset)
	return app, mr, rdb
}

func TestJSON(t *testing.T) {
	app, _, _ := setupHealthTest(t, healthsvc.PingFunc(func(context.Context) error { return nil }))
	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var report healthsvc.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, "akaguriroo-api", report.Service)
	assert.Equal(t, "connected", report.Dependencies["database"].Status)
}

func TestJSON_DatabaseDown(t *testing.T) {
	app, _, _ := setupHealthTest(t, nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestErrors(t *testing.T) {
	app, _, rdb := setupHealthTest(t, nil)
	require.NoError(t, middleware.PushErrorLog(context.Background(), rdb, middleware.ErrorLogEntry{Path: "/api/locations", Status: 500}))

	resp, err := app.Test(httptest.NewRequest("GET", "/health/errors", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var entries []middleware.ErrorLogEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/locations", entries[0].Path)
}

func TestReset(t *testing.T) {
	app, mr, _ := setupHealthTest(t, nil)
	require.NoError(t, mr.Set(middleware.KeyReqTotal, "12"))

	resp, err := app.Test(httptest.NewRequest("GET", "/health/reset?key=wrong", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
	assert.True(t, mr.Exists(middleware.KeyReqTotal))

	resp, err = app.Test(httptest.NewRequest("GET", "/health/reset?key=admin-key", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.False(t, mr.Exists(middleware.KeyReqTotal))
	assert.True(t, mr.Exists(middleware.KeyStartTime))
}
