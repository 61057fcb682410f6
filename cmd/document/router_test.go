package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gogotex/gogotex/backend/go-editor/internal/config"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document/service"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func testConfig() *config.Config {
	return &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}
}

func TestRouter_Endpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testConfig(), service.NewMemoryService(), nil, nil)

	w := get(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", w.Body.String())

	w = get(r, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store":true`)

	assert.Equal(t, http.StatusOK, get(r, "/swagger/doc.json").Code)
	assert.Equal(t, http.StatusOK, get(r, "/metrics").Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/api/owners/pending/draft").Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/documents", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

type downService struct{ service.Service }

func (downService) Ping(context.Context) error { return errors.New("connection refused") }

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestRouter_ArchiveReadiness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testConfig(), service.NewMemoryService(), nil, stubPinger{})
	w := get(r, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"archive":true`)

	r = newRouter(testConfig(), service.NewMemoryService(), nil, stubPinger{err: errors.New("bucket missing")})
	assert.Equal(t, http.StatusServiceUnavailable, get(r, "/ready").Code)
}

func TestRouter_NotReadyWhenStoreDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testConfig(), downService{service.NewMemoryService()}, nil, nil)

	w := get(r, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_ready")
}

func TestRouter_RateLimitPerOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.1, Burst: 1}
	r := newRouter(cfg, service.NewMemoryService(), nil, nil)

	assert.Equal(t, http.StatusNoContent, get(r, "/api/owners/pending/draft").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/api/owners/pending/draft").Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/api/owners/other/draft").Code)
}

func TestRouter_RedisRateLimitReadiness(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	rdb := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer rdb.Close()

	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, UseRedis: true, RPS: 1, Burst: 5, WindowSeconds: 1}
	r := newRouter(cfg, service.NewMemoryService(), rdb, nil)

	w := get(r, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":true`)

	m.Close()
	assert.Equal(t, http.StatusInternalServerError, get(r, "/ready").Code, "limiter fails closed when redis is gone")
}

func TestOpenStore_Drivers(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	repo, closeFn, err := openStore(ctx, cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, repo)
	closeFn()

	cfg.Store = config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: t.TempDir() + "/docs.db"}
	repo, closeFn, err = openStore(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Ping(ctx))
	closeFn()

	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	rdb := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer rdb.Close()
	cfg.Store = config.StoreConfig{Driver: config.DriverRedis}
	cfg.Redis.KeyPrefix = "test:"
	repo, closeFn, err = openStore(ctx, cfg, rdb)
	require.NoError(t, err)
	require.NoError(t, repo.Ping(ctx))
	closeFn()
}
