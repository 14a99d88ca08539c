package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"business-idea-workers/internal/common/database"
	"business-idea-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func serve(t *testing.T, checks map[string]database.Pinger, path string) (int, map[string]interface{}) {
	t.Helper()
	srv := newHealthServer(0, checks, func() []string { return []string{"generate-ideas"} }, logger.NewTestLogger(t))

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if path != "/metrics" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestHealth(t *testing.T) {
	code, body := serve(t, nil, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
}

func TestReady(t *testing.T) {
	code, body := serve(t, map[string]database.Pinger{
		"redis": stubPinger{},
		"zeebe": stubPinger{},
	}, "/ready")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, []interface{}{"generate-ideas"}, body["workers"])
}

func TestReady_DependencyDown(t *testing.T) {
	code, body := serve(t, map[string]database.Pinger{
		"redis":         stubPinger{},
		"elasticsearch": stubPinger{err: errors.New("connection refused")},
		"zeebe":         stubPinger{err: errors.New("unavailable")},
	}, "/ready")

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, []interface{}{"elasticsearch", "zeebe"}, body["failed"])
}

func TestMetricsEndpoint(t *testing.T) {
	code, _ := serve(t, nil, "/metrics")
	assert.Equal(t, http.StatusOK, code)
}
