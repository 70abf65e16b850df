package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/labstock-backend/internal/export"
	"github.com/angelmondragon/labstock-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	rec := httptest.NewRecorder()

	HealthLive(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get("X-Labstock-Env"))
}

func TestHealthReadyReportsFailedDependency(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	HealthReady(cfg, nil, ReadinessCheck{Name: "db", Pinger: ok}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	HealthReady(cfg, nil,
		ReadinessCheck{Name: "db", Pinger: ok},
		ReadinessCheck{Name: "redis", Pinger: down},
	).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis")
}

type stubExportService struct {
	report *export.Report
	err    error
}

func (s stubExportService) Build(ctx context.Context) (*export.Report, error) {
	return s.report, s.err
}

func TestAdminExportWritesAttachment(t *testing.T) {
	svc := stubExportService{report: &export.Report{
		Filename:    "Admin_Report_2026-10-16.xlsx",
		ContentType: export.ContentType,
		Data:        []byte("PK\x03\x04"),
	}}
	rec := httptest.NewRecorder()

	AdminExport(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Admin_Report_2026-10-16.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, []byte("PK\x03\x04"), rec.Body.Bytes())
}

func TestAdminExportFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	AdminExport(stubExportService{err: errors.New("boom")}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/export", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
