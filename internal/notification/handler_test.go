package notification

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "trbe_ops_backend/internal/http"
	"trbe_ops_backend/platform/logger"
)

type fakeEnqueuer struct {
	calls int
	err   error
}

func (f *fakeEnqueuer) EnqueueReminderScan(_ context.Context) error {
	f.calls++
	return f.err
}

func newScanRouter(t *testing.T, enqueuer ScanEnqueuer) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	v1 := engine.Group("/api/v1")

	m := &Module{enqueuer: enqueuer, log: logger.New("test")}
	m.RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: v1, Protected: v1})
	return engine
}

func postRunScan(engine *gin.Engine) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/run", nil)
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRunScanNowEnqueues(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	engine := newScanRouter(t, enqueuer)

	rec := postRunScan(engine)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, enqueuer.calls)
	assert.Contains(t, rec.Body.String(), "queued")
}

func TestRunScanNowWithoutQueue(t *testing.T) {
	engine := newScanRouter(t, nil)

	rec := postRunScan(engine)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestRunScanNowEnqueueFailure(t *testing.T) {
	enqueuer := &fakeEnqueuer{err: errors.New("redis: connection refused")}
	engine := newScanRouter(t, enqueuer)

	rec := postRunScan(engine)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, 1, enqueuer.calls)
}
