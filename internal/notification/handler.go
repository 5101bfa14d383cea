package notification

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apphttp "trbe_ops_backend/internal/http"
	"trbe_ops_backend/platform/apperr"
	"trbe_ops_backend/platform/httpkit"
)

// ScanEnqueuer queues a reminder scan for the background worker.
type ScanEnqueuer interface {
	EnqueueReminderScan(ctx context.Context) error
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// RegisterRoutes mounts the operator trigger for an out-of-band reminder
// scan. The scan itself runs on the worker; this endpoint only enqueues.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	reminders := ctx.Protected.Group("/reminders")
	reminders.POST("/run", m.RunScanNow)
}

// RunScanNow enqueues one reminder scan for immediate processing.
func (m *Module) RunScanNow(c *gin.Context) {
	if m.enqueuer == nil {
		httpkit.HandleError(c, apperr.New(apperr.KindUnavailable, "reminder queue is not configured"))
		return
	}

	if err := m.enqueuer.EnqueueReminderScan(c.Request.Context()); err != nil {
		m.log.Warn("failed to enqueue reminder scan", "error", err)
		httpkit.HandleError(c, apperr.Wrap(apperr.KindUnavailable, "failed to queue reminder scan", err))
		return
	}

	httpkit.JSON(c, http.StatusAccepted, gin.H{"status": "queued"})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
