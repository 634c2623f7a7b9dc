package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/craftmirror/feed"
	"github.com/kasuganosora/craftmirror/leaderboard"
	"github.com/kasuganosora/craftmirror/scheduler"
	"github.com/kasuganosora/craftmirror/store"
	"go.uber.org/zap"
)

// AdminHandler handles the operational endpoints. Routes should be
// protected by AdminAuth middleware.
type AdminHandler struct {
	store  *store.Store
	feed   *feed.Client // nil when the change feed is disabled
	boards *leaderboard.Service
	sched  *scheduler.Scheduler
	logger *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	st *store.Store,
	feedClient *feed.Client,
	boards *leaderboard.Service,
	sched *scheduler.Scheduler,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{store: st, feed: feedClient, boards: boards, sched: sched, logger: logger}
}

// Status reports every snapshot table, the change feed connection and
// the scheduled tasks.
// GET /api/admin/status
func (h *AdminHandler) Status(c *gin.Context) {
	resp := gin.H{
		"tables":               h.store.Status(),
		"scheduler_tasks":      h.sched.Tasks(),
		"leaderboard_built_at": h.boards.BuiltAt(),
	}
	if h.feed != nil {
		resp["feed"] = h.feed.Status()
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh reloads snapshot tables and rebuilds the leaderboards. With
// ?table=<name> only that table reloads; without it, everything does.
// POST /api/admin/refresh
func (h *AdminHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	if table := c.Query("table"); table != "" {
		kind, ok := kindByName(table)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown table: " + table})
			return
		}
		if err := h.store.Reload(ctx, kind); err != nil {
			h.logger.Warn("manual reload failed",
				zap.String("table", table),
				zap.Error(err))
		}
	} else {
		h.store.ReloadAll(ctx)
	}
	h.boards.Rebuild(ctx)
	h.logger.Info("manual refresh completed", zap.String("table", c.Query("table")))
	c.JSON(http.StatusOK, gin.H{"ok": true, "tables": h.store.Status()})
}

func kindByName(name string) (store.Kind, bool) {
	for _, kind := range store.Kinds {
		if string(kind) == name {
			return kind, true
		}
	}
	return "", false
}

// AdminAuth returns a middleware that checks the X-Admin-Key header.
// An empty adminKey disables the admin endpoints entirely (503) so the
// service cannot be deployed without protection by accident.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": "admin endpoints disabled: set server.admin_key in config"})
			return
		}
		if c.GetHeader("X-Admin-Key") != adminKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
