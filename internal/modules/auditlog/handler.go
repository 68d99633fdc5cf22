package auditlog

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lexpress/core/internal/middleware"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/modules/moderation"
	"github.com/lexpress/core/internal/pkg/pagination"
	"github.com/lexpress/core/internal/pkg/response"
)

// Handler exposes the moderation and submission audit trail to admins. Rows
// are written by the services that perform the actions; this surface is
// read-only.
type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/audit-log", authMW, middleware.RequireRoles(moderation.AllowedRoles(moderation.OpViewAuditLog)...))
	{
		g.GET("", h.list)
	}
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	tx := h.db.Model(&models.ActivityLogModel{}).Order("created_at DESC")
	if action := c.Query("action"); action != "" {
		tx = tx.Where("action = ?", action)
	}
	if userID := c.Query("user_id"); userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}

	var entries []models.ActivityLogModel
	meta, err := pagination.Paginate(tx, q, &entries)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, entries, meta)
}
