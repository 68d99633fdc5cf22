package summary

import (
	"github.com/gin-gonic/gin"

	"github.com/lexpress/core/internal/middleware"
	"github.com/lexpress/core/internal/modules/moderation"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/pagination"
	"github.com/lexpress/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/summaries", authMW,
		middleware.RequireRoles(moderation.AllowedRoles(moderation.OpManageSummaries)...))
	{
		g.POST("/articles/:id", h.regenerate)
		g.DELETE("/articles/:id", h.remove)
		g.GET("/tasks", h.tasks)
	}
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, gin.H{"removed": true})
}

// regenerate runs generation synchronously so the admin sees the result.
func (h *Handler) regenerate(c *gin.Context) {
	text, err := h.svc.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, gin.H{"summary": text})
}

func (h *Handler) tasks(c *gin.Context) {
	q := pagination.FromContext(c)
	tasks, total, err := h.svc.Tasks(c.Request.Context(), q.Page, q.Size)
	if err != nil {
		apperr.Write(c, err)
		return
	}

	items := make([]gin.H, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, gin.H{
			"id":         task.ID,
			"status":     task.Status,
			"error":      task.Error,
			"summary":    TaskResult(task),
			"created_at": task.CreatedAt,
			"updated_at": task.UpdatedAt,
		})
	}

	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))
	response.Paged(c, items, response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	})
}
