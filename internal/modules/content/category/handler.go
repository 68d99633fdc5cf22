package category

import (
	"github.com/gin-gonic/gin"

	"github.com/lexpress/core/internal/middleware"
	"github.com/lexpress/core/internal/modules/moderation"
	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	cats := rg.Group("/categories")
	{
		cats.GET("", h.tree)
		cats.GET("/slug/:slug", h.getBySlug)
		cats.GET("/slug/:slug/:child", h.getBySlugPair)
		cats.GET("/:id", h.getByID)

		admin := cats.Group("", authMW, middleware.RequireRoles(moderation.AllowedRoles(moderation.OpManageCategories)...))
		{
			admin.POST("", h.create)
			admin.PATCH("/:id", h.update)
			admin.DELETE("/:id", h.delete)
		}
	}
}

func (h *Handler) tree(c *gin.Context) {
	cats, err := h.svc.Tree(c.Request.Context())
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, cats)
}

func (h *Handler) getByID(c *gin.Context) {
	cat, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, cat)
}

func (h *Handler) getBySlug(c *gin.Context) {
	cat, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, cat)
}

func (h *Handler) getBySlugPair(c *gin.Context) {
	cat, err := h.svc.GetBySlugPair(c.Request.Context(), c.Param("slug"), c.Param("child"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, cat)
}

type createRequest struct {
	Name     string  `json:"name" binding:"required"`
	Slug     string  `json:"slug" binding:"required"`
	ParentID *string `json:"parent_id"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), CreateInput{
		Name:     req.Name,
		Slug:     req.Slug,
		ParentID: req.ParentID,
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Created(c, cat)
}

type updateRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), c.Param("id"), UpdateInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, cat)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apperr.Write(c, err)
		return
	}
	response.NoContent(c)
}
