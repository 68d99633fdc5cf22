package legaldraft

import (
	"github.com/gin-gonic/gin"

	"github.com/lexpress/core/internal/middleware"
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
	drafts := rg.Group("/drafts", authMW)
	{
		drafts.GET("", h.list)
		drafts.GET("/:id", h.get)
		drafts.POST("", h.create)
		drafts.PATCH("/:id", h.update)
		drafts.POST("/:id/submit", h.submit)
		drafts.DELETE("/:id", h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	drafts, meta, err := h.svc.List(c.Request.Context(), middleware.CurrentUserID(c), q)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Paged(c, drafts, meta)
}

func (h *Handler) get(c *gin.Context) {
	draft, err := h.svc.Get(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, draft)
}

type draftRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

func (h *Handler) create(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	draft, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), req.Title, req.Body)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Created(c, draft)
}

type draftUpdateRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func (h *Handler) update(c *gin.Context) {
	var req draftUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	draft, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Title, req.Body)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, draft)
}

func (h *Handler) submit(c *gin.Context) {
	draft, err := h.svc.Submit(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, draft)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		apperr.Write(c, err)
		return
	}
	response.NoContent(c)
}
