package note

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
	notes := rg.Group("/notes", authMW)
	{
		notes.GET("", h.list)
		notes.GET("/:id", h.get)
		notes.POST("", h.create)
		notes.PATCH("/:id", h.update)
		notes.DELETE("/:id", h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	notes, meta, err := h.svc.List(c.Request.Context(), middleware.CurrentUserID(c), q)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Paged(c, notes, meta)
}

func (h *Handler) get(c *gin.Context) {
	note, err := h.svc.Get(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, note)
}

type noteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *Handler) create(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	note, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), req.Title, req.Body)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Created(c, note)
}

type noteUpdateRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func (h *Handler) update(c *gin.Context) {
	var req noteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	note, err := h.svc.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Title, req.Body)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, note)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		apperr.Write(c, err)
		return
	}
	response.NoContent(c)
}
