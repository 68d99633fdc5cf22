package experience

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, optionalAuthMW gin.HandlerFunc) {
	exps := rg.Group("/experiences")
	{
		exps.GET("", h.list)
		exps.GET("/:id", optionalAuthMW, h.get)
		exps.POST("", optionalAuthMW, h.submit)
	}
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	exps, meta, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Paged(c, exps, meta)
}

func (h *Handler) get(c *gin.Context) {
	privileged := isStaff(middleware.CurrentRole(c))
	exp, err := h.svc.Get(c.Request.Context(), c.Param("id"), privileged)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, exp)
}

type submitRequest struct {
	Title      string `json:"title" binding:"required"`
	Story      string `json:"story" binding:"required"`
	AuthorName string `json:"author_name"`
}

func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	in := SubmitInput{
		Title:      req.Title,
		Story:      req.Story,
		AuthorName: req.AuthorName,
	}
	if uid := middleware.CurrentUserID(c); uid != "" {
		in.AuthorID = &uid
	}
	exp, err := h.svc.Submit(c.Request.Context(), in)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Created(c, exp)
}

func isStaff(role string) bool {
	return moderation.Allowed(moderation.OpManageExperiences, role)
}
