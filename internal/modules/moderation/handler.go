package moderation

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
	mod := rg.Group("/moderation", authMW)
	{
		mod.GET("/articles", h.pendingArticles)
		mod.POST("/articles/:id/decide", h.decideArticle)
		mod.GET("/experiences", h.pendingExperiences)
		mod.POST("/experiences/:id/decide", h.decideExperience)
	}
}

type decideRequest struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment"`
}

func (h *Handler) pendingArticles(c *gin.Context) {
	if !Allowed(OpDecideArticle, middleware.CurrentRole(c)) {
		response.Forbidden(c)
		return
	}
	q := pagination.FromContext(c)
	articles, meta, err := h.svc.PendingArticles(c.Request.Context(), q)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Paged(c, articles, meta)
}

func (h *Handler) decideArticle(c *gin.Context) {
	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	article, err := h.svc.DecideArticle(c.Request.Context(), c.Param("id"),
		DecideInput{Approve: req.Approve, Comment: req.Comment},
		middleware.CurrentUserID(c), middleware.CurrentRole(c))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, article)
}

func (h *Handler) pendingExperiences(c *gin.Context) {
	if !Allowed(OpDecideExperience, middleware.CurrentRole(c)) {
		response.Forbidden(c)
		return
	}
	q := pagination.FromContext(c)
	exps, meta, err := h.svc.PendingExperiences(c.Request.Context(), q)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Paged(c, exps, meta)
}

func (h *Handler) decideExperience(c *gin.Context) {
	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	exp, err := h.svc.DecideExperience(c.Request.Context(), c.Param("id"),
		DecideInput{Approve: req.Approve, Comment: req.Comment},
		middleware.CurrentUserID(c), middleware.CurrentRole(c))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, exp)
}
