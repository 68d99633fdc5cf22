package article

import (
	"strconv"

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, optionalAuthMW gin.HandlerFunc) {
	articles := rg.Group("/articles")
	{
		articles.GET("", h.list)
		articles.GET("/latest", h.latest)
		articles.GET("/mine", authMW, h.mine)
		articles.GET("/:identifier", optionalAuthMW, h.get)
		articles.POST("", optionalAuthMW, h.submit)

		admin := articles.Group("", authMW,
			middleware.RequireRoles(moderation.AllowedRoles(moderation.OpManageArticles)...))
		{
			admin.GET("/all", h.listAll)
			admin.PATCH("/:identifier", h.update)
			admin.DELETE("/:identifier", h.delete)
		}
	}
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	articles, meta, err := h.svc.List(c.Request.Context(), ListQuery{
		CategoryID:   c.Query("category_id"),
		CategorySlug: c.Query("category"),
		Search:       c.Query("q"),
	}, q)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Paged(c, articles, meta)
}

func (h *Handler) listAll(c *gin.Context) {
	q := pagination.FromContext(c)
	articles, meta, err := h.svc.ListAll(c.Request.Context(), ListQuery{
		CategoryID: c.Query("category_id"),
		Search:     c.Query("q"),
		Status:     c.Query("status"),
	}, q)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Paged(c, articles, meta)
}

func (h *Handler) latest(c *gin.Context) {
	n, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	articles, err := h.svc.Latest(c.Request.Context(), n)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, articles)
}

func (h *Handler) get(c *gin.Context) {
	privileged := isStaff(middleware.CurrentRole(c))
	article, err := h.svc.Get(c.Request.Context(), c.Param("identifier"), privileged)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, article)
}

type submitRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Slug       string `json:"slug"`
	CategoryID string `json:"category_id"`
}

func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	in := SubmitInput{
		Title:      req.Title,
		Content:    req.Content,
		Slug:       req.Slug,
		CategoryID: req.CategoryID,
	}
	if uid := middleware.CurrentUserID(c); uid != "" {
		in.AuthorID = &uid
	}
	article, err := h.svc.Submit(c.Request.Context(), in)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Created(c, article)
}

type updateRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Slug       *string `json:"slug"`
	CategoryID *string `json:"category_id"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	article, err := h.svc.Update(c.Request.Context(), c.Param("identifier"), UpdateInput{
		Title:      req.Title,
		Content:    req.Content,
		Slug:       req.Slug,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, article)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("identifier")); err != nil {
		apperr.Write(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) mine(c *gin.Context) {
	q := pagination.FromContext(c)
	articles, meta, err := h.svc.Mine(c.Request.Context(), middleware.CurrentUserID(c), q)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Paged(c, articles, meta)
}

func isStaff(role string) bool {
	return moderation.Allowed(moderation.OpManageArticles, role)
}
