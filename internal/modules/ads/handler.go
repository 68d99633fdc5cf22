package ads

import (
	"time"

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
	adsGroup := rg.Group("/ads")
	{
		adsGroup.GET("/serve", h.serve)
		adsGroup.POST("/:id/click", h.click)

		admin := adsGroup.Group("", authMW,
			middleware.RequireRoles(moderation.AllowedRoles(moderation.OpManageAds)...))
		{
			admin.GET("", h.list)
			admin.GET("/:id", h.get)
			admin.POST("", h.create)
			admin.PATCH("/:id", h.update)
			admin.DELETE("/:id", h.delete)
		}
	}
}

func (h *Handler) serve(c *gin.Context) {
	ad, err := h.svc.Select(c.Request.Context(), SelectQuery{
		Placement:  c.Query("placement"),
		Location:   c.Query("location"),
		CategoryID: c.Query("category_id"),
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, ad)
}

func (h *Handler) click(c *gin.Context) {
	if err := h.svc.Click(c.Request.Context(), c.Param("id")); err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, gin.H{"counted": true})
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	adsList, meta, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Paged(c, adsList, meta)
}

func (h *Handler) get(c *gin.Context) {
	ad, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, ad)
}

type createRequest struct {
	Title      string    `json:"title" binding:"required"`
	Placement  string    `json:"placement" binding:"required"`
	Location   string    `json:"location"`
	CategoryID *string   `json:"category_id"`
	ImageURL   string    `json:"image_url"`
	TargetURL  string    `json:"target_url"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
	Active     *bool     `json:"active"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	ad, err := h.svc.Create(c.Request.Context(), CreateInput{
		Title:      req.Title,
		Placement:  req.Placement,
		Location:   req.Location,
		CategoryID: req.CategoryID,
		ImageURL:   req.ImageURL,
		TargetURL:  req.TargetURL,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Active:     req.Active,
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Created(c, ad)
}

type updateRequest struct {
	Title     *string    `json:"title"`
	Location  *string    `json:"location"`
	ImageURL  *string    `json:"image_url"`
	TargetURL *string    `json:"target_url"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Active    *bool      `json:"active"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	ad, err := h.svc.Update(c.Request.Context(), c.Param("id"), UpdateInput{
		Title:     req.Title,
		Location:  req.Location,
		ImageURL:  req.ImageURL,
		TargetURL: req.TargetURL,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Active:    req.Active,
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, ad)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apperr.Write(c, err)
		return
	}
	response.NoContent(c)
}
