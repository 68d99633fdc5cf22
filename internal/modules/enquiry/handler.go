package enquiry

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
	enqs := rg.Group("/enquiries")
	{
		enqs.POST("", h.create)

		admin := enqs.Group("", authMW,
			middleware.RequireRoles(moderation.AllowedRoles(moderation.OpManageEnquiries)...))
		{
			admin.GET("", h.list)
			admin.PATCH("/:id/status", h.updateStatus)
		}
	}
}

type createRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	enq, err := h.svc.Create(c.Request.Context(), CreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Created(c, enq)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	enqs, meta, err := h.svc.List(c.Request.Context(), c.Query("status"), q)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Paged(c, enqs, meta)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	enq, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, enq)
}
