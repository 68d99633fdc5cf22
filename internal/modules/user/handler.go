package user

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

// User management is SUPER_ADMIN only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := rg.Group("/users", authMW, middleware.RequireRoles(moderation.AllowedRoles(moderation.OpManageUsers)...))
	{
		users.GET("", h.list)
		users.GET("/:id", h.get)
		users.POST("", h.create)
		users.PATCH("/:id/role", h.setRole)
		users.DELETE("/:id", h.delete)
	}
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	users, meta, err := h.svc.List(c.Request.Context(), c.Query("role"), q)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Paged(c, users, meta)
}

func (h *Handler) get(c *gin.Context) {
	user, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, user)
}

type createRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	user, err := h.svc.Create(c.Request.Context(), CreateInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Created(c, user)
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handler) setRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if c.Param("id") == middleware.CurrentUserID(c) {
		response.ForbiddenMsg(c, "cannot change your own role")
		return
	}
	user, err := h.svc.SetRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, user)
}

func (h *Handler) delete(c *gin.Context) {
	if c.Param("id") == middleware.CurrentUserID(c) {
		response.ForbiddenMsg(c, "cannot delete your own account")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apperr.Write(c, err)
		return
	}
	response.NoContent(c)
}
