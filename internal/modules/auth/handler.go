package auth

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/lexpress/core/internal/middleware"
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
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", h.login)
		authGroup.POST("/register", h.register)

		authed := authGroup.Group("", authMW)
		{
			authed.POST("/logout", h.logout)
			authed.GET("/me", h.me)
			authed.POST("/password", h.changePassword)
			authed.GET("/sessions", h.sessions)
			authed.DELETE("/sessions/:id", h.revokeSession)
		}
	}
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	result, err := h.svc.Login(c.Request.Context(), req.Identifier, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			response.Unauthorized(c)
			return
		}
		apperr.Write(c, err)
		return
	}
	response.OK(c, gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	user, err := h.svc.Register(c.Request.Context(), RegisterInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.Created(c, user)
}

func (h *Handler) logout(c *gin.Context) {
	err := h.svc.Logout(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentSessionID(c))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, user)
}

type changePasswordRequest struct {
	Current string `json:"current" binding:"required"`
	Next    string `json:"next" binding:"required"`
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	err := h.svc.ChangePassword(c.Request.Context(),
		middleware.CurrentUserID(c), req.Current, req.Next, middleware.CurrentSessionID(c))
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			response.Unauthorized(c)
			return
		}
		apperr.Write(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) sessions(c *gin.Context) {
	sessions, err := h.svc.Sessions(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, sessions)
}

func (h *Handler) revokeSession(c *gin.Context) {
	err := h.svc.Logout(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.NoContent(c)
}
