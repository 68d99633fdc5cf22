package verification

import (
	"github.com/gin-gonic/gin"

	"github.com/lexpress/core/internal/pkg/apperr"
	"github.com/lexpress/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	vg := rg.Group("/verification")
	{
		vg.POST("/request", h.request)
		vg.POST("/verify", h.verify)
	}
}

type requestBody struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required"`
}

func (h *Handler) request(c *gin.Context) {
	var req requestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := h.svc.Request(c.Request.Context(), req.Email, req.Purpose); err != nil {
		apperr.Write(c, err)
		return
	}
	// Always report success so the endpoint cannot be used to probe for
	// registered addresses.
	response.OK(c, gin.H{"sent": true})
}

type verifyBody struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required"`
	Code    string `json:"code" binding:"required"`
}

func (h *Handler) verify(c *gin.Context) {
	var req verifyBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := h.svc.Verify(c.Request.Context(), req.Email, req.Purpose, req.Code); err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, gin.H{"verified": true})
}
