package counter

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
	articles := rg.Group("/articles/:identifier")
	{
		articles.POST("/view", h.view)
		articles.POST("/like", h.like)
		articles.POST("/unlike", h.unlike)
		articles.POST("/share", h.share)
		articles.GET("/counts", h.counts)
	}

	rg.GET("/site/likes", h.siteLikes)
	rg.POST("/site/like", h.siteLike)
}

func (h *Handler) view(c *gin.Context) {
	counted, err := h.svc.View(c.Request.Context(), c, c.Param("identifier"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, gin.H{"counted": counted})
}

func (h *Handler) like(c *gin.Context) {
	likes, err := h.svc.Like(c.Request.Context(), c, c.Param("identifier"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, gin.H{"likes": likes})
}

func (h *Handler) unlike(c *gin.Context) {
	likes, err := h.svc.Unlike(c.Request.Context(), c, c.Param("identifier"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, gin.H{"likes": likes})
}

func (h *Handler) siteLike(c *gin.Context) {
	counted, err := h.svc.SiteLike(c.Request.Context(), c.ClientIP())
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, gin.H{"counted": counted})
}

func (h *Handler) siteLikes(c *gin.Context) {
	likes, err := h.svc.SiteLikes(c.Request.Context())
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, gin.H{"likes": likes})
}

func (h *Handler) share(c *gin.Context) {
	if err := h.svc.Share(c.Request.Context(), c.Param("identifier")); err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, gin.H{"counted": true})
}

func (h *Handler) counts(c *gin.Context) {
	article, err := h.svc.Counts(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	response.OK(c, gin.H{
		"id":     article.ID,
		"views":  article.ViewCount,
		"likes":  article.LikeCount,
		"shares": article.ShareCount,
	})
}
