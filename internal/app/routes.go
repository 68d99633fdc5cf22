package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lexpress/core/internal/middleware"
	"github.com/lexpress/core/internal/modules/ads"
	"github.com/lexpress/core/internal/modules/auditlog"
	"github.com/lexpress/core/internal/modules/auth"
	"github.com/lexpress/core/internal/modules/content/article"
	"github.com/lexpress/core/internal/modules/content/category"
	"github.com/lexpress/core/internal/modules/content/experience"
	"github.com/lexpress/core/internal/modules/content/legaldraft"
	"github.com/lexpress/core/internal/modules/content/note"
	"github.com/lexpress/core/internal/modules/counter"
	"github.com/lexpress/core/internal/modules/enquiry"
	"github.com/lexpress/core/internal/modules/gateway"
	"github.com/lexpress/core/internal/modules/moderation"
	"github.com/lexpress/core/internal/modules/stats/analyze"
	"github.com/lexpress/core/internal/modules/summary"
	"github.com/lexpress/core/internal/modules/user"
	"github.com/lexpress/core/internal/modules/verification"
	"github.com/lexpress/core/internal/pkg/mail"
	pkgredis "github.com/lexpress/core/internal/pkg/redis"
	"github.com/lexpress/core/internal/pkg/response"
	"github.com/lexpress/core/internal/pkg/taskqueue"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	logger := a.logger
	authMW := middleware.Auth(db)
	optionalAuthMW := middleware.OptionalAuth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":    "lexpress-core",
		"version": "1.0.0",
	}

	r.Use(analyze.Middleware(db))

	// WebSocket gateway lives outside the versioned prefix.
	root := r.Group("")
	gateway.RegisterRoutes(root, a.hub)

	// Versioned API
	api := r.Group(apiPrefix)
	api.Use(optionalAuthMW)
	api.Use(middleware.RateLimit(rc.Raw()))
	api.Use(middleware.Idempotence(rc.Raw()))
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:       15 * time.Second,
		Disable:   a.cfg.IsDev(),
		SkipPaths: httpCacheSkipPaths(apiPrefix),
	}))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	cleanCache := func(c *gin.Context) {
		deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), rc.Raw())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"ok":      0,
				"code":    http.StatusInternalServerError,
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
	}
	api.GET("/clean_cache", authMW, cleanCache)

	// Shared services
	taskSvc := taskqueue.NewService(rc)
	summarySvc := summary.NewService(db, a.cfg.AI, taskSvc, logger)

	// Auth & users
	auth.NewHandler(auth.NewService(db, logger)).RegisterRoutes(api, authMW)
	user.NewHandler(user.NewService(db)).RegisterRoutes(api, authMW)
	verification.NewHandler(verification.NewService(db, mail.New(a.cfg.Mail), logger)).RegisterRoutes(api)

	// Content
	article.NewHandler(article.NewService(db, logger, a.hub)).RegisterRoutes(api, authMW, optionalAuthMW)
	experience.NewHandler(experience.NewService(db, logger, a.hub)).RegisterRoutes(api, optionalAuthMW)
	category.NewHandler(category.NewService(db)).RegisterRoutes(api, authMW)
	note.NewHandler(note.NewService(db)).RegisterRoutes(api, authMW)
	legaldraft.NewHandler(legaldraft.NewService(db)).RegisterRoutes(api, authMW)

	// Counters (public, cookie-deduplicated)
	counter.NewHandler(counter.NewService(db, rc, logger)).RegisterRoutes(api)

	// Moderation
	moderation.NewHandler(moderation.NewService(db, logger, a.hub, summarySvc)).RegisterRoutes(api, authMW)

	// Advertising & enquiries
	ads.NewHandler(ads.NewService(db, logger)).RegisterRoutes(api, authMW)
	enquiry.NewHandler(enquiry.NewService(db, logger, a.hub)).RegisterRoutes(api, authMW)

	// Analytics, audit log, summaries (admin)
	analyze.NewHandler(db).RegisterRoutes(api, authMW)
	auditlog.NewHandler(db).RegisterRoutes(api, authMW)
	summary.NewHandler(summarySvc).RegisterRoutes(api, authMW)
}

func httpCacheSkipPaths(prefix string) []string {
	p := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	if p == "" {
		p = apiPrefix
	}
	return []string{
		p + "/uptime",
		p + "/clean_cache",
		p + "/ads/serve",
		p + "/auth/me",
		p + "/auth/sessions",
		p + "/site/likes",
	}
}

func humanizeDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Truncate(time.Second).String()
	}
	if d < time.Hour {
		return d.Truncate(time.Minute).String()
	}
	if d < 24*time.Hour {
		return d.Truncate(time.Hour).String()
	}
	return d.Truncate(24 * time.Hour).String()
}
