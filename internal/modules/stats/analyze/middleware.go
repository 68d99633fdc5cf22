package analyze

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lexpress/core/internal/models"
)

// Middleware records successful anonymous public GET requests as analytics
// events. Writes happen off the request goroutine; a lost event is cheaper
// than a slow response.
func Middleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != "GET" {
			return
		}
		rawPath := strings.TrimSpace(c.Request.URL.Path)
		if !strings.HasPrefix(rawPath, "/api/") {
			return
		}
		path := normalizePath(rawPath)

		// The admin dashboards read these tables; recording their own
		// polling would skew every number.
		if strings.HasPrefix(path, "/analytics") || strings.HasPrefix(path, "/moderation") {
			return
		}
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if isBotUA(c.GetHeader("User-Agent")) {
			return
		}
		if c.GetHeader("Authorization") != "" {
			return
		}

		ip := strings.TrimSpace(c.ClientIP())
		if ip == "" || ip == "127.0.0.1" || ip == "localhost" || ip == "::1" {
			return
		}

		ua := parseUA(c.GetHeader("User-Agent"))
		referer := c.GetHeader("Referer")

		go func() {
			_ = db.Create(&models.AnalyzeModel{
				IP:        ip,
				UA:        ua,
				Path:      path,
				Referer:   referer,
				Timestamp: time.Now(),
			}).Error
		}()
	}
}

func isBotUA(ua string) bool {
	lower := strings.ToLower(ua)
	botKeywords := []string{"bot", "crawler", "spider", "headless", "wget", "curl", "python-requests", "go-http", "java/", "scrapy"}
	for _, kw := range botKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// normalizePath strips the /api prefix and the version segment so paths
// aggregate across API versions.
func normalizePath(path string) string {
	p := strings.TrimPrefix(strings.TrimSpace(path), "/api")
	if strings.HasPrefix(p, "/v") {
		rest := p[2:]
		if slash := strings.IndexByte(rest, '/'); slash >= 0 && isDigits(rest[:slash]) {
			p = rest[slash:]
		} else if isDigits(rest) {
			p = "/"
		}
	}
	if p == "" || !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func isDigits(raw string) bool {
	if raw == "" {
		return false
	}
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// parseUA extracts coarse browser, OS and device-type buckets from the
// User-Agent string. Good enough for dashboards; no UA library needed.
func parseUA(ua string) map[string]interface{} {
	result := map[string]interface{}{
		"raw":     ua,
		"type":    "desktop",
		"browser": "Unknown",
		"os":      "Unknown",
	}
	lower := strings.ToLower(ua)

	switch {
	case strings.Contains(lower, "edg/"):
		result["browser"] = "Edge"
	case strings.Contains(lower, "chrome/"):
		result["browser"] = "Chrome"
	case strings.Contains(lower, "safari/") && strings.Contains(lower, "version/"):
		result["browser"] = "Safari"
	case strings.Contains(lower, "firefox/"):
		result["browser"] = "Firefox"
	}

	switch {
	case strings.Contains(lower, "windows"):
		result["os"] = "Windows"
	// iPhone UAs say "like Mac OS X", so check them before macOS.
	case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"), strings.Contains(lower, "ios"):
		result["os"] = "iOS"
	case strings.Contains(lower, "android"):
		result["os"] = "Android"
	case strings.Contains(lower, "mac os"):
		result["os"] = "macOS"
	case strings.Contains(lower, "linux"):
		result["os"] = "Linux"
	}

	switch {
	case strings.Contains(lower, "tablet"), strings.Contains(lower, "ipad"):
		result["type"] = "tablet"
	case strings.Contains(lower, "mobile"):
		result["type"] = "mobile"
	}
	return result
}
