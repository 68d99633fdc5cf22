package analyze

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lexpress/core/internal/middleware"
	"github.com/lexpress/core/internal/models"
	"github.com/lexpress/core/internal/modules/moderation"
	"github.com/lexpress/core/internal/pkg/pagination"
	"github.com/lexpress/core/internal/pkg/response"
)

// Handler exposes traffic analytics and content statistics to admins.
type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/analytics", authMW, middleware.RequireRoles(moderation.AllowedRoles(moderation.OpViewAnalytics)...))
	{
		g.GET("", h.list)
		g.GET("/aggregate", h.aggregate)
		g.GET("/paths", h.topPaths)
		g.GET("/dashboard", h.dashboard)
		g.DELETE("", h.cleanOld)
	}
}

type rangeQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to"   time_format:"2006-01-02"`
	Path string     `form:"path"`
}

func (q rangeQuery) apply(tx *gorm.DB) *gorm.DB {
	if q.From != nil {
		tx = tx.Where("timestamp >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("timestamp <= ?", *q.To)
	}
	if q.Path != "" {
		tx = tx.Where("path = ?", q.Path)
	}
	return tx
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	var rq rangeQuery
	if err := c.ShouldBindQuery(&rq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tx := rq.apply(h.db.Model(&models.AnalyzeModel{})).Order("timestamp DESC")
	var items []models.AnalyzeModel
	meta, err := pagination.Paginate(tx, q, &items)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, meta)
}

func (h *Handler) topPaths(c *gin.Context) {
	var results []pathCount
	err := h.db.Model(&models.AnalyzeModel{}).
		Select("path, COUNT(*) as count").
		Where("path <> ''").
		Group("path").
		Order("count DESC").
		Limit(20).
		Scan(&results).Error
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": results})
}

// aggregate returns per-hour buckets for today and per-day buckets for the
// past 30 days, each carrying unique IP and page-view counts.
func (h *Handler) aggregate(c *gin.Context) {
	now := time.Now()
	todayStart := beginningOfDay(now)
	monthStart := todayStart.AddDate(0, 0, -29)

	dayAgg, err := h.bucketize(todayStart, now, "hour")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	dateAgg, err := h.bucketize(monthStart, now, "date")
	if err != nil {
		response.InternalError(c, err)
		return
	}

	hours := make([]gin.H, 0, 24)
	for i := 0; i < 24; i++ {
		key := fmt.Sprintf("%02d", i)
		val := dayAgg[key]
		hours = append(hours, gin.H{"hour": key, "ip": val.IP, "pv": val.PV})
	}

	days := make([]gin.H, 0, 30)
	for i := 29; i >= 0; i-- {
		day := todayStart.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")
		val := dateAgg[key]
		days = append(days, gin.H{"date": key, "ip": val.IP, "pv": val.PV})
	}

	var total totalStat
	if err := h.db.Model(&models.AnalyzeModel{}).Count(&total.PV).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	if err := h.db.Model(&models.AnalyzeModel{}).Distinct("ip").Count(&total.UV).Error; err != nil {
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"today": hours,
		"month": days,
		"total": total,
	})
}

// dashboard summarizes the content pipeline: how much is published, what
// awaits moderation, how the inbox looks.
func (h *Handler) dashboard(c *gin.Context) {
	counts := gin.H{}

	type countQuery struct {
		key   string
		model interface{}
		where []interface{}
	}
	queries := []countQuery{
		{"articles_published", &models.ArticleModel{}, []interface{}{"status = ?", models.ArticlePublished}},
		{"articles_pending", &models.ArticleModel{}, []interface{}{"status = ?", models.ArticlePending}},
		{"experiences_approved", &models.ExperienceModel{}, []interface{}{"status = ?", models.ExperienceApproved}},
		{"experiences_pending", &models.ExperienceModel{}, []interface{}{"status = ?", models.ExperiencePending}},
		{"enquiries_active", &models.EnquiryModel{}, []interface{}{"status = ?", models.EnquiryActive}},
		{"users", &models.UserModel{}, nil},
		{"categories", &models.CategoryModel{}, nil},
		{"ads", &models.AdvertisementModel{}, nil},
	}
	for _, cq := range queries {
		tx := h.db.Model(cq.model)
		if cq.where != nil {
			tx = tx.Where(cq.where[0], cq.where[1:]...)
		}
		var n int64
		if err := tx.Count(&n).Error; err != nil {
			response.InternalError(c, err)
			return
		}
		counts[cq.key] = n
	}

	var totals struct {
		Views  int64
		Likes  int64
		Shares int64
	}
	err := h.db.Model(&models.ArticleModel{}).
		Select("COALESCE(SUM(view_count),0) as views, COALESCE(SUM(like_count),0) as likes, COALESCE(SUM(share_count),0) as shares").
		Scan(&totals).Error
	if err != nil {
		response.InternalError(c, err)
		return
	}
	counts["article_views"] = totals.Views
	counts["article_likes"] = totals.Likes
	counts["article_shares"] = totals.Shares

	response.OK(c, counts)
}

// cleanOld deletes traffic events older than 90 days, or the requested range.
func (h *Handler) cleanOld(c *gin.Context) {
	var rq rangeQuery
	if err := c.ShouldBindQuery(&rq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tx := h.db.Model(&models.AnalyzeModel{})
	if rq.From != nil || rq.To != nil {
		tx = rq.apply(tx)
	} else {
		tx = tx.Where("timestamp < ?", time.Now().AddDate(0, 0, -90))
	}
	res := tx.Delete(&models.AnalyzeModel{})
	if res.Error != nil {
		response.InternalError(c, res.Error)
		return
	}
	response.OK(c, gin.H{"deleted": res.RowsAffected})
}

type ipPV struct {
	IP int64 `json:"ip"`
	PV int64 `json:"pv"`
}

type totalStat struct {
	PV int64 `json:"pv"`
	UV int64 `json:"uv"`
}

type pathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

func (h *Handler) bucketize(from, to time.Time, granularity string) (map[string]ipPV, error) {
	var rows []struct {
		IP        string    `gorm:"column:ip"`
		Timestamp time.Time `gorm:"column:timestamp"`
	}
	if err := h.db.Model(&models.AnalyzeModel{}).
		Select("ip, timestamp").
		Where("timestamp >= ? AND timestamp <= ?", from, to).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	type counter struct {
		pv  int64
		ips map[string]struct{}
	}
	counts := map[string]*counter{}
	for _, row := range rows {
		ts := row.Timestamp.In(time.Local)
		var key string
		switch granularity {
		case "hour":
			key = ts.Format("15")
		default:
			key = ts.Format("2006-01-02")
		}
		cnt, ok := counts[key]
		if !ok {
			cnt = &counter{ips: map[string]struct{}{}}
			counts[key] = cnt
		}
		cnt.pv++
		if row.IP != "" {
			cnt.ips[row.IP] = struct{}{}
		}
	}

	out := make(map[string]ipPV, len(counts))
	for key, val := range counts {
		out[key] = ipPV{IP: int64(len(val.ips)), PV: val.pv}
	}
	return out, nil
}

func beginningOfDay(t time.Time) time.Time {
	local := t.In(time.Local)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
