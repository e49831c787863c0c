package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/middleware"
	"github.com/BruksfildServices01/barberconnect/internal/models"
	"github.com/BruksfildServices01/barberconnect/internal/timezone"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// GET /api/me/audit-logs?action&entity&from&to&page&limit
func (h *AuditLogsHandler) List(c *gin.Context) {
	shopID := middleware.ShopID(c)
	ctx := c.Request.Context()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var shop models.Shop
	if err := h.db.WithContext(ctx).Select("id", "timezone").First(&shop, "id = ?", shopID).Error; err != nil {
		httperr.Internal(c, "shop_not_found", err.Error())
		return
	}
	loc := timezone.Location(shop.Timezone)

	// --------------------------------------------------
	// Filters, always scoped to the shop
	// --------------------------------------------------
	q := h.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("shop_id = ?", shopID)

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if from, err := time.ParseInLocation("2006-01-02", c.Query("from"), loc); err == nil {
		q = q.Where("created_at >= ?", from)
	}
	if to, err := time.ParseInLocation("2006-01-02", c.Query("to"), loc); err == nil {
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", err.Error())
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "audit_list_failed", err.Error())
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
