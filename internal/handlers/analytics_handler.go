package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberconnect/internal/httperr"
	"github.com/BruksfildServices01/barberconnect/internal/httpresp"
	"github.com/BruksfildServices01/barberconnect/internal/infra/export"
	"github.com/BruksfildServices01/barberconnect/internal/middleware"
	"github.com/BruksfildServices01/barberconnect/internal/usecase/analytics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsHandler struct {
	report *analytics.UsageReport
}

func NewAnalyticsHandler(report *analytics.UsageReport) *AnalyticsHandler {
	return &AnalyticsHandler{report: report}
}

type UsageReportRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// POST /api/analytics/usage
func (h *AnalyticsHandler) Usage(c *gin.Context) {
	var req UsageReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	res, err := h.report.Execute(c.Request.Context(), middleware.ShopID(c), req.StartDate, req.EndDate)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

// GET /api/analytics/usage/export?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (h *AnalyticsHandler) Export(c *gin.Context) {
	start, end := c.Query("start_date"), c.Query("end_date")

	res, err := h.report.Execute(c.Request.Context(), middleware.ShopID(c), start, end)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	data, err := export.UsageReportXLSX(res)
	if err != nil {
		httperr.Internal(c, "export_failed", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="usage_%s_%s.xlsx"`, start, end))
	c.Data(200, xlsxContentType, data)
}
