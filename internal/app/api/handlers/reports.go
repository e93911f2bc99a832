package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nusatel/simfleet/internal/app/service/report"
	"github.com/nusatel/simfleet/pkg/calendar"
	"github.com/nusatel/simfleet/pkg/response"
)

// @Summary      Monthly Cost Report
// @Description  Aggregates overlap, potential-loss and free-pulsa costs for one calendar month. Defaults to the current month.
// @Tags         Reports
// @Produce      json
// @Param        month query string false "Report month as YYYY-MM"
// @Success      200  {object}  response.APIResponse[report.MonthlyReport]
// @Router       /api/v1/reports/monthly [get]
func ApiMonthlyReport(svc *report.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		when := calendar.Today()
		if m := c.Query("month"); m != "" {
			parsed, err := time.ParseInLocation("2006-01", m, calendar.Location)
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid month, want YYYY-MM"))
				return
			}
			when = parsed
		}
		rpt, err := svc.BuildMonthlyReport(c.Request.Context(), when.Year(), when.Month())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rpt))
	}
}

func RegisterReportRoutes(r gin.IRouter, svc *report.Service) {
	r.GET("/monthly", ApiMonthlyReport(svc))
}
