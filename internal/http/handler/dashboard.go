package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clienthub.app/hub/internal/http/dto"
	"clienthub.app/hub/internal/service"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	now              func() time.Time
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		now:              time.Now,
	}
}

func (h *DashboardHandler) Aggregates(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	agg, err := h.dashboardService.Aggregates(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "aggregates")
		return
	}

	c.JSON(http.StatusOK, agg)
}

func (h *DashboardHandler) Badges(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	badges, err := h.dashboardService.Badges(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "badges")
		return
	}

	c.JSON(http.StatusOK, badges)
}

// Calendar defaults to the current month in the requested time zone (UTC
// when none is given).
func (h *DashboardHandler) Calendar(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var query dto.CalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := time.UTC
	if query.TimeZone != "" {
		l, err := time.LoadLocation(query.TimeZone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tz"})
			return
		}
		loc = l
	}

	now := h.now().In(loc)
	year, month := now.Year(), now.Month()
	if query.Year != 0 {
		year = query.Year
	}
	if query.Month != 0 {
		month = time.Month(query.Month)
	}

	cal, err := h.dashboardService.Calendar(c.Request.Context(), caller, year, month, loc)
	if err != nil {
		respondError(c, err, "calendar")
		return
	}

	c.JSON(http.StatusOK, dto.ToCalendarResponse(cal, h.now()))
}

func (h *DashboardHandler) Report(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	report, err := h.dashboardService.Report(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "report")
		return
	}

	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}
