package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/revisely/dkt/internal/insights"
)

// InsightsController serves the AI insights read.
type InsightsController struct {
	service *insights.Service
}

// NewInsightsController creates the controller.
func NewInsightsController(service *insights.Service) *InsightsController {
	return &InsightsController{service: service}
}

// Insights handles GET /ai-insights. Degradation is handled inside the
// service: a timed-out aggregation serves the last snapshot marked stale,
// and only a first-ever request with nothing cached sees an error.
func (ic *InsightsController) Insights(c *gin.Context) {
	ins, err := ic.service.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		if errors.Is(err, insights.ErrNoSnapshot) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "insights not yet available"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load insights"})
		return
	}
	c.JSON(http.StatusOK, ins)
}
