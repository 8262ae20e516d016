// Package api is the HTTP boundary the tutoring client consumes: one
// write endpoint and three reads.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/revisely/dkt/internal/insights"
	"github.com/revisely/dkt/internal/knowledgemap"
	"github.com/revisely/dkt/internal/mastery"
	"github.com/revisely/dkt/internal/spacedrep"
)

// Deps collects everything the router needs.
type Deps struct {
	Estimator   *mastery.Estimator
	Projector   *knowledgemap.Projector
	Queue       *spacedrep.Queue
	Insights    *insights.Service
	ReadTimeout time.Duration
}

// RoutersInit registers all routes on the engine.
func RoutersInit(r *gin.Engine, deps Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	interactionCtl := NewInteractionController(deps.Estimator)
	knowledgeCtl := NewKnowledgeController(deps.Projector, deps.Queue, deps.ReadTimeout)
	insightsCtl := NewInsightsController(deps.Insights)

	apiGroup := r.Group("/api", RequireUser())
	{
		apiGroup.POST("/record-interaction", interactionCtl.Record)
		apiGroup.GET("/knowledge-map", knowledgeCtl.KnowledgeMap)
		apiGroup.GET("/daily-review", knowledgeCtl.DailyReview)
		apiGroup.GET("/ai-insights", insightsCtl.Insights)
	}
}

// NewEngine builds a gin engine with the standard middleware and routes.
func NewEngine(mode string, deps Deps) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	RoutersInit(r, deps)
	return r
}
