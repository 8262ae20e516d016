package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/revisely/dkt/internal/catalog"
	"github.com/revisely/dkt/internal/knowledgemap"
	"github.com/revisely/dkt/internal/spacedrep"
)

// KnowledgeController serves the knowledge map and daily review reads.
type KnowledgeController struct {
	projector   *knowledgemap.Projector
	queue       *spacedrep.Queue
	readTimeout time.Duration
}

// NewKnowledgeController creates the controller.
func NewKnowledgeController(projector *knowledgemap.Projector, queue *spacedrep.Queue, readTimeout time.Duration) *KnowledgeController {
	if readTimeout <= 0 {
		readTimeout = 3 * time.Second
	}
	return &KnowledgeController{projector: projector, queue: queue, readTimeout: readTimeout}
}

// KnowledgeMap handles GET /knowledge-map?subject=.
func (kc *KnowledgeController) KnowledgeMap(c *gin.Context) {
	subject := c.Query("subject")
	ctx, cancel := context.WithTimeout(c.Request.Context(), kc.readTimeout)
	defer cancel()

	km, err := kc.projector.Build(ctx, currentUser(c), subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build knowledge map"})
		return
	}
	c.JSON(http.StatusOK, km)
}

// DailyReviewItem is one due skill in the review queue.
type DailyReviewItem struct {
	SkillID   string    `json:"skill_id"`
	SkillName string    `json:"skill_name"`
	Subject   string    `json:"subject"`
	Topic     string    `json:"topic"`
	DueDate   time.Time `json:"due_date"`
}

// DailyReviewResponse is the GET /daily-review payload.
type DailyReviewResponse struct {
	Count   int               `json:"count"`
	Reviews []DailyReviewItem `json:"reviews"`
}

// DailyReview handles GET /daily-review.
func (kc *KnowledgeController) DailyReview(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), kc.readTimeout)
	defer cancel()

	rows, err := kc.queue.Due(ctx, currentUser(c), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load daily review"})
		return
	}

	reviews := make([]DailyReviewItem, 0, len(rows))
	for _, r := range rows {
		item := DailyReviewItem{
			SkillID:   r.SkillID,
			SkillName: r.SkillID,
			DueDate:   r.DueDate,
		}
		if sk, err := catalog.Get(r.SkillID); err == nil {
			item.SkillName = sk.Name
			item.Subject = string(sk.Subject)
			item.Topic = sk.Topic
		}
		reviews = append(reviews, item)
	}

	c.JSON(http.StatusOK, DailyReviewResponse{Count: len(reviews), Reviews: reviews})
}
