package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/revisely/dkt/internal/catalog"
	"github.com/revisely/dkt/internal/knowledgemap"
	"github.com/revisely/dkt/internal/mastery"
	"github.com/revisely/dkt/internal/store"
)

// InteractionController handles the single write endpoint.
type InteractionController struct {
	estimator *mastery.Estimator
}

// NewInteractionController creates the controller.
func NewInteractionController(estimator *mastery.Estimator) *InteractionController {
	return &InteractionController{estimator: estimator}
}

// RecordInteractionRequest is the POST /record-interaction body.
// interaction_id is optional: clients that retry supply their own so the
// ingestion stays idempotent; otherwise the server assigns one.
type RecordInteractionRequest struct {
	InteractionID string     `json:"interaction_id"`
	SkillID       string     `json:"skill_id" binding:"required"`
	Correct       *bool      `json:"correct" binding:"required"`
	Confidence    string     `json:"confidence"`
	TimeSpent     int        `json:"time_spent"`
	HintsUsed     int        `json:"hints_used"`
	Timestamp     *time.Time `json:"timestamp"`
}

// RecordInteractionResponse acknowledges the write.
type RecordInteractionResponse struct {
	Recorded      bool                    `json:"recorded"`
	InteractionID string                  `json:"interaction_id"`
	Skill         *knowledgemap.SkillView `json:"skill,omitempty"`
	Warning       string                  `json:"warning,omitempty"`
}

// Record ingests one graded practice event and returns the updated
// mastery for its skill.
func (ic *InteractionController) Record(c *gin.Context) {
	var req RecordInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	confidence := req.Confidence
	switch confidence {
	case "":
		confidence = store.ConfidenceMedium
	case store.ConfidenceLow, store.ConfidenceMedium, store.ConfidenceHigh:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "confidence must be low, medium, or high"})
		return
	}

	in := &store.Interaction{
		InteractionID:    req.InteractionID,
		UserID:           currentUser(c),
		SkillID:          req.SkillID,
		Correct:          *req.Correct,
		Confidence:       confidence,
		TimeSpentSeconds: req.TimeSpent,
		HintsUsed:        req.HintsUsed,
	}
	if req.Timestamp != nil {
		in.Timestamp = req.Timestamp.UTC()
	}

	rec, err := ic.estimator.Record(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, mastery.ErrUnknownSkill) {
			// The event is logged for audit but mastery is untouched.
			c.JSON(http.StatusOK, RecordInteractionResponse{
				Recorded:      true,
				InteractionID: in.InteractionID,
				Warning:       "unknown skill: " + req.SkillID,
			})
			return
		}
		// Storage failures surface clearly so the client can retry.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record interaction"})
		return
	}

	view := skillViewFor(rec)
	c.JSON(http.StatusOK, RecordInteractionResponse{
		Recorded:      true,
		InteractionID: in.InteractionID,
		Skill:         &view,
	})
}

// skillViewFor joins a mastery row with its catalog entry.
func skillViewFor(rec *store.SkillMastery) knowledgemap.SkillView {
	view := knowledgemap.SkillView{
		SkillID:       rec.SkillID,
		SkillName:     rec.SkillID,
		Mastery:       rec.Mastery,
		Confidence:    rec.Confidence,
		LastPracticed: rec.LastPracticed,
		Status:        mastery.Status(rec.Mastery, rec.Interactions),
	}
	if sk, err := catalog.Get(rec.SkillID); err == nil {
		view.SkillName = sk.Name
		view.Subject = string(sk.Subject)
		view.Topic = sk.Topic
	}
	return view
}
