// Package knowledgemap assembles the full per-skill mastery view for a
// learner, optionally filtered by subject.
package knowledgemap

import (
	"context"
	"fmt"
	"time"

	"github.com/revisely/dkt/internal/catalog"
	"github.com/revisely/dkt/internal/mastery"
	"github.com/revisely/dkt/internal/store"
)

// KnowledgeMap is the client-facing projection. Field names are the wire
// contract. The skills list is intentionally unsorted — the client applies
// its own display sort; only the counts are guaranteed consistent.
type KnowledgeMap struct {
	UserID           string      `json:"user_id"`
	TotalSkills      int         `json:"total_skills"`
	MasteredSkills   int         `json:"mastered_skills"`
	LearningSkills   int         `json:"learning_skills"`
	StrugglingSkills int         `json:"struggling_skills"`
	Skills           []SkillView `json:"skills"`
}

// SkillView is one skill's mastery as the client consumes it.
type SkillView struct {
	SkillID       string     `json:"skill_id"`
	SkillName     string     `json:"skill_name"`
	Subject       string     `json:"subject"`
	Topic         string     `json:"topic"`
	Mastery       float64    `json:"mastery"`
	Confidence    float64    `json:"confidence"`
	LastPracticed *time.Time `json:"last_practiced,omitempty"`
	Status        string     `json:"status"`
}

// Projector builds knowledge maps. Pure read path.
type Projector struct {
	masteryRepo store.MasteryRepo
}

// NewProjector creates a projector over the mastery repo.
func NewProjector(masteryRepo store.MasteryRepo) *Projector {
	return &Projector{masteryRepo: masteryRepo}
}

// Build assembles the knowledge map for a user. subject filters to one
// subject when non-empty. Catalog skills the user has never practiced are
// included with status unknown, so the map always covers the curriculum.
func (p *Projector) Build(ctx context.Context, userID, subject string) (*KnowledgeMap, error) {
	var skills []catalog.Skill
	if subject != "" {
		skills = catalog.BySubject(catalog.Subject(subject))
	} else {
		skills = catalog.All()
	}

	rows, err := p.masteryRepo.AllForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load mastery rows: %w", err)
	}
	bySkill := make(map[string]*store.SkillMastery, len(rows))
	for i := range rows {
		bySkill[rows[i].SkillID] = &rows[i]
	}

	km := &KnowledgeMap{
		UserID: userID,
		Skills: make([]SkillView, 0, len(skills)),
	}
	for _, sk := range skills {
		view := SkillView{
			SkillID:   sk.ID,
			SkillName: sk.Name,
			Subject:   string(sk.Subject),
			Topic:     sk.Topic,
			Status:    mastery.StatusUnknown,
		}
		if rec, ok := bySkill[sk.ID]; ok {
			view.Mastery = rec.Mastery
			view.Confidence = rec.Confidence
			view.LastPracticed = rec.LastPracticed
			view.Status = mastery.Status(rec.Mastery, rec.Interactions)
		}
		km.Skills = append(km.Skills, view)

		// Proficient counts with learning in the client's three buckets;
		// unknown counts only toward the total.
		switch view.Status {
		case mastery.StatusMastered:
			km.MasteredSkills++
		case mastery.StatusProficient, mastery.StatusLearning:
			km.LearningSkills++
		case mastery.StatusStruggling:
			km.StrugglingSkills++
		}
	}
	km.TotalSkills = len(km.Skills)
	return km, nil
}
