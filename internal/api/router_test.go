package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/revisely/dkt/internal/insights"
	"github.com/revisely/dkt/internal/knowledgemap"
	"github.com/revisely/dkt/internal/mastery"
	"github.com/revisely/dkt/internal/spacedrep"
	"github.com/revisely/dkt/internal/store"
)

func testEngine(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	agg := insights.NewAggregator(s.Mastery(), s.Interactions())
	insightsSvc := insights.NewService(agg, s.Snapshots(), time.Hour, time.Second)
	deps := Deps{
		Estimator:   mastery.NewEstimator(s.Interactions(), s.Mastery(), insightsSvc.Invalidate),
		Projector:   knowledgemap.NewProjector(s.Mastery()),
		Queue:       spacedrep.NewQueue(s.Mastery(), 20),
		Insights:    insightsSvc,
		ReadTimeout: time.Second,
	}
	return NewEngine(gin.TestMode, deps), s
}

func doRequest(t *testing.T, r *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %s: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	r, _ := testEngine(t)
	w := doRequest(t, r, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRequireUser_MissingIdentity(t *testing.T) {
	r, _ := testEngine(t)
	for _, path := range []string{"/api/knowledge-map", "/api/daily-review", "/api/ai-insights"} {
		w := doRequest(t, r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s without user: status = %d, want 401", path, w.Code)
		}
	}
}

func TestRequireUser_QueryFallback(t *testing.T) {
	r, _ := testEngine(t)
	w := doRequest(t, r, http.MethodGet, "/api/knowledge-map?user_id=u1", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with query user id", w.Code)
	}
}

func TestRecordInteraction_Success(t *testing.T) {
	r, _ := testEngine(t)
	w := doRequest(t, r, http.MethodPost, "/api/record-interaction", "u1", map[string]any{
		"skill_id":   "math-quadratic-equations",
		"correct":    true,
		"confidence": "high",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	resp := decodeBody[RecordInteractionResponse](t, w)
	if !resp.Recorded {
		t.Error("recorded = false")
	}
	if resp.InteractionID == "" {
		t.Error("expected assigned interaction id")
	}
	if resp.Skill == nil {
		t.Fatal("expected updated skill view")
	}
	if resp.Skill.Status != mastery.StatusProficient {
		t.Errorf("status = %q, want proficient after first high-confidence correct", resp.Skill.Status)
	}
	if resp.Skill.SkillName != "Quadratic Equations" {
		t.Errorf("skill name = %q, want catalog name", resp.Skill.SkillName)
	}
}

func TestRecordInteraction_Validation(t *testing.T) {
	r, _ := testEngine(t)

	// Missing required fields.
	w := doRequest(t, r, http.MethodPost, "/api/record-interaction", "u1", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty body: status = %d, want 400", w.Code)
	}

	// Bad confidence value.
	w = doRequest(t, r, http.MethodPost, "/api/record-interaction", "u1", map[string]any{
		"skill_id":   "math-vectors",
		"correct":    true,
		"confidence": "certain",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad confidence: status = %d, want 400", w.Code)
	}
}

func TestRecordInteraction_UnknownSkillWarns(t *testing.T) {
	r, s := testEngine(t)
	w := doRequest(t, r, http.MethodPost, "/api/record-interaction", "u1", map[string]any{
		"skill_id": "not-in-catalog",
		"correct":  true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	resp := decodeBody[RecordInteractionResponse](t, w)
	if resp.Warning == "" {
		t.Error("expected warning for unknown skill")
	}
	if resp.Skill != nil {
		t.Error("unknown skill must not produce a mastery view")
	}

	// Logged for audit despite the warning.
	n, err := s.Interactions().CountForUserSkill(t.Context(), "u1", "not-in-catalog")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("interaction count = %d, want 1", n)
	}
}

func TestRecordInteraction_IdempotentRetry(t *testing.T) {
	r, _ := testEngine(t)
	body := map[string]any{
		"interaction_id": "client-retry-1",
		"skill_id":       "phys-kinematics",
		"correct":        true,
		"confidence":     "medium",
	}

	first := decodeBody[RecordInteractionResponse](t, doRequest(t, r, http.MethodPost, "/api/record-interaction", "u1", body))
	second := decodeBody[RecordInteractionResponse](t, doRequest(t, r, http.MethodPost, "/api/record-interaction", "u1", body))

	if first.Skill == nil || second.Skill == nil {
		t.Fatal("expected skill views on both responses")
	}
	if second.Skill.Mastery != first.Skill.Mastery {
		t.Errorf("retry moved mastery: %f vs %f", second.Skill.Mastery, first.Skill.Mastery)
	}
}

func TestKnowledgeMap_ReflectsRecordedInteraction(t *testing.T) {
	r, _ := testEngine(t)
	doRequest(t, r, http.MethodPost, "/api/record-interaction", "u1", map[string]any{
		"skill_id":   "chem-mole-calculations",
		"correct":    true,
		"confidence": "high",
	})

	w := doRequest(t, r, http.MethodGet, "/api/knowledge-map", "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	km := decodeBody[knowledgemap.KnowledgeMap](t, w)
	if km.UserID != "u1" {
		t.Errorf("user id = %q, want u1", km.UserID)
	}
	if km.LearningSkills != 1 {
		t.Errorf("learning skills = %d, want 1 (proficient shares the bucket)", km.LearningSkills)
	}

	found := false
	for _, sk := range km.Skills {
		if sk.SkillID == "chem-mole-calculations" && sk.Status == mastery.StatusProficient {
			found = true
		}
	}
	if !found {
		t.Error("recorded skill not reflected in knowledge map")
	}
}

func TestKnowledgeMap_SubjectFilter(t *testing.T) {
	r, _ := testEngine(t)
	w := doRequest(t, r, http.MethodGet, "/api/knowledge-map?subject=biology", "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	km := decodeBody[knowledgemap.KnowledgeMap](t, w)
	for _, sk := range km.Skills {
		if sk.Subject != "biology" {
			t.Errorf("skill %s leaked into biology filter", sk.SkillID)
		}
	}
}

func TestDailyReview_NewSkillIsDue(t *testing.T) {
	r, _ := testEngine(t)
	// Recorded yesterday with interval 1: due today.
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	doRequest(t, r, http.MethodPost, "/api/record-interaction", "u1", map[string]any{
		"skill_id":   "bio-genetics",
		"correct":    true,
		"confidence": "high",
		"timestamp":  yesterday.Format(time.RFC3339),
	})

	w := doRequest(t, r, http.MethodGet, "/api/daily-review", "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	resp := decodeBody[DailyReviewResponse](t, w)
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Reviews[0].SkillID != "bio-genetics" || resp.Reviews[0].SkillName != "Genetics and Inheritance" {
		t.Errorf("review item = %+v, want bio-genetics with catalog name", resp.Reviews[0])
	}
}

func TestDailyReview_EmptyQueue(t *testing.T) {
	r, _ := testEngine(t)
	w := doRequest(t, r, http.MethodGet, "/api/daily-review", "fresh-user", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBody[DailyReviewResponse](t, w)
	if resp.Count != 0 || len(resp.Reviews) != 0 {
		t.Errorf("fresh user queue = %+v, want empty", resp)
	}
}

func TestAIInsights_EndToEnd(t *testing.T) {
	r, _ := testEngine(t)
	doRequest(t, r, http.MethodPost, "/api/record-interaction", "u1", map[string]any{
		"skill_id":   "math-probability",
		"correct":    true,
		"confidence": "medium",
	})

	w := doRequest(t, r, http.MethodGet, "/api/ai-insights", "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	ins := decodeBody[insights.AIInsights](t, w)
	if ins.TotalSkills != 1 {
		t.Errorf("total skills = %d, want 1", ins.TotalSkills)
	}
	if ins.WeeklyTrend.TotalQuestions != 1 {
		t.Errorf("weekly total = %d, want 1", ins.WeeklyTrend.TotalQuestions)
	}
	if len(ins.WeeklyTrend.DailyBreakdown) != 7 {
		t.Errorf("daily breakdown = %d days, want 7", len(ins.WeeklyTrend.DailyBreakdown))
	}
	if ins.PersonalizedMessage == "" {
		t.Error("expected a personalized message")
	}
}
