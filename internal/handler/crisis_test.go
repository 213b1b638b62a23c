package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/models"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memEventRepo is an in-memory CrisisEventRepository for handler tests.
type memEventRepo struct {
	events []*models.CrisisEvent
}

func (r *memEventRepo) SaveEvent(event *models.CrisisEvent) error {
	event.ID = int64(len(r.events) + 1)
	r.events = append(r.events, event)
	return nil
}

func (r *memEventRepo) GetEventByID(id, userID int64) (*models.CrisisEvent, error) {
	for _, e := range r.events {
		if e.ID == id && e.UserID == userID {
			return e, nil
		}
	}
	return nil, nil
}

func (r *memEventRepo) GetEventsSince(userID int64, since time.Time, limit int) ([]*models.CrisisEvent, error) {
	var out []*models.CrisisEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.events[i]
		if e.UserID == userID && !e.CreatedAt.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEventRepo) GetLatestEvent(userID int64) (*models.CrisisEvent, error) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].UserID == userID {
			return r.events[i], nil
		}
	}
	return nil, nil
}

func (r *memEventRepo) AppendInterventions(eventID int64, actions []string) error {
	for _, e := range r.events {
		if e.ID == eventID {
			e.ProfessionalNotified = true
			return nil
		}
	}
	return nil
}

func (r *memEventRepo) UpdateInterventionStatus(id, userID int64, userResponse *string, resolved bool) error {
	for _, e := range r.events {
		if e.ID == id && e.UserID == userID {
			if userResponse != nil {
				e.UserResponse = userResponse
			}
			if resolved && e.ResolvedAt == nil {
				now := time.Now().UTC()
				e.ResolvedAt = &now
			}
			return nil
		}
	}
	return sql.ErrNoRows
}

func newCrisisRouter(t *testing.T) (*gin.Engine, *memEventRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &memEventRepo{}
	crisisService := service.NewCrisisService(repo, zap.NewNop())
	h := NewCrisisHandler(crisisService, repo, zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", int64(1))
		c.Set("username", "tester")
		c.Set("role", "user")
	})
	crisis := r.Group("/api/crisis")
	{
		crisis.POST("/analyze", h.Analyze)
		crisis.POST("/assess", h.Assess)
		crisis.POST("/escalate", h.Escalate)
		crisis.GET("/resources", h.Resources)
		crisis.GET("/history", h.History)
		crisis.PUT("/intervention-status/:id", h.UpdateInterventionStatus)
	}
	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeEndpoint(t *testing.T) {
	r, _ := newCrisisRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/crisis/analyze", gin.H{
		"content": "I feel hopeless and want to give up",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RiskLevel        string   `json:"risk_level"`
		DetectedFactors  []string `json:"detected_factors"`
		EscalationNeeded bool     `json:"escalation_needed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEqual(t, "none", resp.RiskLevel)
	assert.Contains(t, resp.DetectedFactors, "hopelessness")
}

func TestAnalyzeRequiresContent(t *testing.T) {
	r, _ := newCrisisRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/crisis/analyze", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessEndpointStoresEvent(t *testing.T) {
	r, repo := newCrisisRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/crisis/assess", gin.H{
		"content": "I have a plan to end my life tonight",
		"source":  "chat",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RiskAssessment struct {
			CrisisLevel      string  `json:"crisis_level"`
			RiskScore        float64 `json:"risk_score"`
			EscalationNeeded bool    `json:"escalation_needed"`
		} `json:"risk_assessment"`
		SafetyResources []models.SafetyResource `json:"safety_resources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, []string{"high", "critical"}, resp.RiskAssessment.CrisisLevel)
	assert.True(t, resp.RiskAssessment.EscalationNeeded)
	assert.NotEmpty(t, resp.SafetyResources)

	require.Len(t, repo.events, 1)
	assert.Equal(t, "chat", repo.events[0].TriggerSource)
}

func TestEscalateValidation(t *testing.T) {
	r, _ := newCrisisRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/crisis/escalate", gin.H{
		"crisis_level": "apocalyptic",
		"user_consent": true,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-critical escalation without consent is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/crisis/escalate", gin.H{
		"crisis_level": "high",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEscalateHighWithConsent(t *testing.T) {
	r, repo := newCrisisRouter(t)
	require.NoError(t, repo.SaveEvent(&models.CrisisEvent{
		UserID:      1,
		CrisisLevel: "high",
		CreatedAt:   time.Now().UTC(),
	}))

	w := doJSON(t, r, http.MethodPost, "/api/crisis/escalate", gin.H{
		"crisis_level": "high",
		"user_consent": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Escalation models.EscalationResult `json:"escalation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Escalation.Escalated)
	assert.Contains(t, resp.Escalation.ActionsTaken, "Crisis counselor assigned")
	assert.True(t, repo.events[0].ProfessionalNotified)
}

func TestEscalateCriticalImpliesConsent(t *testing.T) {
	r, _ := newCrisisRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/crisis/escalate", gin.H{
		"crisis_level": "critical",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResourcesFiltering(t *testing.T) {
	r, _ := newCrisisRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/crisis/resources?country=US&emergency_only=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Resources  []models.SafetyResource `json:"resources"`
		TotalCount int                     `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Resources)
	assert.Equal(t, len(resp.Resources), resp.TotalCount)
	for _, res := range resp.Resources {
		assert.True(t, res.IsEmergency)
		assert.Equal(t, "US", res.CountryCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/crisis/resources?country=UK", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, res := range resp.Resources {
		assert.Equal(t, "UK", res.CountryCode)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	r, repo := newCrisisRouter(t)
	require.NoError(t, repo.SaveEvent(&models.CrisisEvent{
		UserID:               1,
		CrisisLevel:          "high",
		ProfessionalNotified: true,
		CreatedAt:            time.Now().UTC(),
	}))
	require.NoError(t, repo.SaveEvent(&models.CrisisEvent{
		UserID:      1,
		CrisisLevel: "low",
		CreatedAt:   time.Now().UTC(),
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/crisis/history?days=30&limit=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalEvents       int            `json:"total_events"`
		PeriodDays        int            `json:"period_days"`
		LevelSummary      map[string]int `json:"level_summary"`
		RecentEscalations int            `json:"recent_escalations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalEvents)
	assert.Equal(t, 30, resp.PeriodDays)
	assert.Equal(t, 1, resp.LevelSummary["high"])
	assert.Equal(t, 1, resp.RecentEscalations)
}

func TestHistoryValidation(t *testing.T) {
	r, _ := newCrisisRouter(t)

	for _, path := range []string{
		"/api/crisis/history?days=0",
		"/api/crisis/history?days=400",
		"/api/crisis/history?limit=0",
		"/api/crisis/history?limit=500",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestUpdateInterventionStatus(t *testing.T) {
	r, repo := newCrisisRouter(t)
	require.NoError(t, repo.SaveEvent(&models.CrisisEvent{
		UserID:      1,
		CrisisLevel: "high",
		CreatedAt:   time.Now().UTC(),
	}))

	w := doJSON(t, r, http.MethodPut, "/api/crisis/intervention-status/1", gin.H{
		"user_response": "I am safe",
		"resolved":      true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.events[0].UserResponse)
	assert.Equal(t, "I am safe", *repo.events[0].UserResponse)
	assert.NotNil(t, repo.events[0].ResolvedAt)

	w = doJSON(t, r, http.MethodPut, "/api/crisis/intervention-status/99", gin.H{
		"resolved": true,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/crisis/intervention-status/abc", gin.H{
		"resolved": true,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
