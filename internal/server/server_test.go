package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kehn-Marv/Career-plus-sub001/internal/config"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/insights"
	"github.com/Kehn-Marv/Career-plus-sub001/internal/templates"
)

// newTestServer builds a server with only the collaborators the local
// handlers need. Store-backed and model-backed handlers are tested with
// their own fakes at the package level that owns them.
func newTestServer() *Server {
	return &Server{
		engine:   templates.NewEngine(),
		insights: insights.NewGenerator(nil),
		validate: validator.New(),
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleAnalyzeATSWithText(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.handleAnalyzeATS, `{"text": "Jane Doe\njane@example.com\n\nExperience:\nEngineer"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		Score float64 `json:"ats_score"`
		Label string  `json:"score_label"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.Label)
}

func TestHandleAnalyzeATSWithResume(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.handleAnalyzeATS, `{"resume": {
		"contact": {"name": "Jane Doe", "email": "jane@example.com"},
		"experience": [{"title": "Engineer", "company": "Acme", "description": ["Built services"]}]
	}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleAnalyzeATSRejectsEmptyBody(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.handleAnalyzeATS, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, s.handleAnalyzeATS, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyzeBias(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.handleAnalyzeBias, `{"text": "Young and energetic team player"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		BiasScore     float64 `json:"bias_score"`
		BiasedPhrases []any   `json:"biased_phrases"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.BiasedPhrases)
	assert.Positive(t, report.BiasScore)
}

func TestHandleLocalizeAdvice(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.handleLocalizeAdvice, `{"text": "Resume text here", "region": "UK"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, s.handleLocalizeAdvice, `{"text": "Resume text here", "region": "MARS"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerateInsights(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.handleGenerateInsights, `{
		"resume_text": "Built Go services and ran PostgreSQL clusters",
		"job_description": "Senior engineer role needing Go and Kubernetes",
		"keyword_analysis": {"missing_keywords": ["Kubernetes", "Terraform"]},
		"scores": {"keyword": 45, "semantic": 50, "format": 90}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report insights.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.Gaps)
	assert.NotEmpty(t, report.Recommendations)
}

func TestHandleGenerateInsightsRequiresText(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.handleGenerateInsights, `{"job_description": "Senior engineer role"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListTemplates(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/templates", nil)
	rec := httptest.NewRecorder()
	s.handleListTemplates(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Templates  []templates.TemplateDefinition `json:"templates"`
		MaxCompare int                            `json:"max_compare"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Templates, 4)
	assert.Equal(t, templates.MaxCompare, resp.MaxCompare)
}

func TestHandleGetTemplate(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/templates/modern", nil)
	req.SetPathValue("id", "modern")
	rec := httptest.NewRecorder()
	s.handleGetTemplate(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/templates/bogus", nil)
	req.SetPathValue("id", "bogus")
	rec = httptest.NewRecorder()
	s.handleGetTemplate(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

const previewResume = `{
	"contact": {"name": "Jane Doe"},
	"experience": [{"title": "Engineer", "company": "Acme", "description": ["Built services"]}]
}`

func TestHandleTemplatePreviewCompare(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.handleTemplatePreview,
		`{"compare": true, "template_ids": ["modern", "minimal"], "resume": `+previewResume+`}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Compare  bool              `json:"compare"`
		Previews []TemplatePreview `json:"previews"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Compare)
	require.Len(t, resp.Previews, 2)
	assert.Contains(t, resp.Previews[0].HTML, "Jane Doe")
}

func TestHandleTemplatePreviewCompareNeedsTwo(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.handleTemplatePreview,
		`{"compare": true, "template_ids": ["modern"], "resume": `+previewResume+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTemplatePreviewSingle(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.handleTemplatePreview,
		`{"template_ids": ["professional"], "resume": `+previewResume+`}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Compare  bool              `json:"compare"`
		Previews []TemplatePreview `json:"previews"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Compare)
	assert.Len(t, resp.Previews, 1)
}

func TestHandleTemplatePreviewUnknownTemplate(t *testing.T) {
	s := newTestServer()
	rec := postJSON(t, s.handleTemplatePreview,
		`{"template_ids": ["bogus"], "resume": `+previewResume+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWithCORS(t *testing.T) {
	s := newTestServer()
	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/analyze-ats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/analyze-ats", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestJWTServiceRoundTrip(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: "test-secret", Issuer: "careerplus", ExpirationHours: 1})
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "careerplus", claims.Issuer)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestJWTServiceRejectsBadTokens(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})

	_, err := svc.ValidateToken("")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)

	other := NewJWTService(&config.JWTConfig{Secret: "different-secret", ExpirationHours: 1})
	token, err := other.GenerateToken(uuid.New())
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
