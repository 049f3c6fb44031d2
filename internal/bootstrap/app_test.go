package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener/internal/ranking"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/server/middleware"
)

type stubRanker struct {
	resp    ranking.Response
	pingErr error
}

func (s stubRanker) Rank(context.Context, ranking.Request) (ranking.Response, error) {
	return s.resp, nil
}

func (s stubRanker) Ping(context.Context) error { return s.pingErr }

func testConfig() config.Config {
	return config.Config{
		Env:               "dev",
		RankingServiceURL: "http://ranking.test",
		SessionTTL:        time.Hour,
		SubmitRatePerMin:  30,
	}
}

func TestBuildRejectsBadRankingURL(t *testing.T) {
	cfg := testConfig()
	cfg.RankingServiceURL = ""
	_, err := Build(cfg)
	require.Error(t, err)
}

func TestBuildWiresRankingClient(t *testing.T) {
	app, err := Build(testConfig())
	require.NoError(t, err)
	require.NotNil(t, app.RankingClient)
	assert.Equal(t, "http://ranking.test", app.RankingClient.BaseURL())
	assert.NotNil(t, app.Router)
}

func TestSessionCookieKeepsFormAcrossRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ranker := stubRanker{resp: ranking.Response{RankedResumes: []ranking.RankedResume{
		{ResumeIndex: 0, SimilarityScore: 0.5},
	}}}
	app, err := Build(testConfig(), WithRanker(ranker))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Equal(t, 1, app.Sessions.Len())

	values := url.Values{"job_description": {"Go dev"}, "resumes": {"Go"}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#results", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/screener/state", nil)
	req.Header.Set(middleware.SessionHeader, cookies[0].Value)
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		JobDescription string `json:"jobDescription"`
		Rows           []struct {
			ResumeText string `json:"resumeText"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Go dev", body.JobDescription)
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "Go", body.Rows[0].ResumeText)
	assert.Equal(t, 1, app.Sessions.Len())
}

func TestReadinessUsesRankerPing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(testConfig(), WithRanker(stubRanker{pingErr: context.DeadlineExceeded}))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
