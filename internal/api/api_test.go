package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/syncrate/internal/analytics"
	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/diagnostics"
	"github.com/abhisek/syncrate/internal/llm"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/store"
)

const helloWorld = `using System;

class Program
{
    static void Main()
    {
        Console.WriteLine("Hello, World!");
    }
}
`

type fixture struct {
	srv      *Server
	profiles *profile.Service
	diag     *diagnostics.Service
	store    *store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithReviewer(t, nil)
}

func newFixtureWithReviewer(t *testing.T, provider llm.Provider) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	profiles := profile.NewService(st.ProfileRepo(), st.EventRepo())
	diag := diagnostics.NewService(provider, st.EventRepo())
	t.Cleanup(diag.Close)

	srv := New(Deps{
		Profiles:    profiles,
		Diagnostics: diag,
		Analytics:   analytics.NewService(st.ProfileRepo(), st.EventRepo(), analytics.Options{}),
	}, Options{Version: "test"})
	return &fixture{srv: srv, profiles: profiles, diag: diag, store: st}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp, data := f.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	h := decode[healthResponse](t, data)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "test", h.Version)
	assert.False(t, h.Review)
}

func TestCalibrationQuestionsHideAnswers(t *testing.T) {
	f := newFixture(t)
	resp, data := f.do(t, http.MethodGet, "/api/calibration/questions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(data), "CorrectIndex")

	qs := decode[[]questionView](t, data)
	assert.Len(t, qs, len(calibration.DefaultBank()))
}

func TestCalibrationScore(t *testing.T) {
	f := newFixture(t)
	bank := calibration.DefaultBank()
	answers := make([]int, len(bank))
	for i, q := range bank {
		answers[i] = q.CorrectIndex
	}

	resp, data := f.do(t, http.MethodPost, "/api/calibration/score", scoreRequest{Answers: answers})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	res := decode[scoreResponse](t, data)
	assert.Equal(t, "ARCHITECT", res.Rank)
	assert.Equal(t, 100, res.Percent)

	resp, _ = f.do(t, http.MethodPost, "/api/calibration/score", scoreRequest{Answers: make([]int, len(bank)+1)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCalibrationScoreRecordsForStudent(t *testing.T) {
	f := newFixture(t)
	p, err := f.profiles.Create(context.Background(), "Ada", profile.RoleStudent)
	require.NoError(t, err)

	resp, data := f.do(t, http.MethodPost, "/api/calibration/score", scoreRequest{StudentID: "ada"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	res := decode[scoreResponse](t, data)
	assert.Equal(t, "RECRUIT", res.Rank)
	assert.NotEmpty(t, res.NewBadges)

	got, err := f.profiles.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.Calibrated)
}

func TestDiagnose(t *testing.T) {
	f := newFixture(t)

	resp, data := f.do(t, http.MethodPost, "/api/diagnose", diagnoseRequest{Code: "", Expected: "loop"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[diagnostics.Result](t, data)
	assert.Equal(t, "No Code Detected", res.Title)

	resp, data = f.do(t, http.MethodPost, "/api/diagnose", diagnoseRequest{Code: "x", Expected: "recursion"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decode[ErrorResponse](t, data)
	assert.Equal(t, CodeInvalidInput, e.Code)
	assert.Equal(t, http.StatusBadRequest, e.Status)

	counts, err := f.store.EventRepo().DiagnosisTitleCounts(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "No Code Detected", counts[0].Title)
}

func TestDiagnoseReviewsOnlyOnRequest(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockReview("Wrong Total", "The total never changes.", "critical"))
	f := newFixtureWithReviewer(t, mock)
	code := "var total = 1; Console.WriteLine(total);"

	resp, data := f.do(t, http.MethodPost, "/api/diagnose", diagnoseRequest{Code: code})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, diagnostics.RuleLogicError, decode[diagnostics.Result](t, data).Rule)

	resp, data = f.do(t, http.MethodPost, "/api/diagnose", diagnoseRequest{Code: code, Review: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[diagnostics.Result](t, data)
	assert.Equal(t, diagnostics.RuleLLMReview, res.Rule)
	assert.Equal(t, "Wrong Total", res.Title)

	// Close drains the review queue, so a review queued by the first
	// request would show up as a second call.
	f.diag.Close()
	assert.Equal(t, 1, mock.CallCount())
}

func TestDiagnoseSyntax(t *testing.T) {
	f := newFixture(t)

	resp, data := f.do(t, http.MethodPost, "/api/diagnose/syntax", syntaxRequest{Code: helloWorld})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ok := decode[syntaxResponse](t, data)
	assert.True(t, ok.Valid)
	assert.Nil(t, ok.Result)

	resp, data = f.do(t, http.MethodPost, "/api/diagnose/syntax", syntaxRequest{Code: "print('hi')"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bad := decode[syntaxResponse](t, data)
	assert.False(t, bad.Valid)
	require.NotNil(t, bad.Result)
	assert.Equal(t, diagnostics.SeverityCritical, bad.Result.Severity)
}

func TestChallenges(t *testing.T) {
	f := newFixture(t)

	resp, data := f.do(t, http.MethodGet, "/api/challenges", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]challengeView](t, data)
	require.NotEmpty(t, list)
	assert.NotContains(t, string(data), "RequiredTokens")

	resp, _ = f.do(t, http.MethodGet, "/api/challenges/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubmitChallenge(t *testing.T) {
	f := newFixture(t)
	p, err := f.profiles.Create(context.Background(), "Ada", profile.RoleStudent)
	require.NoError(t, err)

	resp, data := f.do(t, http.MethodPost, "/api/challenges/hello-world/submit",
		submitRequest{StudentID: p.ID, Code: helloWorld})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	out := decode[submitResponse](t, data)
	assert.True(t, out.Passed)
	assert.True(t, out.FirstClear)
	assert.Equal(t, 10, out.XPAwarded)
	require.NotNil(t, out.SyncRate)
	assert.Positive(t, *out.SyncRate)

	resp, data = f.do(t, http.MethodPost, "/api/challenges/hello-world/submit",
		submitRequest{StudentID: p.ID, Code: helloWorld})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	again := decode[submitResponse](t, data)
	assert.False(t, again.FirstClear)
	assert.Zero(t, again.XPAwarded)
}

func TestSubmitChallengeErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		path   string
		body   submitRequest
		status int
		code   string
	}{
		{"unknown challenge", "/api/challenges/nope/submit", submitRequest{Code: helloWorld}, http.StatusNotFound, CodeHTTP},
		{"empty code", "/api/challenges/hello-world/submit", submitRequest{Code: "  "}, http.StatusBadRequest, CodeInvalidInput},
		{"unknown student", "/api/challenges/hello-world/submit", submitRequest{StudentID: "ghost", Code: helloWorld}, http.StatusNotFound, CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := f.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			e := decode[ErrorResponse](t, data)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, tt.status, e.Status)
		})
	}
}

func TestStudentsAndAnalytics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada, err := f.profiles.Create(ctx, "Ada", profile.RoleStudent)
	require.NoError(t, err)
	_, err = f.profiles.Create(ctx, "Root", profile.RoleAdmin)
	require.NoError(t, err)

	resp, data := f.do(t, http.MethodGet, "/api/students?role=student", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]profile.Profile](t, data)
	require.Len(t, list, 1)
	assert.Equal(t, "Ada", list[0].Name)

	resp, data = f.do(t, http.MethodGet, "/api/students/"+ada.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ada", decode[profile.Profile](t, data).Name)

	resp, _ = f.do(t, http.MethodGet, "/api/students/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, data = f.do(t, http.MethodGet, "/api/analytics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	o := decode[analytics.Overview](t, data)
	assert.Equal(t, 1, o.Students)
	assert.Equal(t, 1, o.Admins)
}
