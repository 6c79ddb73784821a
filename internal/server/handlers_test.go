package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"codearch/internal/analysis"
	"codearch/internal/llm"
	"codearch/internal/repofetch"
	"codearch/internal/report"
	"codearch/internal/store"
	"codearch/internal/types"
)

const testRepoURL = "https://github.com/demo/repo"

const narrativeJSON = `{"modules":{"core":"stuff"},"architecture":"arch","technical_debt":"",
	"technical_debt_suggestions":"","onboarding_guide":"guide"}`

const detectionJSON = `{"ai_percentage":10,"human_percentage":90,"confidence":"low",
	"indicators_found":[],"summary":"s","details":{},"recommendation":""}`

func newTestServer(t *testing.T, client llm.Client, fetchErr error) http.Handler {
	t.Helper()
	if client == nil {
		client = &llm.FakeClient{Responses: []string{detectionJSON, narrativeJSON}}
	}
	svc := analysis.New(client, store.NewMemoryStore(), report.NewMemoryStore(), analysis.Options{CorpusMaxChars: 100_000})
	svc.SetFetcher(func(_ context.Context, url string) (*repofetch.Snapshot, error) {
		if fetchErr != nil {
			return nil, fetchErr
		}
		dir, err := os.MkdirTemp(t.TempDir(), "snap-*")
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(dir, "a.py"), []byte("import b\n"), 0o644); err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(dir, "b.py"), []byte("x = 1\n"), 0o644); err != nil {
			return nil, err
		}
		return &repofetch.Snapshot{URL: url, Name: "repo", Dir: dir}, nil
	})
	return NewMux(NewHandler(svc))
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil, nil)
	for _, path := range []string{"/", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "Code Archaeologist API", body["service"])
	}
}

func TestAnalyze_OK(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := postJSON(t, h, "/analyze", map[string]string{"repo": testRepoURL})
	require.Equal(t, http.StatusOK, rec.Code)

	var result types.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, "arch", result.Architecture)
	require.Equal(t, "stuff", result.Modules["core"])
	require.NotNil(t, result.FileTree)
	require.Len(t, result.Dependencies.Nodes, 2)
	require.Len(t, result.Dependencies.Edges, 1)
}

func TestAnalyze_InvalidURL(t *testing.T) {
	h := newTestServer(t, nil, nil)
	for _, repo := range []string{"", "ftp://github.com/x/y", "https://example.com/x/y"} {
		rec := postJSON(t, h, "/analyze", map[string]string{"repo": repo})
		require.Equal(t, http.StatusBadRequest, rec.Code, "repo=%q", repo)
	}
}

func TestAnalyze_CloneFailedMaps400(t *testing.T) {
	h := newTestServer(t, nil, fmt.Errorf("%w: repository not found", repofetch.ErrCloneFailed))
	rec := postJSON(t, h, "/analyze", map[string]string{"repo": testRepoURL})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_CloneTimeoutMaps504(t *testing.T) {
	h := newTestServer(t, nil, fmt.Errorf("%w: slow remote", repofetch.ErrCloneTimeout))
	rec := postJSON(t, h, "/analyze", map[string]string{"repo": testRepoURL})
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestAnalyze_ModelErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{llm.ErrAPI, http.StatusBadGateway},
		{llm.ErrConnection, http.StatusServiceUnavailable},
		{llm.ErrTimeout, http.StatusGatewayTimeout},
	}
	for _, c := range cases {
		h := newTestServer(t, &llm.FakeClient{Err: c.err}, nil)
		rec := postJSON(t, h, "/analyze", map[string]string{"repo": testRepoURL})
		require.Equal(t, c.want, rec.Code, "err=%v", c.err)
	}
}

func TestAnalyze_BadBody(t *testing.T) {
	h := newTestServer(t, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_OK(t *testing.T) {
	client := &llm.FakeClient{Response: "it is a demo"}
	h := newTestServer(t, client, nil)
	rec := postJSON(t, h, "/chat", map[string]any{
		"repo":     testRepoURL,
		"question": "what is this?",
		"history":  []types.ChatMessage{{Role: "user", Content: "hi"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "it is a demo", body["response"])
}

func TestChat_MissingQuestion(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := postJSON(t, h, "/chat", map[string]string{"repo": testRepoURL})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReport_Lifecycle(t *testing.T) {
	h := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/report?repo="+testRepoURL, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusOK, postJSON(t, h, "/analyze", map[string]string{"repo": testRepoURL}).Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var result types.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.FileTree)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
