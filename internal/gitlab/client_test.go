package gitlab

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractProjectPath(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://git.example.com/qa/consulta.git", "qa/consulta", false},
		{"https://git.example.com/group/sub/project", "group/sub/project", false},
		{"https://git.example.com//qa/app.git", "qa/app", false},
		{"not a url", "", true},
		{"https://git.example.com/", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ExtractProjectPath(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewAPIRequest(t *testing.T) {
	c := &Client{token: "test-token"}
	req, err := c.newAPIRequest(context.Background(), "https://git.example.com/api/v4/test")

	require.NoError(t, err)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "test-token", req.Header.Get("PRIVATE-TOKEN"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
}

func TestNewAPIRequestNoToken(t *testing.T) {
	c := &Client{}
	req, err := c.newAPIRequest(context.Background(), "https://git.example.com/api/v4/test")

	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("PRIVATE-TOKEN"))
}

func TestListBranches(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotToken = r.Header.Get("PRIVATE-TOKEN")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name": "develop", "web_url": "https://git/develop", "commit": {"id": "abc", "title": "feat: x", "committed_date": "2025-12-14T10:05:00Z"}},
			{"name": "feature/login"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIURL: srv.URL + "/", Token: "tok", HTTPClient: srv.Client(), RequestsPerSecond: 100})
	branches, err := c.ListBranches(context.Background(), "https://git.example.com/qa/consulta.git")
	require.NoError(t, err)

	assert.Equal(t, "/projects/qa%2Fconsulta/repository/branches", gotPath)
	assert.Equal(t, "tok", gotToken)
	require.Len(t, branches, 2)
	assert.Equal(t, "develop", branches[0].Name)
	require.NotNil(t, branches[0].Commit)
	assert.Equal(t, "feat: x", branches[0].Commit.Title)
	assert.Nil(t, branches[1].Commit)
}

func TestListBranchesInvalidURL(t *testing.T) {
	c := NewClient(Config{Token: "tok"})
	_, err := c.ListBranches(context.Background(), "::::")
	assert.Error(t, err)
}

func TestFetchDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reports/consulta/develop/report.json":
			_, _ = w.Write([]byte(`{"suites": []}`))
		case "/reports/consulta/broken/report.json":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{ReportsBaseURL: srv.URL, HTTPClient: srv.Client()})

	t.Run("success", func(t *testing.T) {
		data, err := c.FetchDocument(context.Background(), "/reports/consulta/develop/report.json")
		require.NoError(t, err)
		assert.JSONEq(t, `{"suites": []}`, string(data))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.FetchDocument(context.Background(), "reports/consulta/missing/report.json")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("server failure", func(t *testing.T) {
		_, err := c.FetchDocument(context.Background(), "reports/consulta/broken/report.json")
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.True(t, apiErr.Retryable())
		assert.Contains(t, err.Error(), "upstream down")
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestFetchDocumentCanceled(t *testing.T) {
	c := NewClient(Config{ReportsBaseURL: "http://127.0.0.1:1", RequestsPerSecond: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchDocument(ctx, "reports/x.json")
	assert.Error(t, err)
}

func TestAPIErrorRetryable(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 503}).Retryable())
	assert.True(t, (&APIError{StatusCode: 429}).Retryable())
	assert.False(t, (&APIError{StatusCode: 403}).Retryable())
}
