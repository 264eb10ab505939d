package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

const defaultAPIURL = "https://git.datasystec.com.br/api/v4"

// ErrNotFound is returned when the requested document does not exist.
// For report documents this means no report has been published yet.
var ErrNotFound = errors.New("not found")

// APIError is returned for any other non-success response.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GitLab API error: %s", e.Status)
	}
	return fmt.Sprintf("GitLab API error: %s - %s", e.Status, e.Body)
}

// Retryable reports whether the failure is worth retrying later.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Config configures a Client.
type Config struct {
	APIURL         string
	Token          string
	ReportsBaseURL string
	// RequestsPerSecond caps outbound requests; zero disables the limit.
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client handles GitLab API interactions and report document retrieval
type Client struct {
	token      string
	baseURL    string
	reportsURL string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new GitLab client
func NewClient(cfg Config) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	c := &Client{
		token:      cfg.Token,
		baseURL:    strings.TrimRight(apiURL, "/"),
		reportsURL: strings.TrimRight(cfg.ReportsBaseURL, "/"),
		httpClient: httpClient,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// Configured reports whether a token is available for API calls.
func (c *Client) Configured() bool {
	return c.token != ""
}

// Commit is the head commit of a branch
type Commit struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	CommittedDate string `json:"committed_date"`
}

// Branch represents a GitLab repository branch
type Branch struct {
	Name   string  `json:"name"`
	WebURL string  `json:"web_url"`
	Commit *Commit `json:"commit"`
}

// ListBranches fetches the branches of the repository at repoURL.
func (c *Client) ListBranches(ctx context.Context, repoURL string) ([]Branch, error) {
	projectPath, err := ExtractProjectPath(repoURL)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/projects/%s/repository/branches?per_page=100", c.baseURL, url.PathEscape(projectPath))

	var branches []Branch
	if err := c.doRequest(ctx, u, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// FetchDocument downloads a document published under the reports base URL.
// A 404 response yields ErrNotFound.
func (c *Client) FetchDocument(ctx context.Context, path string) ([]byte, error) {
	u := c.reportsURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// ExtractProjectPath turns a repository URL into a GitLab project path.
func ExtractProjectPath(repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid GitLab repository URL: %q", repoURL)
	}
	path := strings.TrimSuffix(strings.TrimLeft(parsed.Path, "/"), ".git")
	if path == "" {
		return "", fmt.Errorf("invalid GitLab repository URL: %q", repoURL)
	}
	return path, nil
}

func (c *Client) newAPIRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("PRIVATE-TOKEN", c.token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return c.httpClient.Do(req)
}

func (c *Client) doRequest(ctx context.Context, url string, result any) error {
	req, err := c.newAPIRequest(ctx, url)
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return nil
}
