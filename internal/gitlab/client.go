package gitlab

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/heaths/gitlab-compare/internal/models"
	"github.com/heaths/gitlab-compare/internal/utils"
	"github.com/muesli/reflow/truncate"
	"github.com/tidwall/gjson"
)

// MaxPageSize is the largest per_page value the GitLab REST API honors.
const MaxPageSize = 100

const maxErrorBodyWidth = 200

var transientStatusCodes = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// APIError is returned for any unexpected HTTP status from the GitLab API.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API status %d from %s", e.StatusCode, e.Endpoint)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Transient reports whether the request may succeed if retried.
func (e *APIError) Transient() bool {
	return utils.Contains(transientStatusCodes, e.StatusCode)
}

// AuthError is returned when GitLab rejects the token.
type AuthError struct {
	URL string
	Err *APIError
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token rejected by %s: %v", e.URL, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client

	insecure bool
}

type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.http = client
	}
}

// WithInsecureSkipVerify disables TLS certificate verification on the default HTTP client.
func WithInsecureSkipVerify(insecure bool) ClientOption {
	return func(c *Client) {
		c.insecure = insecure
	}
}

func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if c.insecure {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		c.http = &http.Client{Transport: transport}
	}

	return c
}

func (c *Client) URL() string {
	return c.baseURL
}

// Authenticate validates the token and returns the username it belongs to.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/api/v4/user", nil)
	if err != nil {
		return "", err
	}

	return gjson.GetBytes(body, "username").String(), nil
}

// ListProjects returns a single page of projects visible to the token.
func (c *Client) ListProjects(ctx context.Context, page, perPage int) ([]models.RawProject, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	body, err := c.get(ctx, "/api/v4/projects", query)
	if err != nil {
		return nil, err
	}

	projects, ok := models.ParseRawProjects(body)
	if !ok {
		return nil, fmt.Errorf("decoding projects page %d: expected a JSON array", page)
	}

	return projects, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", path, err)
	}

	request.Header.Set("PRIVATE-TOKEN", c.token)
	request.Header.Set("Accept", "application/json")

	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", path, err)
	}

	if response.StatusCode != http.StatusOK {
		apiErr := &APIError{
			StatusCode: response.StatusCode,
			Endpoint:   path,
			Body:       truncate.StringWithTail(strings.TrimSpace(string(body)), maxErrorBodyWidth, "..."),
		}

		if response.StatusCode == http.StatusUnauthorized ||
			(response.StatusCode == http.StatusForbidden && path == "/api/v4/user") {
			return nil, &AuthError{URL: c.baseURL, Err: apiErr}
		}

		return nil, apiErr
	}

	return body, nil
}
