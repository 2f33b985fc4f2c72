package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pfrederiksen/coursecal/internal/course"
	"github.com/pfrederiksen/coursecal/internal/logger"
)

const (
	// DefaultEndpoint is the GraphQL path served by the backend.
	DefaultEndpoint = "http://localhost:5000/graphql"
	Timeout         = 2 * time.Minute
)

// ResponseHandler receives the decoded response body of a search.
// No schema is enforced on it.
type ResponseHandler func(body map[string]interface{})

// Response is the typed form of a CourseInfo response.
type Response struct {
	Data struct {
		CourseInfo []course.Course `json:"courseInfo"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
}

// Client posts search requests to the GraphQL endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a search client for endpoint
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: Timeout,
		},
	}
}

// Endpoint returns the URL requests are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit validates the criteria, sends one CourseInfo request and passes the decoded
// body to handle. Invalid criteria return an ErrInvalidCriteria error before any
// request is made, and handle is not called.
func (c *Client) Submit(ctx context.Context, criteria Criteria, handle ResponseHandler) error {
	data, err := c.post(ctx, criteria)
	if err != nil {
		return err
	}

	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	if handle != nil {
		handle(body)
	}
	return nil
}

// Search is Submit with a typed response. GraphQL errors in the body are returned
// as an error.
func (c *Client) Search(ctx context.Context, criteria Criteria) ([]course.Course, error) {
	data, err := c.post(ctx, criteria)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	if len(resp.Errors) > 0 {
		messages := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}
		return nil, fmt.Errorf("query failed: %s", strings.Join(messages, "; "))
	}

	return resp.Data.CourseInfo, nil
}

// post sends the request and returns the raw body. GraphQL servers answer query errors
// with 400 and a JSON body, so that status is passed through for the caller to decode.
func (c *Client) post(ctx context.Context, criteria Criteria) ([]byte, error) {
	payload, err := BuildRequest(criteria)
	if err != nil {
		logger.Debug("Search rejected", logger.Fields{"criteria": criteria.String(), "error": err.Error()})
		return nil, err
	}

	logger.Info("Submitting search", logger.Fields{"criteria": criteria.String()})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	return data, nil
}
