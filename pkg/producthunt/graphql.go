// Package producthunt fetches ranked launches from the Product Hunt GraphQL API.
package producthunt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrGraphQLError         = errors.New("graphql error")
	ErrNoData               = errors.New("no data in response")
)

const maxResponseBytes = 10 * 1024 * 1024

type GraphQLClient struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

func NewGraphQLClient(endpoint, token string) *GraphQLClient {
	return &GraphQLClient{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Execute posts a single GraphQL query with the bearer token.
func (c *GraphQLClient) Execute(ctx context.Context, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	jsonBody, err := json.Marshal(GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatusCode, resp.StatusCode, string(body))
	}

	var gqlResp GraphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return &gqlResp, fmt.Errorf("%w: %s", ErrGraphQLError, gqlResp.Errors[0].Message)
	}

	return &gqlResp, nil
}

// UnmarshalGraphQLData decodes the data member of resp into T.
func UnmarshalGraphQLData[T any](resp *GraphQLResponse) (*T, error) {
	if resp == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, ErrNoData
	}
	var target T
	if err := json.Unmarshal(resp.Data, &target); err != nil {
		return nil, fmt.Errorf("failed to parse response data: %w", err)
	}
	return &target, nil
}
