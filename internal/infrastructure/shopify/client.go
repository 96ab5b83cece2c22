package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"soundfy-core-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// DefaultAPIVersion pins the Admin API version the queries are written
// against.
const DefaultAPIVersion = "2025-10"

// Client executes Admin GraphQL queries for the shop bound to the
// request context and translates remote failure shapes into the local
// error taxonomy. It performs a single synchronous call per Execute;
// retry is the job queue's responsibility, not the client's.
type Client struct {
	httpClient *http.Client
	apiVersion string
	metrics    *Metrics
	logger     zerolog.Logger
}

// NewClient creates a new Admin GraphQL client adapter.
func NewClient(logger zerolog.Logger) *Client {
	return NewClientWithOptions(DefaultAPIVersion, nil, nil, logger)
}

// NewClientWithOptions creates a client with an explicit API version,
// HTTP client and metrics registry.
func NewClientWithOptions(apiVersion string, httpClient *http.Client, metrics *Metrics, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		apiVersion: apiVersion,
		metrics:    metrics,
		logger:     logger,
	}
}

// Data is the "data" object of a successful GraphQL response.
type Data json.RawMessage

// Dig descends into nested objects along path and returns the raw value
// at the end of it.
func (d Data) Dig(path ...string) (json.RawMessage, error) {
	current := json.RawMessage(d)
	for _, key := range path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(current, &obj); err != nil {
			return nil, fmt.Errorf("failed to dig into %q: %w", key, err)
		}
		next, ok := obj[key]
		if !ok {
			return nil, fmt.Errorf("response has no %q key", key)
		}
		current = next
	}
	return current, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors"`
}

// Execute runs one query or mutation against the shop bound to ctx.
// Errors are classified: transport failures and transient upstream
// errors as *ConnectionError, "Throttled" as *TooManyRequestsError,
// remote entity contention as *EntityLockedError, anything else in the
// error list as *APIRequestError.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (Data, error) {
	shop, ok := domain.ShopFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no shop bound to context")
	}
	session := shop.Session()

	// Record the tenant on every call, success or not.
	c.logger.Debug().Str("shop", session.Shop).Msg("Executing Admin GraphQL request")

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(session.Shop), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", session.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(session.Shop, outcomeConnectionError)
		return nil, &ConnectionError{Message: "network error", cause: err}
	}
	defer resp.Body.Close()

	var parsed graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.metrics.observe(session.Shop, outcomeConnectionError)
		return nil, &ConnectionError{Message: "malformed response body", cause: err}
	}

	if len(parsed.Errors) > 0 {
		err := classifyErrors(parsed.Errors)
		c.metrics.observe(session.Shop, outcomeFor(err))
		c.logger.Warn().Str("shop", session.Shop).Err(err).Msg("Admin GraphQL request failed")
		return nil, err
	}

	c.metrics.observe(session.Shop, outcomeSuccess)
	return Data(parsed.Data), nil
}

// Mutate runs a mutation and surfaces the userErrors list found at path
// as *APIUserError. The mutation result object at path is returned.
func (c *Client) Mutate(ctx context.Context, query string, variables map[string]any, path ...string) (Data, error) {
	data, err := c.Execute(ctx, query, variables)
	if err != nil {
		return nil, err
	}
	if len(path) == 0 {
		return data, nil
	}

	raw, err := data.Dig(path...)
	if err != nil {
		return nil, err
	}

	var result struct {
		UserErrors []UserError `json:"userErrors"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode mutation result: %w", err)
	}
	if len(result.UserErrors) > 0 {
		return nil, &APIUserError{UserErrors: result.UserErrors}
	}
	return Data(raw), nil
}

// endpointURL builds the Admin API endpoint for a shop domain. Domains
// carrying an explicit scheme are used as-is, which lets tests point the
// client at a local server.
func (c *Client) endpointURL(shopDomain string) string {
	base := shopDomain
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return fmt.Sprintf("%s/admin/api/%s/graphql.json", base, c.apiVersion)
}

func outcomeFor(err error) string {
	switch err.(type) {
	case *ConnectionError:
		return outcomeConnectionError
	case *TooManyRequestsError:
		return outcomeThrottled
	case *EntityLockedError:
		return outcomeEntityLocked
	default:
		return outcomeFailed
	}
}
