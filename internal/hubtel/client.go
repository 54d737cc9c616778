package hubtel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"givehubtel/internal/pkg/httpclient"
)

// Response is the raw outcome of one transport-successful round trip. Whether
// it means business-level success is the caller's problem.
type Response struct {
	StatusCode int
	Body       []byte
}

// Client talks to the Hubtel POS API.
type Client struct {
	baseURL string
	client  *httpclient.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a Hubtel API client. insecureTLS reproduces the original
// integration's disabled certificate verification and should stay off unless
// Hubtel's chain is known broken on a deployment.
func NewClient(apiID, apiKey, baseURL string, insecureTLS bool) *Client {
	hc := httpclient.New().
		WithTimeout(30 * time.Second).
		WithBasicAuth(apiID, apiKey)
	if insecureTLS {
		hc.WithInsecureSkipVerify()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "hubtel",
		Timeout: 60 * time.Second,
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		client:  hc,
		breaker: breaker,
	}
}

// Request sends one API call and returns the raw status and body. Transport
// failures, timeouts and an open circuit breaker all come back as errors;
// they never panic past this boundary. Only transport failures count against
// the breaker, so a responsive Hubtel returning business errors keeps the
// circuit closed.
func (c *Client) Request(ctx context.Context, path, method string, body interface{}) (*Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		status, respBody, err := c.client.Execute(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		return &Response{StatusCode: status, Body: respBody}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("hubtel %s %s: %w", method, path, err)
	}
	return result.(*Response), nil
}
