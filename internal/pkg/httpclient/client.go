package httpclient

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps resty for HTTP requests to external payment APIs.
type Client struct {
	r *resty.Client
}

// New creates a new HTTP client with a 30 second timeout. Requests are never
// retried here; a failed invoice creation goes back to the donor, who retries
// by resubmitting the form.
func New() *Client {
	r := resty.New().SetTimeout(30 * time.Second)
	return &Client{r: r}
}

// WithTimeout sets a custom timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.r.SetTimeout(d)
	return c
}

// WithBasicAuth sets HTTP Basic credentials on every request.
func (c *Client) WithBasicAuth(username, password string) *Client {
	c.r.SetBasicAuth(username, password)
	return c
}

// WithInsecureSkipVerify disables TLS verification.
func (c *Client) WithInsecureSkipVerify() *Client {
	c.r.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	return c
}

// Execute sends a request with a JSON body and returns the HTTP status code
// and raw response body. A non-2xx status is not an error; only transport
// failures (DNS, timeout, reset) return one.
func (c *Client) Execute(ctx context.Context, method, url string, body interface{}) (int, []byte, error) {
	req := c.r.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json")
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, url)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode(), resp.Body(), nil
}
