package breach

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"mailveil/internal/domain"
)

// HTTPClient queries a breach-lookup service over HTTP. Any transport
// failure, non-2xx status, or undecodable body surfaces as ErrTransient;
// the caller maps that to status unknown.
type HTTPClient struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for the service at base.
func NewHTTP(base string, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{Base: base, HTTP: client}
}

type checkResponse struct {
	Found  bool   `json:"found"`
	Source string `json:"source"`
}

// Check asks the service whether email appears in its corpus.
func (c *HTTPClient) Check(ctx context.Context, email string) (domain.BreachReport, error) {
	u := c.Base + "/v1/breach?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.BreachReport{}, fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.BreachReport{}, fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.BreachReport{}, fmt.Errorf("%w: breach service returned %s", domain.ErrTransient, resp.Status)
	}

	var body checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.BreachReport{}, fmt.Errorf("%w: decode response: %v", domain.ErrTransient, err)
	}

	report := domain.BreachReport{Email: email, Status: domain.BreachClear, Source: body.Source}
	if body.Found {
		report.Status = domain.BreachFound
	}
	return report, nil
}

// Compile-time assertion that HTTPClient implements domain.BreachChecker.
var _ domain.BreachChecker = (*HTTPClient)(nil)
