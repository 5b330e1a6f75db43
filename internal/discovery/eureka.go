package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"cloudgw/internal/model"
)

// EurekaClient talks to the registry's /eureka/apps API.
type EurekaClient struct {
	baseURL string
	http    *http.Client
}

// NewEurekaClient returns a client for the registry rooted at baseURL,
// e.g. http://localhost:8761/eureka.
func NewEurekaClient(baseURL string) *EurekaClient {
	return &EurekaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
}

type instanceEnvelope struct {
	Instance *model.Instance `json:"instance"`
}

type applicationsEnvelope struct {
	Applications *model.Applications `json:"applications"`
}

// Register sends the instance record, replacing any previous one.
func (c *EurekaClient) Register(ctx context.Context, inst *model.Instance) error {
	b, err := json.Marshal(instanceEnvelope{Instance: inst})
	if err != nil {
		return fmt.Errorf("encode instance: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, c.appPath(inst.App), bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer drain(resp)
	return expectStatus(resp, http.StatusNoContent, http.StatusOK)
}

// Renew sends a heartbeat. A 404 means the lease was evicted and maps to ErrNotRegistered.
func (c *EurekaClient) Renew(ctx context.Context, inst *model.Instance) error {
	resp, err := c.do(ctx, http.MethodPut, c.instancePath(inst), nil)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotRegistered
	}
	return expectStatus(resp, http.StatusOK)
}

// Deregister cancels the lease. An instance the registry already forgot is not an error.
func (c *EurekaClient) Deregister(ctx context.Context, inst *model.Instance) error {
	resp, err := c.do(ctx, http.MethodDelete, c.instancePath(inst), nil)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return expectStatus(resp, http.StatusOK)
}

// Applications fetches the whole registry.
func (c *EurekaClient) Applications(ctx context.Context) (*model.Applications, error) {
	resp, err := c.do(ctx, http.MethodGet, "/apps", nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)
	if err := expectStatus(resp, http.StatusOK); err != nil {
		return nil, err
	}

	var env applicationsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	if env.Applications == nil {
		return &model.Applications{Applications: []model.Application{}}, nil
	}
	return env.Applications, nil
}

func (c *EurekaClient) appPath(app string) string {
	return "/apps/" + url.PathEscape(model.NormalizeApp(app))
}

func (c *EurekaClient) instancePath(inst *model.Instance) string {
	return c.appPath(inst.App) + "/" + url.PathEscape(inst.InstanceID)
}

func (c *EurekaClient) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func expectStatus(resp *http.Response, want ...int) error {
	for _, code := range want {
		if resp.StatusCode == code {
			return nil
		}
	}
	return fmt.Errorf("%s %s: unexpected status %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode)
}

// drain lets the transport reuse the connection.
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
