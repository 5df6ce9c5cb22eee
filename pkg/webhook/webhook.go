// Package webhook posts analysis reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ccollicutt/pktscope/pkg/config"
	"github.com/ccollicutt/pktscope/pkg/output"
)

// DefaultTimeout applies when a webhook has no timeout of its own.
const DefaultTimeout = 10 * time.Second

// RunIDHeader carries the report run id so receivers can deduplicate.
const RunIDHeader = "X-Pktscope-Run-Id"

const (
	userAgent       = "pktscope-webhook"
	maxResponseBody = 1 << 20
)

// Client posts reports. The zero value is not usable; call NewClient.
type Client struct {
	http *http.Client
}

// NewClient wraps hc, or a fresh http.Client when hc is nil.
func NewClient(hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{http: hc}
}

// Delivery is the outcome of posting one report.
type Delivery struct {
	Status int
	Body   string
	Took   time.Duration
	Err    error
}

// OK reports a 2xx status with no transport error.
func (d *Delivery) OK() bool {
	return d.Err == nil && d.Status >= 200 && d.Status < 300
}

// Send posts report as JSON to hook. It never returns nil; errors land in Delivery.Err.
func (c *Client) Send(ctx context.Context, report *output.Report, hook config.WebhookConfig) *Delivery {
	start := time.Now()
	d := c.post(ctx, report, hook)
	d.Took = time.Since(start)
	return d
}

func (c *Client) post(ctx context.Context, report *output.Report, hook config.WebhookConfig) *Delivery {
	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := newRequest(ctx, report, hook)
	if err != nil {
		return &Delivery{Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Delivery{Err: fmt.Errorf("posting to %s: %w", hook.URL, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	d := &Delivery{Status: resp.StatusCode, Body: string(body)}
	switch {
	case err != nil:
		d.Err = fmt.Errorf("reading response: %w", err)
	case resp.StatusCode >= 400:
		d.Err = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return d
}

func newRequest(ctx context.Context, report *output.Report, hook config.WebhookConfig) (*http.Request, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	h := req.Header
	h.Set("Content-Type", "application/json")
	h.Set("User-Agent", userAgent)
	if report.RunID != "" {
		h.Set(RunIDHeader, report.RunID)
	}
	if hook.Token != "" {
		h.Set("Authorization", "Bearer "+hook.Token)
	}
	return req, nil
}

// ShouldFire reports whether a webhook with trigger fires for a run.
// An empty or unknown trigger behaves like on_failures.
func ShouldFire(trigger config.WebhookTrigger, hasFailures bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasFailures
	}
}
