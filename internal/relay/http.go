package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fishcrypt/internal/domain"
)

// HTTP is a Transport backed by the relay's JSON API.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for the relay at base. A nil client means a
// default one with the given timeout.
func NewHTTP(base string, client *http.Client, timeout time.Duration) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTP{Base: strings.TrimRight(base, "/"), HTTP: client}
}

// Deliver queues env for env.To.
func (c *HTTP) Deliver(ctx context.Context, env domain.Envelope) error {
	return c.post(ctx, "/msg/"+url.PathEscape(env.To.Normalize().String()), env, nil)
}

// Fetch returns up to limit queued envelopes for recipient without removing
// them. limit <= 0 means all.
func (c *HTTP) Fetch(ctx context.Context, recipient domain.Target, limit int) ([]domain.Envelope, error) {
	path := "/msg/" + url.PathEscape(recipient.Normalize().String())
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var envs []domain.Envelope
	if err := c.getJSON(ctx, path, &envs); err != nil {
		return nil, err
	}
	return envs, nil
}

// Ack drops the first count envelopes queued for recipient.
func (c *HTTP) Ack(ctx context.Context, recipient domain.Target, count int) error {
	return c.post(ctx, "/msg/"+url.PathEscape(recipient.Normalize().String())+"/ack", ackRequest{Count: count}, nil)
}

func (c *HTTP) post(ctx context.Context, path string, in any, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay post %s: %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *HTTP) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay get %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ domain.Transport = (*HTTP)(nil)
