package oauthapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/KennyDiedxD/shopify-callback/pkg/config"
)

// exchanger trades a one-time authorization code for a durable access token
// via the shop's token endpoint. Authorization codes are single-use and
// short-lived, so there is no retry here; a failure means starting the
// install over.
type exchanger struct {
	hc           *http.Client
	clientID     string
	clientSecret string
	timeout      time.Duration
	endpoint     func(shop string) string // overridden in tests
}

func newExchanger(cfg config.Config) *exchanger {
	return &exchanger{
		hc:           &http.Client{Timeout: cfg.ExchangeTimeout},
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		timeout:      cfg.ExchangeTimeout,
		endpoint: func(shop string) string {
			return "https://" + shop + "/admin/oauth/access_token"
		},
	}
}

// Exchange posts the code to the shop's token endpoint. The call runs under
// its own deadline, detached from the incoming request context, so a client
// disconnect cannot abandon a half-finished exchange.
func (e *exchanger) Exchange(shop, code string) (token, scope string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{
		"client_id":     e.clientID,
		"client_secret": e.clientSecret,
		"code":          code,
	})
	if err != nil {
		return "", "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint(shop), bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.hc.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("upstream status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	var out struct {
		AccessToken string `json:"access_token"`
		Scope       string `json:"scope"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", "", fmt.Errorf("upstream returned unparseable body: %w", err)
	}
	if out.AccessToken == "" {
		return "", "", fmt.Errorf("upstream returned no access_token")
	}
	return out.AccessToken, out.Scope, nil
}
