package oauthapp

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/KennyDiedxD/shopify-callback/pkg/config"
	"github.com/KennyDiedxD/shopify-callback/pkg/signature"
	"github.com/KennyDiedxD/shopify-callback/pkg/state"
	"github.com/KennyDiedxD/shopify-callback/pkg/tokens"
)

const (
	testSecret = "shpss_test_secret"
	testShop   = "foo.myshopify.com"
)

func newTestApp() (*App, http.Handler) {
	cfg := config.Config{
		Env:             "test",
		ClientID:        "testkey",
		ClientSecret:    testSecret,
		Scopes:          "read_products,read_orders",
		RedirectURI:     "https://app.example.com/api/callback",
		AdminSecret:     "admin-secret",
		StateTTL:        5 * time.Minute,
		ExchangeTimeout: 2 * time.Second,
	}
	app := New(zap.NewNop().Sugar(), cfg, state.NewMemoryStore(), tokens.NewMemoryStore())
	r := chi.NewRouter()
	app.Routes(r)
	return app, r
}

// signedCallbackQuery builds a callback query carrying a valid hmac.
func signedCallbackQuery(shopDomain, code, nonce string, ts int64) url.Values {
	q := url.Values{}
	q.Set("shop", shopDomain)
	q.Set("code", code)
	q.Set("state", nonce)
	if ts != 0 {
		q.Set("timestamp", strconv.FormatInt(ts, 10))
	}
	q.Set("hmac", signature.SignQuery(q, testSecret))
	return q
}
