package oauthapp

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KennyDiedxD/shopify-callback/pkg/config"
	"github.com/KennyDiedxD/shopify-callback/pkg/state"
	"github.com/KennyDiedxD/shopify-callback/pkg/tokens"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

type checkTokenResp struct {
	Count int         `json:"count"`
	Shops []tokenView `json:"shops"`
}

func TestCheckTokenUnauthorized(t *testing.T) {
	_, h := newTestApp()

	for _, tc := range []struct {
		name   string
		target string
		bearer string
	}{
		{"no credentials", "/api/check-token", ""},
		{"wrong query secret", "/api/check-token?secret=wrong", ""},
		{"wrong bearer", "/api/check-token", "Bearer wrong"},
	} {
		req := httptest.NewRequest("GET", tc.target, nil)
		if tc.bearer != "" {
			req.Header.Set("Authorization", tc.bearer)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, 401, rec.Code, tc.name)
	}
}

func TestCheckTokenFailsClosedWithoutSecret(t *testing.T) {
	cfg := config.Config{Env: "test", ClientSecret: testSecret}
	app := New(zap.NewNop().Sugar(), cfg, state.NewMemoryStore(), tokens.NewMemoryStore())
	r := chi.NewRouter()
	app.Routes(r)

	// No admin secret configured: even an empty guess is rejected.
	req := httptest.NewRequest("GET", "/api/check-token?secret=", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, 401, rec.Code)
}

func TestCheckTokenMaskedByDefault(t *testing.T) {
	app, h := newTestApp()
	require.NoError(t, app.tokens.Put(context.Background(), testShop, "shpat_abcdef1234567890", "read_products"))

	req := httptest.NewRequest("GET", "/api/check-token", nil)
	req.Header.Set("Authorization", "Bearer admin-secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var out checkTokenResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, 1, out.Count)
	require.Equal(t, testShop, out.Shops[0].Shop)
	require.Equal(t, "read_products", out.Shops[0].Scope)
	require.Equal(t, tokens.Mask("shpat_abcdef1234567890"), out.Shops[0].Token)
	require.NotZero(t, out.Shops[0].InstalledAt)
}

func TestCheckTokenFullReveal(t *testing.T) {
	app, h := newTestApp()
	require.NoError(t, app.tokens.Put(context.Background(), testShop, "shpat_abcdef1234567890", ""))

	req := httptest.NewRequest("GET", "/api/check-token?secret=admin-secret&full=1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var out checkTokenResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "shpat_abcdef1234567890", out.Shops[0].Token)
}

func TestCheckTokenShopFilter(t *testing.T) {
	app, h := newTestApp()
	require.NoError(t, app.tokens.Put(context.Background(), "a.myshopify.com", "shpat_token_aaaa", ""))
	require.NoError(t, app.tokens.Put(context.Background(), "b.myshopify.com", "shpat_token_bbbb", ""))

	req := httptest.NewRequest("GET", "/api/check-token?secret=admin-secret&shop=b.myshopify.com", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var out checkTokenResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, 1, out.Count)
	require.Equal(t, "b.myshopify.com", out.Shops[0].Shop)
}
