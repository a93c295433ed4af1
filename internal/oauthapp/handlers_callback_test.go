package oauthapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KennyDiedxD/shopify-callback/pkg/shop"
	"github.com/KennyDiedxD/shopify-callback/pkg/tokens"
)

const stubToken = "shpat_abcdef1234567890"

// stubExchange fakes the shop's token endpoint and points the app's
// exchanger at it.
func stubExchange(t *testing.T, app *App, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "testkey", req["client_id"])
		require.Equal(t, testSecret, req["client_secret"])
		require.NotEmpty(t, req["code"])
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	app.exch.endpoint = func(string) string { return srv.URL }
	return srv
}

func doCallback(h http.Handler, shopDomain, rawQuery, cookieVal string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/api/callback?"+rawQuery, nil)
	if cookieVal != "" {
		req.AddCookie(&http.Cookie{Name: shop.StateCookieName(shopDomain), Value: cookieVal})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCallbackSuccess(t *testing.T) {
	app, h := newTestApp()
	stubExchange(t, app, 200, `{"access_token":"`+stubToken+`","scope":"read_products"}`)

	nonce := "nonce-success"
	require.NoError(t, app.states.Save(context.Background(), testShop, nonce, time.Minute))

	q := signedCallbackQuery(testShop, "authcode123", nonce, time.Now().Unix())
	rec := doCallback(h, testShop, q.Encode(), nonce)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, testShop)
	require.Contains(t, body, "read_products")
	require.Contains(t, body, tokens.Mask(stubToken))
	// The raw token must never appear verbatim in the response.
	require.NotContains(t, body, stubToken)

	stored, err := app.tokens.Get(context.Background(), testShop)
	require.NoError(t, err)
	require.Equal(t, stubToken, stored.Token)
	require.Equal(t, "read_products", stored.Scope)
}

func TestCallbackStateSingleUse(t *testing.T) {
	app, h := newTestApp()
	stubExchange(t, app, 200, `{"access_token":"`+stubToken+`","scope":"read_products"}`)

	nonce := "nonce-replay"
	require.NoError(t, app.states.Save(context.Background(), testShop, nonce, time.Minute))

	q := signedCallbackQuery(testShop, "authcode123", nonce, time.Now().Unix())
	require.Equal(t, 200, doCallback(h, testShop, q.Encode(), nonce).Code)

	// Replaying the identical callback must be refused: the server-side
	// binding was consumed by the first request.
	require.Equal(t, 403, doCallback(h, testShop, q.Encode(), nonce).Code)
}

func TestCallbackMissingParameters(t *testing.T) {
	_, h := newTestApp()

	rec := doCallback(h, testShop, "shop="+testShop+"&code=abc", "")
	require.Equal(t, 400, rec.Code)
	require.Contains(t, rec.Body.String(), "Missing required query parameters.")
}

func TestCallbackInvalidShop(t *testing.T) {
	_, h := newTestApp()

	q := signedCallbackQuery("evil.com", "abc", "n", 0)
	rec := doCallback(h, "evil.com", q.Encode(), "n")
	require.Equal(t, 400, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid shop domain.")
}

func TestCallbackFreshnessBoundary(t *testing.T) {
	app, h := newTestApp()
	stubExchange(t, app, 200, `{"access_token":"`+stubToken+`","scope":"read_products"}`)

	// 301 seconds old: stale.
	nonce := "nonce-stale"
	require.NoError(t, app.states.Save(context.Background(), testShop, nonce, time.Minute))
	q := signedCallbackQuery(testShop, "authcode123", nonce, time.Now().Unix()-301)
	rec := doCallback(h, testShop, q.Encode(), nonce)
	require.Equal(t, 400, rec.Code)
	require.Contains(t, rec.Body.String(), "too old")

	// 299 seconds old: inside the window, flow completes.
	nonce = "nonce-fresh"
	require.NoError(t, app.states.Save(context.Background(), testShop, nonce, time.Minute))
	q = signedCallbackQuery(testShop, "authcode123", nonce, time.Now().Unix()-299)
	require.Equal(t, 200, doCallback(h, testShop, q.Encode(), nonce).Code)
}

func TestCallbackBadHMAC(t *testing.T) {
	app, h := newTestApp()

	nonce := "nonce-badhmac"
	require.NoError(t, app.states.Save(context.Background(), testShop, nonce, time.Minute))

	q := signedCallbackQuery(testShop, "authcode123", nonce, time.Now().Unix())
	q.Set("hmac", "0000000000000000000000000000000000000000000000000000000000000000")
	rec := doCallback(h, testShop, q.Encode(), nonce)
	require.Equal(t, 403, rec.Code)
	require.Contains(t, rec.Body.String(), "HMAC validation failed.")
}

func TestCallbackMissingCookie(t *testing.T) {
	app, h := newTestApp()

	nonce := "nonce-nocookie"
	require.NoError(t, app.states.Save(context.Background(), testShop, nonce, time.Minute))

	q := signedCallbackQuery(testShop, "authcode123", nonce, time.Now().Unix())
	rec := doCallback(h, testShop, q.Encode(), "")
	require.Equal(t, 403, rec.Code)
	require.Contains(t, rec.Body.String(), "State verification failed.")
}

func TestCallbackCookieMismatch(t *testing.T) {
	app, h := newTestApp()

	nonce := "nonce-mismatch"
	require.NoError(t, app.states.Save(context.Background(), testShop, nonce, time.Minute))

	q := signedCallbackQuery(testShop, "authcode123", nonce, time.Now().Unix())
	rec := doCallback(h, testShop, q.Encode(), "some-other-value")
	require.Equal(t, 403, rec.Code)
}

func TestCallbackExchangeFailure(t *testing.T) {
	app, h := newTestApp()
	stubExchange(t, app, 400, `{"error":"invalid_request"}`)

	nonce := "nonce-exchange"
	require.NoError(t, app.states.Save(context.Background(), testShop, nonce, time.Minute))

	q := signedCallbackQuery(testShop, "authcode123", nonce, time.Now().Unix())
	rec := doCallback(h, testShop, q.Encode(), nonce)
	require.Equal(t, 400, rec.Code)
	// The upstream body is surfaced for diagnosis.
	require.Contains(t, rec.Body.String(), "invalid_request")

	// Nothing may be persisted on a failed exchange.
	_, err := app.tokens.Get(context.Background(), testShop)
	require.ErrorIs(t, err, tokens.ErrNotFound)
}
