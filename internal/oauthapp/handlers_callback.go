package oauthapp

import (
	"crypto/subtle"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/KennyDiedxD/shopify-callback/pkg/problems"
	"github.com/KennyDiedxD/shopify-callback/pkg/shop"
	"github.com/KennyDiedxD/shopify-callback/pkg/signature"
	"github.com/KennyDiedxD/shopify-callback/pkg/state"
	"github.com/KennyDiedxD/shopify-callback/pkg/tokens"
)

// maxClockSkew bounds |now - timestamp| on callbacks; older requests are
// treated as replays.
const maxClockSkew = 300 * time.Second

var successTmpl = template.Must(template.New("installed").Parse(`<!doctype html>
<html><head><title>App installed</title></head><body>
<h1>App installed for {{.Shop}}</h1>
<p>Granted scopes: {{.Scope}}</p>
<p>Access token: <code>{{.MaskedToken}}</code></p>
</body></html>
`))

// handleCallback verifies the authorization redirect and exchanges the code.
// Checks run cheapest-first and short-circuit: structure, then freshness,
// then crypto, then the one network call. Nothing is persisted until the
// exchange has fully succeeded.
func (a *App) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	shopParam, code, hmacParam, nonce := q.Get("shop"), q.Get("code"), q.Get("hmac"), q.Get("state")

	if shopParam == "" || code == "" || hmacParam == "" || nonce == "" {
		a.fail(w, "callback", problems.E(problems.MissingParameters, "Missing required query parameters."))
		return
	}
	shopDomain := shop.Normalize(shopParam)
	if !shop.Valid(shopDomain) {
		a.fail(w, "callback", problems.E(problems.InvalidTenant, "Invalid shop domain."))
		return
	}
	if ts := q.Get("timestamp"); ts != "" {
		if perr := checkFreshness(ts, time.Now()); perr != nil {
			a.fail(w, "callback", perr)
			return
		}
	}
	if !signature.VerifyQuery(q, a.cfg.ClientSecret) {
		a.fail(w, "callback", problems.E(problems.AuthenticityFailure, "HMAC validation failed."))
		return
	}

	// Anti-forgery round trip. The cookie is cleared whatever happens next;
	// the server-side Consume is the atomic single-use gate.
	cookieName := shop.StateCookieName(shopDomain)
	cookie, cookieErr := r.Cookie(cookieName)
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: true, SameSite: http.SameSiteLaxMode})
	if cookieErr != nil || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(nonce)) != 1 {
		a.fail(w, "callback", problems.E(problems.ForgerySuspected, "State verification failed."))
		return
	}
	if err := a.states.Consume(r.Context(), shopDomain, nonce); err != nil {
		if errors.Is(err, state.ErrNotFound) || errors.Is(err, state.ErrMismatch) {
			a.fail(w, "callback", problems.E(problems.ForgerySuspected, "State verification failed."))
		} else {
			a.fail(w, "callback", problems.E(problems.StoreFailure, err.Error()))
		}
		return
	}

	token, grantedScope, err := a.exch.Exchange(shopDomain, code)
	if err != nil {
		// The upstream body aids diagnosis; the authorization code is spent
		// either way, so the merchant restarts from /api/install.
		a.fail(w, "callback", problems.E(problems.ExchangeFailed, "Token exchange failed: "+err.Error()))
		return
	}

	if err := a.tokens.Put(r.Context(), shopDomain, token, grantedScope); err != nil {
		a.fail(w, "callback", problems.E(problems.StoreFailure, err.Error()))
		return
	}

	a.ok("callback")
	a.log.Infow("app installed", "shop", shopDomain, "scope", grantedScope)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = successTmpl.Execute(w, map[string]string{
		"Shop":        shopDomain,
		"Scope":       grantedScope,
		"MaskedToken": tokens.Mask(token),
	})
}

// checkFreshness accepts timestamps within maxClockSkew of now, in either
// direction.
func checkFreshness(ts string, now time.Time) *problems.Error {
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return problems.E(problems.StaleRequest, "Invalid timestamp.")
	}
	diff := now.Unix() - sec
	if diff < 0 {
		diff = -diff
	}
	if diff > int64(maxClockSkew/time.Second) {
		return problems.E(problems.StaleRequest, "Request timestamp is too old.")
	}
	return nil
}
