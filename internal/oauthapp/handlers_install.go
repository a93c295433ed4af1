package oauthapp

import (
	"net/http"
	"net/url"

	"github.com/KennyDiedxD/shopify-callback/pkg/problems"
	"github.com/KennyDiedxD/shopify-callback/pkg/shop"
	"github.com/KennyDiedxD/shopify-callback/pkg/state"
)

// handleInstall starts the OAuth flow: validate the shop, mint an
// anti-forgery token bound to a per-shop cookie, and send the browser to the
// shop's authorize page. No persistent side effects beyond the state binding.
func (a *App) handleInstall(w http.ResponseWriter, r *http.Request) {
	shopDomain := shop.Normalize(r.URL.Query().Get("shop"))
	if shopDomain == "" {
		a.fail(w, "install", problems.E(problems.MissingParameters, "Missing ?shop=my-shop.myshopify.com"))
		return
	}
	if !shop.Valid(shopDomain) {
		a.fail(w, "install", problems.E(problems.InvalidTenant, "Invalid shop domain."))
		return
	}

	nonce, err := state.NewNonce()
	if err != nil {
		a.fail(w, "install", problems.E(problems.Unexpected, err.Error()))
		return
	}
	if err := a.states.Save(r.Context(), shopDomain, nonce, a.cfg.StateTTL); err != nil {
		a.fail(w, "install", problems.E(problems.StoreFailure, err.Error()))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     shop.StateCookieName(shopDomain),
		Value:    nonce,
		Path:     "/",
		MaxAge:   int(a.cfg.StateTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	q := url.Values{}
	q.Set("client_id", a.cfg.ClientID)
	q.Set("scope", a.cfg.Scopes)
	q.Set("redirect_uri", a.cfg.RedirectURI)
	q.Set("state", nonce)

	a.ok("install")
	http.Redirect(w, r, "https://"+shopDomain+"/admin/oauth/authorize?"+q.Encode(), http.StatusFound)
}
