package oauthapp

import (
	"io"
	"net/http"

	"github.com/KennyDiedxD/shopify-callback/pkg/problems"
	"github.com/KennyDiedxD/shopify-callback/pkg/shop"
	"github.com/KennyDiedxD/shopify-callback/pkg/signature"
)

const uninstallTopic = "app/uninstalled"

// handleUninstalled authenticates the platform's uninstall notification and
// drops the shop's token. The signature is computed over the exact body bytes
// before any parsing. Every failure path is side-effect free, so the
// platform can retry the delivery.
func (a *App) handleUninstalled(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		a.deny(w, "webhook", problems.E(problems.MethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed)
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		a.deny(w, "webhook", problems.E(problems.Unexpected, err.Error()), http.StatusInternalServerError)
		return
	}
	if !signature.VerifyWebhook(raw, r.Header.Get("X-Shopify-Hmac-Sha256"), a.cfg.ClientSecret) {
		a.deny(w, "webhook", problems.E(problems.AuthenticityFailure, "Invalid HMAC"), http.StatusUnauthorized)
		return
	}

	topic := r.Header.Get("X-Shopify-Topic")
	shopDomain := shop.Normalize(r.Header.Get("X-Shopify-Shop-Domain"))
	if topic != uninstallTopic || shopDomain == "" {
		a.deny(w, "webhook", problems.E(problems.MalformedEvent, "Bad webhook"), http.StatusBadRequest)
		return
	}

	if err := a.tokens.Delete(r.Context(), shopDomain); err != nil {
		a.deny(w, "webhook", problems.E(problems.StoreFailure, err.Error()), http.StatusInternalServerError)
		return
	}

	a.ok("webhook")
	a.log.Infow("app uninstalled", "shop", shopDomain)
	_, _ = w.Write([]byte("ok"))
}
