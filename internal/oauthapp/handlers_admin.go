package oauthapp

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/KennyDiedxD/shopify-callback/pkg/problems"
	"github.com/KennyDiedxD/shopify-callback/pkg/shop"
	"github.com/KennyDiedxD/shopify-callback/pkg/tokens"
)

type tokenView struct {
	Shop        string `json:"shop"`
	Scope       string `json:"scope"`
	InstalledAt int64  `json:"installed_at,omitempty"`
	Token       string `json:"token"`
}

// handleCheckToken lists stored installs for operators. Tokens render masked
// unless ?full= is set. Guarded by a shared secret; an unset secret fails
// closed rather than opening the endpoint.
func (a *App) handleCheckToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		a.deny(w, "check-token", problems.E(problems.MethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	if !a.adminAuthorized(q.Get("secret"), r.Header.Get("Authorization")) {
		flowRequests.WithLabelValues("check-token", string(problems.AuthenticityFailure)).Inc()
		writeJSON(w, map[string]any{
			"error": "Unauthorized. Provide ?secret=... or Authorization: Bearer ...",
		}, http.StatusUnauthorized)
		return
	}

	showFull := false
	switch strings.ToLower(q.Get("full")) {
	case "1", "true", "yes":
		showFull = true
	}

	recs, err := a.tokens.List(r.Context(), shop.Normalize(q.Get("shop")))
	if err != nil {
		a.deny(w, "check-token", problems.E(problems.StoreFailure, err.Error()), http.StatusInternalServerError)
		return
	}

	out := make([]tokenView, 0, len(recs))
	for _, rec := range recs {
		v := tokenView{Shop: rec.Shop, Scope: rec.Scope, Token: tokens.Mask(rec.Token)}
		if showFull {
			v.Token = rec.Token
		}
		if !rec.InstalledAt.IsZero() {
			v.InstalledAt = rec.InstalledAt.Unix()
		}
		out = append(out, v)
	}

	a.ok("check-token")
	writeJSON(w, map[string]any{"count": len(out), "shops": out}, http.StatusOK)
}

func (a *App) adminAuthorized(qsSecret, authz string) bool {
	expected := a.cfg.AdminSecret
	if expected == "" {
		return false
	}
	bearer := ""
	if strings.HasPrefix(authz, "Bearer ") {
		bearer = strings.TrimSpace(authz[len("Bearer "):])
	}
	return constantTimeEq(qsSecret, expected) || constantTimeEq(bearer, expected)
}

func constantTimeEq(a, b string) bool {
	return len(a) == len(b) && subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
