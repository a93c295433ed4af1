package oauthapp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/KennyDiedxD/shopify-callback/pkg/config"
	"github.com/KennyDiedxD/shopify-callback/pkg/problems"
	"github.com/KennyDiedxD/shopify-callback/pkg/state"
	"github.com/KennyDiedxD/shopify-callback/pkg/tokens"
)

// App is the OAuth application container. Handlers are methods on this type.
//
// Keep it lean: shared deps and config only. Request-scoped work should use
// context.
type App struct {
	log    *zap.SugaredLogger
	cfg    config.Config
	states state.Store
	tokens tokens.Store
	exch   *exchanger
}

// New constructs App with its verification collaborators.
func New(log *zap.SugaredLogger, cfg config.Config, states state.Store, toks tokens.Store) *App {
	return &App{
		log:    log,
		cfg:    cfg,
		states: states,
		tokens: toks,
		exch:   newExchanger(cfg),
	}
}

// Routes mounts the install flow endpoints under /api, mirroring the paths
// the platform app is registered with.
func (a *App) Routes(r chi.Router) {
	r.Route("/api", func(api chi.Router) {
		api.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("pong")) })
		api.Get("/install", a.handleInstall)
		api.Get("/callback", a.handleCallback)
		api.HandleFunc("/webhooks/uninstalled", a.handleUninstalled)
		api.HandleFunc("/check-token", a.handleCheckToken)
	})
}

// deny writes a failure response with an explicit status and counts it.
func (a *App) deny(w http.ResponseWriter, endpoint string, perr *problems.Error, status int) {
	flowRequests.WithLabelValues(endpoint, string(perr.Kind)).Inc()
	msg := perr.Msg
	if status >= 500 {
		// Internal detail stays in logs.
		a.log.Errorw("flow failure", "endpoint", endpoint, "kind", perr.Kind, "err", perr.Msg)
		msg = "internal error"
	}
	http.Error(w, msg, status)
}

// fail writes a failure response using the taxonomy's default status.
func (a *App) fail(w http.ResponseWriter, endpoint string, perr *problems.Error) {
	a.deny(w, endpoint, perr, perr.Kind.Status())
}

func (a *App) ok(endpoint string) {
	flowRequests.WithLabelValues(endpoint, "ok").Inc()
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
