package httpapi

import (
	"context"
	"net/http"
	"time"

	"polychat/internal/config"
	"polychat/internal/middleware"
	"polychat/internal/probe"
	"polychat/internal/relay"
	"polychat/internal/storage"
	"polychat/internal/utils"
)

// Dependencies holds the wired services the handlers use. Built once at
// startup and shared across requests.
type Dependencies struct {
	Storage *storage.Selection
	Tester  *probe.Tester
	Relay   *relay.Relay
	Logger  *utils.Logger
}

// NewRouter wires the storage backend, probe tester and chat relay, then
// registers all routes on a fresh mux.
func NewRouter(ctx context.Context, cfg *config.Config) (*http.ServeMux, *Dependencies) {
	deps := &Dependencies{
		Storage: storage.Select(ctx, cfg, utils.NewLogger("storage")),
		Tester:  probe.NewTester(cfg.Probe, utils.NewLogger("probe")),
		Relay:   relay.NewRelay(cfg.Chat, utils.NewLogger("relay")),
		Logger:  utils.NewLogger("httpapi"),
	}

	mux := http.NewServeMux()
	registerRoutes(mux, deps, cfg)

	return mux, deps
}

func registerRoutes(mux *http.ServeMux, deps *Dependencies, cfg *config.Config) {
	// Account endpoints - public
	authHandler := NewAuthHandler(deps.Storage.Users, cfg, deps.Logger)
	mux.HandleFunc("/auth/register", authHandler.Register)
	mux.HandleFunc("/auth/login", authHandler.Login)

	// Health check endpoint - public
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		if deps.Storage.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Storage.DB.Health(ctx); err != nil {
				status = "degraded"
			}
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{
			"status":  status,
			"backend": deps.Storage.Backend,
		})
	})

	session := middleware.SessionMiddleware(cfg)

	// Provider settings endpoints - protected
	settingsHandler := NewSettingsHandler(deps.Storage.Settings, deps.Tester, deps.Logger)
	mux.Handle("/settings/load", session(http.HandlerFunc(settingsHandler.Load)))
	mux.Handle("/settings/save", session(http.HandlerFunc(settingsHandler.Save)))
	mux.Handle("/settings/test-connection", session(http.HandlerFunc(settingsHandler.TestConnection)))

	// Chat endpoints - protected
	chatHandler := NewChatHandler(deps.Storage.Settings, deps.Relay, deps.Logger)
	mux.Handle("/chat/models", session(http.HandlerFunc(chatHandler.Models)))
	mux.Handle("/chat/send", session(http.HandlerFunc(chatHandler.Send)))
}
