package httpapi

import (
	"net/http"

	"polychat/internal/middleware"
	"polychat/internal/models"
	"polychat/internal/relay"
	"polychat/internal/storage"
	"polychat/internal/utils"
)

// ChatHandler serves the model catalog and the message relay endpoints.
type ChatHandler struct {
	settings storage.SettingsStore
	relay    *relay.Relay
	logger   *utils.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(settings storage.SettingsStore, chatRelay *relay.Relay, logger *utils.Logger) *ChatHandler {
	return &ChatHandler{settings: settings, relay: chatRelay, logger: logger}
}

// Models handles GET /chat/models, listing every model selectable for the
// authenticated user. No enabled providers means an empty list, not an
// error.
func (h *ChatHandler) Models(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims, ok := middleware.GetSession(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	aiModels, err := h.settings.GetUserEnabledModels(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("model listing failed", "user", claims.UserID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list models")
		return
	}
	if aiModels == nil {
		aiModels = []models.AIModel{}
	}

	utils.RespondWithData(w, http.StatusOK, aiModels)
}

type sendRequest struct {
	ProviderID string `json:"providerId"`

	// Provider is accepted as an alias for providerId.
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
	Messages []relay.Message `json:"messages"`
}

func (r *sendRequest) providerID() string {
	if r.ProviderID != "" {
		return r.ProviderID
	}
	return r.Provider
}

// Send handles POST /chat/send, relaying the conversation to the selected
// provider.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims, ok := middleware.GetSession(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req sendRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	providerID := req.providerID()
	if providerID == "" || req.Model == "" || len(req.Messages) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "providerId, model and messages are required")
		return
	}

	settings, err := h.settings.GetUserSettings(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("settings lookup failed", "user", claims.UserID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	var provider *models.ProviderConfig
	if settings != nil {
		provider = settings.Provider(providerID)
	}
	if provider == nil || !provider.Enabled || provider.APIKey == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Provider is not configured or not enabled")
		return
	}

	reply, err := h.relay.Send(r.Context(), provider, req.Model, req.Messages)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Upstream provider request failed")
		return
	}

	data := map[string]interface{}{
		"message": reply.Message,
	}
	if reply.Usage != nil {
		data["usage"] = reply.Usage
	}
	if reply.Warning != "" {
		data["warning"] = reply.Warning
	}
	utils.RespondWithData(w, http.StatusOK, data)
}
