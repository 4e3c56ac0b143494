package httpapi

import (
	"errors"
	"net/http"

	"polychat/internal/middleware"
	"polychat/internal/models"
	"polychat/internal/probe"
	"polychat/internal/storage"
	"polychat/internal/utils"
)

// SettingsHandler serves the provider settings endpoints.
type SettingsHandler struct {
	settings storage.SettingsStore
	tester   *probe.Tester
	logger   *utils.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings storage.SettingsStore, tester *probe.Tester, logger *utils.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, tester: tester, logger: logger}
}

// Load handles GET /settings/load. A user with nothing stored gets empty
// collections, never an error.
func (h *SettingsHandler) Load(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims, ok := middleware.GetSession(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	settings, err := h.settings.GetUserSettings(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("settings load failed", "user", claims.UserID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	providers := []models.ProviderConfig{}
	templates := []models.PromptTemplate{}
	if settings != nil {
		if settings.Providers != nil {
			providers = settings.Providers
		}
		if settings.PromptTemplates != nil {
			templates = settings.PromptTemplates
		}
	}

	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"providers":       providers,
		"promptTemplates": templates,
	})
}

type saveRequest struct {
	Providers       []models.ProviderConfig `json:"providers"`
	PromptTemplates []models.PromptTemplate `json:"promptTemplates"`
}

// Save handles POST /settings/save, replacing the user's settings document.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	claims, ok := middleware.GetSession(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req saveRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	settings := &models.UserSettings{
		UserID:          claims.UserID,
		Providers:       req.Providers,
		PromptTemplates: req.PromptTemplates,
	}
	if err := h.settings.SaveUserSettings(r.Context(), claims.UserID, settings); err != nil {
		h.logger.Error("settings save failed", "user", claims.UserID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Settings saved",
		"data": map[string]interface{}{
			"providersCount":       len(req.Providers),
			"promptTemplatesCount": len(req.PromptTemplates),
		},
	})
}

type testConnectionRequest struct {
	ProviderID string `json:"providerId"`
	APIKey     string `json:"apiKey"`
	BaseURL    string `json:"baseUrl"`
}

// TestConnection handles POST /settings/test-connection, probing the
// provider's model-listing endpoint with the submitted credentials.
func (h *SettingsHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req testConnectionRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := h.tester.Test(r.Context(), req.ProviderID, req.APIKey, req.BaseURL)
	if err != nil {
		if errors.Is(err, probe.ErrMissingParams) || errors.Is(err, probe.ErrUnknownProvider) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("connection test failed", "provider", req.ProviderID, "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Connection test failed")
		return
	}

	if !result.Success {
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   result.Error,
		})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"availableModels": result.AvailableModels,
		"message":         "Connection successful",
	})
}
