package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dreschagin/marine-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// authCookieMaxAge - срок жизни cookie сессии дашборда, 12 часов
const authCookieMaxAge = 12 * 60 * 60

// AuthAPIHandler обменивает токен на HttpOnly cookie для страниц и WebSocket
type AuthAPIHandler struct {
	authConfig middleware.AuthConfig
	logger     *logger.Logger
}

type authLoginRequest struct {
	Token string `json:"token"`
}

func NewAuthAPIHandler(authConfig middleware.AuthConfig, log *logger.Logger) *AuthAPIHandler {
	return &AuthAPIHandler{
		authConfig: authConfig,
		logger:     log,
	}
}

func (h *AuthAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	if !h.authConfig.Enabled {
		middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "auth_enabled": false})
		return
	}

	defer r.Body.Close()
	var req authLoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	token := strings.TrimSpace(req.Token)
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.authConfig.BearerToken)) != 1 {
		h.logger.Warn("Auth login failed", "remote_addr", r.RemoteAddr)
		if h.authConfig.OnFailure != nil {
			h.authConfig.OnFailure()
		}
		middleware.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
		return
	}

	middleware.WriteAuthCookie(w, token, r.TLS != nil, authCookieMaxAge)
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "auth_enabled": true})
}

func (h *AuthAPIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	middleware.ClearAuthCookie(w, r.TLS != nil)
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AuthAPIHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	_, cookieErr := r.Cookie(middleware.AuthCookieName)
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"auth_enabled":   h.authConfig.Enabled,
		"authenticated":  middleware.ValidateRequestAuth(r, h.authConfig) == nil,
		"cookie_present": cookieErr == nil,
	})
}
