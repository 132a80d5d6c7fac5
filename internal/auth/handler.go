package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/procureops/procurement-portal/internal/transport"
	"github.com/procureops/procurement-portal/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err)
		h.writeAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// writeAuthError maps session errors to 401, malformed requests to 400,
// everything else to 500.
func (h *Handler) writeAuthError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidCredentials:
		h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
	case ErrUserInactive:
		h.WriteError(w, http.StatusUnauthorized, "user is inactive")
	case ErrInvalidToken, ErrTokenExpired:
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
	default:
		if _, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.Logger.Error("token refresh failed", "error", err)
		h.writeAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware enforces bearer auth on protected routes. Any session
// problem maps to 401, which the portal treats as "session expired".
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.Warn("auth middleware: missing authorization token", "path", r.URL.Path)
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err, "path", r.URL.Path)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		var uid int64
		if claims.UserID != "" {
			if parsed, perr := strconv.ParseInt(claims.UserID, 10, 64); perr == nil {
				uid = parsed
			} else {
				h.Logger.Warn("failed to parse user id from token claims", "value", claims.UserID, "error", perr)
			}
		}

		user, err := h.Service.GetUserWithPermissions(uid)
		if err != nil {
			h.Logger.Warn("auth middleware: failed to load user", "user_id", uid, "error", err)
			h.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}
