package handler

import (
	"net/http"

	"github.com/tripforge/marketplace-api/internal/auth"
	"github.com/tripforge/marketplace-api/internal/domain"
	"go.uber.org/zap"
)

type AuthHandler struct {
	logger *zap.Logger
}

func NewAuthHandler(logger *zap.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// Me godoc
// @Summary Get current authenticated agent
// @Description Returns the calling agent with roles resolved from the token
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.AuthAgentDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	agentCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dto := domain.AuthAgentDTO{
		ID:      agentCtx.AgentID,
		Name:    agentCtx.DisplayName,
		Email:   agentCtx.Email,
		Roles:   agentCtx.RolesAsStrings(),
		IsAdmin: agentCtx.IsAdmin(),
	}

	respondJSON(w, http.StatusOK, dto)
}
