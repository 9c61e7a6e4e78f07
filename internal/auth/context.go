package auth

import (
	"context"

	"github.com/tripforge/marketplace-api/internal/domain"
)

// AgentContext holds authenticated agent information
type AgentContext struct {
	// AgentID is the stable subject identifier from the identity provider
	AgentID     string
	DisplayName string
	Email       string
	Roles       []domain.AgentRoleType
}

type contextKey string

const agentContextKey contextKey = "agentContext"

// WithAgentContext adds agent context to the context
func WithAgentContext(ctx context.Context, agent *AgentContext) context.Context {
	return context.WithValue(ctx, agentContextKey, agent)
}

// FromContext extracts agent context from the context
func FromContext(ctx context.Context) (*AgentContext, bool) {
	agent, ok := ctx.Value(agentContextKey).(*AgentContext)
	return agent, ok
}

// MustFromContext extracts agent context or panics
func MustFromContext(ctx context.Context) *AgentContext {
	agent, ok := FromContext(ctx)
	if !ok {
		panic("agent context not found in context")
	}
	return agent
}

// HasRole checks if the agent has a specific role
func (a *AgentContext) HasRole(role domain.AgentRoleType) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if the agent has any of the specified roles
func (a *AgentContext) HasAnyRole(roles ...domain.AgentRoleType) bool {
	for _, role := range roles {
		if a.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin checks if the agent has unrestricted access
func (a *AgentContext) IsAdmin() bool {
	return a.HasAnyRole(domain.RoleAdmin, domain.RoleAPIService)
}

// CanAccessItinerary checks if the agent may read or mutate an itinerary
// owned by ownerID. Admins and system callers may access any itinerary.
func (a *AgentContext) CanAccessItinerary(ownerID string) bool {
	if a.IsAdmin() {
		return true
	}
	return a.AgentID == ownerID
}

// RolesAsStrings returns roles as a slice of strings
func (a *AgentContext) RolesAsStrings() []string {
	result := make([]string, len(a.Roles))
	for i, role := range a.Roles {
		result[i] = string(role)
	}
	return result
}
