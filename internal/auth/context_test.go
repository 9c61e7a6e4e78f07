package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripforge/marketplace-api/internal/auth"
	"github.com/tripforge/marketplace-api/internal/domain"
)

func TestAgentContextRoundTrip(t *testing.T) {
	agent := &auth.AgentContext{
		AgentID:     "agent-1",
		DisplayName: "Ana",
		Email:       "ana@example.com",
		Roles:       []domain.AgentRoleType{domain.RoleAgent},
	}

	ctx := auth.WithAgentContext(context.Background(), agent)

	got, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, agent, got)

	_, ok = auth.FromContext(context.Background())
	assert.False(t, ok)
}

func TestAgentContext_Roles(t *testing.T) {
	agent := &auth.AgentContext{
		AgentID: "agent-1",
		Roles:   []domain.AgentRoleType{domain.RoleAgent, domain.RoleOperator},
	}

	assert.True(t, agent.HasRole(domain.RoleAgent))
	assert.False(t, agent.HasRole(domain.RoleAdmin))
	assert.True(t, agent.HasAnyRole(domain.RoleAdmin, domain.RoleOperator))
	assert.False(t, agent.HasAnyRole(domain.RoleAdmin, domain.RoleAPIService))
	assert.Equal(t, []string{"agent", "operator"}, agent.RolesAsStrings())
}

func TestAgentContext_IsAdmin(t *testing.T) {
	tests := []struct {
		name  string
		roles []domain.AgentRoleType
		admin bool
	}{
		{name: "agent only", roles: []domain.AgentRoleType{domain.RoleAgent}, admin: false},
		{name: "operator only", roles: []domain.AgentRoleType{domain.RoleOperator}, admin: false},
		{name: "admin", roles: []domain.AgentRoleType{domain.RoleAdmin}, admin: true},
		{name: "api service", roles: []domain.AgentRoleType{domain.RoleAPIService}, admin: true},
		{name: "no roles", roles: nil, admin: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := &auth.AgentContext{AgentID: "a", Roles: tt.roles}
			assert.Equal(t, tt.admin, agent.IsAdmin())
		})
	}
}

func TestAgentContext_CanAccessItinerary(t *testing.T) {
	owner := &auth.AgentContext{AgentID: "agent-1", Roles: []domain.AgentRoleType{domain.RoleAgent}}
	other := &auth.AgentContext{AgentID: "agent-2", Roles: []domain.AgentRoleType{domain.RoleAgent}}
	admin := &auth.AgentContext{AgentID: "admin-1", Roles: []domain.AgentRoleType{domain.RoleAdmin}}

	assert.True(t, owner.CanAccessItinerary("agent-1"))
	assert.False(t, other.CanAccessItinerary("agent-1"))
	assert.True(t, admin.CanAccessItinerary("agent-1"))
}
