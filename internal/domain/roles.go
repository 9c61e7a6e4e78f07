package domain

// AgentRoleType represents a role carried in the identity token
type AgentRoleType string

const (
	// RoleAgent is a travel agent buying leads and building itineraries
	RoleAgent AgentRoleType = "agent"
	// RoleOperator is a supplier managing packages
	RoleOperator AgentRoleType = "operator"
	// RoleAdmin has unrestricted access across agents
	RoleAdmin AgentRoleType = "admin"
	// RoleAPIService is used for system-to-system calls authenticated by API key
	RoleAPIService AgentRoleType = "api_service"
)

// IsValidAgentRole checks if a string is a known role
func IsValidAgentRole(s string) bool {
	switch AgentRoleType(s) {
	case RoleAgent, RoleOperator, RoleAdmin, RoleAPIService:
		return true
	}
	return false
}
