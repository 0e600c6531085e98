package operator

import (
	"time"

	"github.com/google/uuid"
)

// Operator is a person allowed to run usage reports.
type Operator struct {
	ID             uuid.UUID
	Username       string
	DisplayName    string
	PasswordHashed string
	Role           Role
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Role groups a set of capabilities.
type Role string

const (
	RoleOperator Role = "operator"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Capability is a single permission checked before an action runs.
type Capability string

const (
	CapabilityViewUsage       Capability = "view_usage"
	CapabilityViewLocations   Capability = "view_locations"
	CapabilityManageOperators Capability = "manage_operators"
)

var roleCapabilities = map[Role][]Capability{
	RoleOperator: {CapabilityViewUsage},
	RoleManager:  {CapabilityViewUsage, CapabilityViewLocations},
	RoleAdmin:    {CapabilityViewUsage, CapabilityViewLocations, CapabilityManageOperators},
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role grants capability.
func (r Role) Can(capability Capability) bool {
	for _, c := range roleCapabilities[r] {
		if c == capability {
			return true
		}
	}
	return false
}

// Capabilities lists what the role grants.
func (r Role) Capabilities() []Capability {
	return append([]Capability(nil), roleCapabilities[r]...)
}
