package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleOperator.Can(CapabilityViewUsage))
	assert.False(t, RoleOperator.Can(CapabilityViewLocations))
	assert.True(t, RoleManager.Can(CapabilityViewLocations))
	assert.False(t, RoleManager.Can(CapabilityManageOperators))
	assert.True(t, RoleAdmin.Can(CapabilityManageOperators))

	assert.False(t, Role("guest").Valid())
	assert.False(t, Role("guest").Can(CapabilityViewUsage))
}
