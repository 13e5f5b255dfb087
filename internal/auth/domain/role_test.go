package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for input, want := range map[string]Role{
		"Admin":         RoleAdmin,
		" fieldofficer": RoleFieldOfficer,
		"CASHIER":       RoleCashier,
		"manager":       RoleManager,
	} {
		got, err := ParseRole(input)
		assert.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParseRole("superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLanding(t *testing.T) {
	assert.Equal(t, "admin", RoleAdmin.Landing())
	assert.Equal(t, "field", RoleFieldOfficer.Landing())
	assert.Equal(t, "cashier", RoleCashier.Landing())
	assert.Equal(t, "manager", RoleManager.Landing())
	assert.Equal(t, "", Role("Other").Landing())
	assert.Len(t, Roles(), 4)
}
