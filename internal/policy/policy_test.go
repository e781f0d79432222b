package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wardstock/pkg/domain"
)

func TestCanPerformActionMatrix(t *testing.T) {
	cases := []struct {
		role    domain.Role
		action  Action
		allowed bool
	}{
		{domain.RoleNurse, ActionReadItem, true},
		{domain.RoleNurse, ActionCreateItem, false},
		{domain.RoleNurse, ActionUpdateItem, true},
		{domain.RoleNurse, ActionDeleteItem, false},
		{domain.RoleNurse, ActionReadLog, true},
		{domain.RoleNurse, ActionCreateLog, true},
		{domain.RoleNurse, ActionUpdateLog, true},

		{domain.RoleManager, ActionCreateItem, true},
		{domain.RoleManager, ActionUpdateItem, true},
		{domain.RoleManager, ActionDeleteItem, false},
		{domain.RoleManager, ActionReadLog, true},

		{domain.RoleDirector, ActionCreateItem, true},
		{domain.RoleDirector, ActionDeleteItem, true},
		{domain.RoleDirector, ActionUpdateLog, true},
	}
	for _, tc := range cases {
		t.Run(string(tc.role)+"/"+string(tc.action), func(t *testing.T) {
			d := CanPerform(tc.role, tc.action)
			assert.Equal(t, tc.allowed, d.Allowed)
			if !tc.allowed {
				assert.Equal(t, DeniedInsufficientRole, d.Reason)
			}
		})
	}
}

func TestCanPerformDeletesOnlyForDirectors(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleNurse, domain.RoleManager, "janitor", ""} {
		assert.False(t, CanPerform(role, ActionDeleteItem).Allowed, "role %q", role)
	}
}

func TestCanPerformUnknownRoleOrAction(t *testing.T) {
	for _, a := range allActions {
		assert.False(t, CanPerform("janitor", a).Allowed)
		assert.False(t, CanPerform("", a).Allowed)
	}
	assert.False(t, CanPerform(domain.RoleDirector, Action("drop_table")).Allowed)
}

func TestCanPerformUpdateFields(t *testing.T) {
	t.Run("nurse may change quantity", func(t *testing.T) {
		assert.True(t, CanPerform(domain.RoleNurse, ActionUpdateItem, FieldQuantity).Allowed)
	})

	t.Run("nurse may not change the name", func(t *testing.T) {
		d := CanPerform(domain.RoleNurse, ActionUpdateItem, FieldItemName, FieldQuantity)
		assert.False(t, d.Allowed)
		assert.Equal(t, "Nurses can only update quantity", d.Reason)
	})

	t.Run("managers and directors may change both", func(t *testing.T) {
		for _, role := range []domain.Role{domain.RoleManager, domain.RoleDirector} {
			assert.True(t, CanPerform(role, ActionUpdateItem, FieldItemName, FieldQuantity).Allowed)
		}
	})

	t.Run("fields are ignored for other actions", func(t *testing.T) {
		assert.True(t, CanPerform(domain.RoleNurse, ActionReadItem, FieldItemName).Allowed)
	})
}

func TestUpdatableFieldsReturnsCopy(t *testing.T) {
	fields := UpdatableFields(domain.RoleNurse)
	fields[0] = FieldItemName
	assert.Equal(t, []Field{FieldQuantity}, UpdatableFields(domain.RoleNurse))
	assert.Nil(t, UpdatableFields("janitor"))
}
