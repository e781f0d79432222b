// Package policy is the single table deciding which role may perform which
// inventory and audit-log action, down to the fields of an item update.
//
// Decisions are pure: no I/O, no clock. Unknown roles and unknown actions are
// always denied.
package policy

import (
	"strings"

	"wardstock/pkg/domain"
)

// Action is an operation subject to authorization.
type Action string

const (
	ActionReadItem   Action = "read_item"
	ActionCreateItem Action = "create_item"
	ActionUpdateItem Action = "update_item"
	ActionDeleteItem Action = "delete_item"
	ActionReadLog    Action = "read_log"
	ActionCreateLog  Action = "create_log"
	ActionUpdateLog  Action = "update_log"
)

// Field is an inventory item attribute an update may change.
type Field string

const (
	FieldItemName Field = "item_name"
	FieldQuantity Field = "quantity"
)

// DeniedInsufficientRole is the reason given when the role lacks the action.
const DeniedInsufficientRole = "Access denied: insufficient permissions"

// Decision is the outcome of a policy check. Reason is client-safe and only
// set on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

var allActions = []Action{
	ActionReadItem, ActionCreateItem, ActionUpdateItem, ActionDeleteItem,
	ActionReadLog, ActionCreateLog, ActionUpdateLog,
}

// roleActions maps each role to the actions it may perform.
var roleActions = map[domain.Role][]Action{
	domain.RoleNurse: {
		ActionReadItem, ActionUpdateItem,
		ActionReadLog, ActionCreateLog, ActionUpdateLog,
	},
	domain.RoleManager: {
		ActionReadItem, ActionCreateItem, ActionUpdateItem,
		ActionReadLog, ActionCreateLog, ActionUpdateLog,
	},
	domain.RoleDirector: allActions,
}

// updatableFields lists the item fields each role may change on update.
var updatableFields = map[domain.Role][]Field{
	domain.RoleNurse:    {FieldQuantity},
	domain.RoleManager:  {FieldItemName, FieldQuantity},
	domain.RoleDirector: {FieldItemName, FieldQuantity},
}

// CanPerform decides whether role may perform action. For ActionUpdateItem,
// fields names the attributes the request would actually change; every one
// must be updatable by the role. fields is ignored for other actions.
func CanPerform(role domain.Role, action Action, fields ...Field) Decision {
	if !contains(roleActions[role], action) {
		return deny(DeniedInsufficientRole)
	}
	if action != ActionUpdateItem {
		return Decision{Allowed: true}
	}

	allowed := updatableFields[role]
	for _, f := range fields {
		if !contains(allowed, f) {
			return deny(fieldReason(role, allowed))
		}
	}
	return Decision{Allowed: true}
}

// UpdatableFields returns a copy of the fields role may change. Nil for
// unknown roles.
func UpdatableFields(role domain.Role) []Field {
	fields := updatableFields[role]
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// fieldReason renders e.g. "Nurses can only update quantity".
func fieldReason(role domain.Role, allowed []Field) string {
	names := make([]string, len(allowed))
	for i, f := range allowed {
		names[i] = string(f)
	}
	r := string(role)
	if r == "" {
		return DeniedInsufficientRole
	}
	return strings.ToUpper(r[:1]) + r[1:] + "s can only update " + strings.Join(names, " and ")
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

func contains[T comparable](xs []T, x T) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
