package user

import "time"

// GroupPermissions are the per-group capability flags, stored as a JSON
// column on the groups table.
type GroupPermissions struct {
	ModifyAccounts bool `json:"modify_accounts"`
	ManageSystem   bool `json:"manage_system"`
}

// AdminPermissions returns the flag set granted to the administrators group.
func AdminPermissions() GroupPermissions {
	return GroupPermissions{ModifyAccounts: true, ManageSystem: true}
}

// PanelUser is the full user record handlers act on: the account row joined
// with its group (permission flags) and primary email address. Hydrated per
// request; never cached across requests.
type PanelUser struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Active       bool   `json:"active"`
	BackupEmail  string `json:"backup_email,omitempty"`

	GroupID          int64            `json:"group_id"`
	GroupName        string           `json:"group_name"`
	GroupPermissions GroupPermissions `json:"group_permissions"`

	PrimaryEmail string `json:"primary_email,omitempty"`

	RequirePasswordChange bool      `json:"require_password_change"`
	CreatedAt             time.Time `json:"created"`
}
