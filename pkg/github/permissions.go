package github

import "strings"

// Permission is a repository role. Roles are ordered; each implies the
// capabilities of every role below it.
type Permission string

const (
	PermissionPull     Permission = "pull"
	PermissionTriage   Permission = "triage"
	PermissionPush     Permission = "push"
	PermissionMaintain Permission = "maintain"
	PermissionAdmin    Permission = "admin"
)

var permissionOrder = []Permission{
	PermissionPull,
	PermissionTriage,
	PermissionPush,
	PermissionMaintain,
	PermissionAdmin,
}

var permissionAliases = map[string]Permission{
	"read":  PermissionPull,
	"write": PermissionPush,
}

// ParsePermission normalizes a role name, resolving the read and write aliases.
func ParsePermission(s string) (Permission, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if p, ok := permissionAliases[s]; ok {
		return p, true
	}
	for _, p := range permissionOrder {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// PermissionsMap is the flag view of a role, as GitHub reports it on collaborators.
type PermissionsMap struct {
	Pull     bool `json:"pull"`
	Triage   bool `json:"triage"`
	Push     bool `json:"push"`
	Maintain bool `json:"maintain"`
	Admin    bool `json:"admin"`
}

// PermissionsFor returns the flags implied by p.
func PermissionsFor(p Permission) PermissionsMap {
	var m PermissionsMap
	for _, level := range permissionOrder {
		m.set(level)
		if level == p {
			return m
		}
	}
	return PermissionsMap{}
}

// PermissionsFromFlags converts GitHub's permissions object.
func PermissionsFromFlags(flags map[string]bool) PermissionsMap {
	var m PermissionsMap
	for _, level := range permissionOrder {
		if flags[string(level)] {
			m.set(level)
		}
	}
	return m
}

// Role returns the highest role whose flag is set, or "" when none is.
func (m PermissionsMap) Role() Permission {
	var role Permission
	for _, level := range permissionOrder {
		if m.has(level) {
			role = level
		}
	}
	return role
}

func (m *PermissionsMap) set(p Permission) {
	switch p {
	case PermissionPull:
		m.Pull = true
	case PermissionTriage:
		m.Triage = true
	case PermissionPush:
		m.Push = true
	case PermissionMaintain:
		m.Maintain = true
	case PermissionAdmin:
		m.Admin = true
	}
}

func (m PermissionsMap) has(p Permission) bool {
	switch p {
	case PermissionPull:
		return m.Pull
	case PermissionTriage:
		return m.Triage
	case PermissionPush:
		return m.Push
	case PermissionMaintain:
		return m.Maintain
	case PermissionAdmin:
		return m.Admin
	}
	return false
}
