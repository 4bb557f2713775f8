package domain

// Permission is a resource:action capability checked independently of role identity.
type Permission string

const (
	PermissionUserCreate Permission = "user:create"
	PermissionUserRead   Permission = "user:read"
	PermissionUserUpdate Permission = "user:update"
	PermissionUserDelete Permission = "user:delete"
)

// RolePermissions is the static table mapping each role to the permissions it grants.
// The authz resolver caches entries from this table; it is never mutated at runtime.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionUserCreate,
		PermissionUserRead,
		PermissionUserUpdate,
		PermissionUserDelete,
	},
	RoleUser:     {PermissionUserRead},
	RoleCustomer: {PermissionUserRead},
}
