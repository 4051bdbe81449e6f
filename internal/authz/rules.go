package authz

// Default route-permission policy.
var RolePermissions = map[string][]string{
	"user": {
		"quiz:view",
		"quiz:submit",
		"progress:write",
		"comprehension:view-own",
	},
	"admin": {
		"*", // everything
	},
}
