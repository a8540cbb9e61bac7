package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"respondent": {
		"catalog:view",
		"session:create",
		"session:answer",
		"session:finalize",
		"result:view-own",
	},
	"staff": {
		"catalog:view",
		"catalog:edit",
		"profile:edit",
		"session:create",
		"session:answer",
		"session:finalize",
		"result:view-all",
	},
	"admin": {
		"*", // everything
	},
}
