package rbac

// Route-level policy. Ownership (this faculty's exam, this student's
// results) is checked in the handlers on top of these.
var RolePermissions = map[string][]string{
	"student": {
		"exam:take",
		"result:submit",
		"result:view-own",
	},
	"faculty": {
		"exam:create",
		"exam:list-own",
		"exam:delete-own",
		"exam:toggle-own",
		"result:view-exam",
	},
}
