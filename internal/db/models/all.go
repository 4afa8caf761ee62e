package models

// All returns every model in migration order.
func All() []any {
	return []any{
		&Company{},
		&User{},
		&Permission{},
		&Role{},
		&RolePermission{},
		&UserCompany{},
		&CompanyRolePermission{},
		&UserPermissionOverride{},
		&PermissionTemplate{},
		&PermissionTemplateItem{},
		&PermissionChangeLog{},
	}
}
