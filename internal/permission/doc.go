// Package permission implements the company scoped role/permission model of the
// workforce application.
//
// # Layers
//
// A permission is a (resource, action) pair. Whether a member of a company holds it
// is decided by three layers, highest first:
//   - UserPermissionOverride: grant or revoke for one membership
//   - CompanyRolePermission: the company's customization of a role
//   - RolePermission: the role default
//
// Anything not granted by a layer is denied, and so is everything for users without an
// active membership in the company.
//
// # Writes
//
// Service exposes the provisioner (CreateDefaultRoles), the company customization
// engine (UpdateRolePermission, ResetRolePermissions, ApplyPermissionTemplate) and the
// user override engine (UpdateUserPermissionOverride). Every write runs in a
// transaction together with its PermissionChangeLog entry, and every write first asks
// the Resolver whether the caller holds the manage capability in the company.
//
// Expected refusals come back in Result.Err wrapping ErrNotFound, ErrUnauthorized,
// ErrConflict or ErrValidation; the returned error is reserved for the store failing.
//
// Example usage:
//
//	store, err := repository.New(db)
//	svc, err := permission.NewService(store)
//
//	res, err := svc.UpdateRolePermission(ctx, permission.RolePermissionChange{
//	    CompanyID: companyID, RoleID: workerID, PermissionID: approveID,
//	    IsGranted: true, ChangedBy: adminID,
//	})
//
//	allowed, err := svc.HasPermission(ctx, userID, companyID, "work_hours", "approve")
package permission
