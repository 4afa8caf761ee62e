package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// Source names the layer that decided a permission.
type Source string

const (
	// SourceNone means no layer granted the permission and it was denied by default.
	SourceNone Source = "none"
	// SourceDefault means the role default decided.
	SourceDefault Source = "default"
	// SourceCompany means a company customization decided.
	SourceCompany Source = "company"
	// SourceUser means a user override decided.
	SourceUser Source = "user"
)

// Decision is the outcome of a single permission check.
type Decision struct {
	Permission   Key
	PermissionID uint
	Allowed      bool
	Source       Source
	Reason       string
}

// EffectivePermission is one entry of a member's effective permission set.
type EffectivePermission struct {
	PermissionID uint   `json:"permission_id"`
	Resource     string `json:"resource"`
	Action       string `json:"action"`
	IsGranted    bool   `json:"is_granted"`
	Source       Source `json:"source"`
}

// Resolver computes effective permissions from live state. It keeps no state of
// its own and is safe for concurrent use.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver reading from store.
func NewResolver(store Store) (*Resolver, error) {
	if store == nil {
		return nil, ErrStoreNil
	}

	return &Resolver{store: store}, nil
}

// HasPermission reports whether the user may perform action on resource within the company.
// Missing rows deny; on an infrastructure error the answer is false together with the error.
func (r *Resolver) HasPermission(ctx context.Context, userID uint64, companyID uint, resource, action string) (bool, error) {
	d, err := r.Explain(ctx, userID, companyID, resource, action)
	if err != nil {
		return false, err
	}

	return d.Allowed, nil
}

// HasAnyPermission checks if the user holds at least one of the given permissions.
func (r *Resolver) HasAnyPermission(ctx context.Context, userID uint64, companyID uint, keys ...Key) (bool, error) {
	for _, k := range keys {
		has, err := r.HasPermission(ctx, userID, companyID, k.Resource, k.Action)
		if err != nil {
			return false, err
		}

		if has {
			return true, nil
		}
	}

	return false, nil
}

// HasAllPermissions checks if the user holds every one of the given permissions.
func (r *Resolver) HasAllPermissions(ctx context.Context, userID uint64, companyID uint, keys ...Key) (bool, error) {
	for _, k := range keys {
		has, err := r.HasPermission(ctx, userID, companyID, k.Resource, k.Action)
		if err != nil {
			return false, err
		}

		if !has {
			return false, nil
		}
	}

	return true, nil
}

// Explain resolves a permission and reports which layer decided it.
func (r *Resolver) Explain(ctx context.Context, userID uint64, companyID uint, resource, action string) (Decision, error) {
	d := Decision{Permission: Key{Resource: resource, Action: action}, Source: SourceNone}

	uc, err := r.store.Memberships().GetByUserCompany(ctx, userID, companyID)
	if errors.Is(err, ErrNotFound) {
		d.Reason = "user is not a member of the company"
		observeDecision(d)

		return d, nil
	}

	if err != nil {
		return d, fmt.Errorf("failed to load membership: %w", err)
	}

	perm, err := r.store.Permissions().GetByResourceAction(ctx, resource, action)
	if errors.Is(err, ErrNotFound) {
		d.Reason = "unknown permission"
		observeDecision(d)

		return d, nil
	}

	if err != nil {
		return d, fmt.Errorf("failed to load permission: %w", err)
	}

	d, err = r.decide(ctx, uc, perm.ID)
	if err != nil {
		return d, err
	}

	d.Permission = Key{Resource: resource, Action: action}
	observeDecision(d)

	return d, nil
}

// decide walks the override chain for a known membership and permission:
// user override, then company customization, then role default.
func (r *Resolver) decide(ctx context.Context, uc *models.UserCompany, permissionID uint) (Decision, error) {
	d := Decision{PermissionID: permissionID, Source: SourceNone}

	if !uc.IsActive {
		d.Reason = "membership is inactive"
		return d, nil
	}

	override, err := r.store.UserOverrides().Get(ctx, uc.ID, permissionID)
	switch {
	case err == nil:
		d.Allowed = override.GrantType.Granted()
		d.Source = SourceUser
		d.Reason = "user override: " + string(override.GrantType)

		return d, nil
	case !errors.Is(err, ErrNotFound):
		return d, fmt.Errorf("failed to load user override: %w", err)
	}

	role, err := r.store.Roles().Get(ctx, uc.RoleID)
	if errors.Is(err, ErrNotFound) {
		d.Reason = "assigned role does not exist"
		return d, nil
	}

	if err != nil {
		return d, fmt.Errorf("failed to load role: %w", err)
	}

	if !role.VisibleTo(uc.CompanyID) {
		d.Reason = "assigned role belongs to another company"
		return d, nil
	}

	if !role.IsActive {
		d.Reason = "assigned role is inactive"
		return d, nil
	}

	granted, source, err := r.roleValue(ctx, uc.CompanyID, role.ID, permissionID)
	if err != nil {
		return d, err
	}

	d.Allowed = granted
	d.Source = source

	switch source {
	case SourceCompany:
		d.Reason = "company customization"
	case SourceDefault:
		d.Reason = "role default"
	default:
		d.Reason = "not granted"
	}

	return d, nil
}

// roleValue is the configured role level value: the company customization if one
// exists, else the role default. It ignores whether the role is active.
func (r *Resolver) roleValue(ctx context.Context, companyID, roleID, permissionID uint) (bool, Source, error) {
	crp, err := r.store.CompanyRolePermissions().Get(ctx, companyID, roleID, permissionID)
	switch {
	case err == nil:
		return crp.IsGranted, SourceCompany, nil
	case !errors.Is(err, ErrNotFound):
		return false, SourceNone, fmt.Errorf("failed to load company customization: %w", err)
	}

	ok, err := r.store.RolePermissions().Exists(ctx, roleID, permissionID)
	if err != nil {
		return false, SourceNone, fmt.Errorf("failed to load role default: %w", err)
	}

	if ok {
		return true, SourceDefault, nil
	}

	return false, SourceNone, nil
}

// GetEffectivePermissions returns one entry per catalogued permission for the member,
// sorted like the permission catalog in the store. Non-members get every entry denied.
func (r *Resolver) GetEffectivePermissions(ctx context.Context, userID uint64, companyID uint) ([]EffectivePermission, error) {
	perms, err := r.store.Permissions().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	result := make([]EffectivePermission, len(perms))
	for i, p := range perms {
		result[i] = EffectivePermission{
			PermissionID: p.ID,
			Resource:     p.Resource,
			Action:       p.Action,
			Source:       SourceNone,
		}
	}

	uc, err := r.store.Memberships().GetByUserCompany(ctx, userID, companyID)
	if errors.Is(err, ErrNotFound) {
		return result, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}

	if !uc.IsActive {
		return result, nil
	}

	overrides, err := r.store.UserOverrides().ListByMembership(ctx, uc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user overrides: %w", err)
	}

	byPermission := make(map[uint]models.GrantType, len(overrides))
	for _, o := range overrides {
		byPermission[o.PermissionID] = o.GrantType
	}

	customized := map[uint]bool{}
	defaults := map[uint]bool{}

	role, err := r.store.Roles().Get(ctx, uc.RoleID)

	switch {
	case err == nil && role.IsActive:
		crps, err := r.store.CompanyRolePermissions().ListByRole(ctx, companyID, role.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list company customizations: %w", err)
		}

		for _, crp := range crps {
			customized[crp.PermissionID] = crp.IsGranted
		}

		ids, err := r.store.RolePermissions().PermissionIDs(ctx, role.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list role defaults: %w", err)
		}

		for _, id := range ids {
			defaults[id] = true
		}
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("failed to load role: %w", err)
	}

	for i := range result {
		id := result[i].PermissionID

		if gt, ok := byPermission[id]; ok {
			result[i].IsGranted = gt.Granted()
			result[i].Source = SourceUser

			continue
		}

		if granted, ok := customized[id]; ok {
			result[i].IsGranted = granted
			result[i].Source = SourceCompany

			continue
		}

		if defaults[id] {
			result[i].IsGranted = true
			result[i].Source = SourceDefault
		}
	}

	return result, nil
}
