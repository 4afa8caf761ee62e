package permission

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// RolePermissionChange asks to grant or revoke a permission for a role within a company.
type RolePermissionChange struct {
	CompanyID    uint   `validate:"required"`
	RoleID       uint   `validate:"required"`
	PermissionID uint   `validate:"required"`
	IsGranted    bool
	ChangedBy    uint64 `validate:"required"`
	Reason       string `validate:"max=500"`
}

// UpdateRolePermission sets whether the role grants the permission within the company.
// The customization and its change log entry are written in one transaction.
func (s *Service) UpdateRolePermission(ctx context.Context, change RolePermissionChange) (res Result, err error) {
	defer func() { observeMutation("update_role_permission", res, err) }()

	if res = s.check(change, change.Reason, true); !res.OK() {
		return res, nil
	}

	if res, err = s.authorize(ctx, change.ChangedBy, change.CompanyID, s.policy.Manage); err != nil || !res.OK() {
		return res, err
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		id, err := s.updateRolePermission(ctx, tx, change, "")
		if err != nil {
			return err
		}

		res.Changes = []uint{id}

		return nil
	})
	if err != nil {
		return refusal(err)
	}

	log.Info().
		Uint("company_id", change.CompanyID).
		Uint("role_id", change.RoleID).
		Uint("permission_id", change.PermissionID).
		Bool("is_granted", change.IsGranted).
		Uint64("changed_by", change.ChangedBy).
		Msg("role permission customized")

	return res, nil
}

// updateRolePermission performs the write inside an open transaction and returns
// the id of the change log entry.
func (s *Service) updateRolePermission(ctx context.Context, tx Store, change RolePermissionChange, batchID string) (uint, error) {
	company, err := tx.Companies().Get(ctx, change.CompanyID)
	if err != nil {
		return 0, err
	}

	if _, err = visibleRole(ctx, tx, company.ID, change.RoleID); err != nil {
		return 0, err
	}

	perm, err := tx.Permissions().Get(ctx, change.PermissionID)
	if err != nil {
		return 0, err
	}

	resolver := &Resolver{store: tx}

	previous, _, err := resolver.roleValue(ctx, company.ID, change.RoleID, perm.ID)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()

	if err = tx.CompanyRolePermissions().Upsert(ctx, &models.CompanyRolePermission{
		CompanyID:    company.ID,
		RoleID:       change.RoleID,
		PermissionID: perm.ID,
		IsGranted:    change.IsGranted,
		CustomizedBy: change.ChangedBy,
		CustomizedAt: now,
		Notes:        change.Reason,
	}); err != nil {
		return 0, fmt.Errorf("failed to store company customization: %w", err)
	}

	roleID := change.RoleID

	return s.record(ctx, tx, &models.PermissionChangeLog{
		CompanyID:     company.ID,
		Scope:         models.ChangeScopeRole,
		RoleID:        &roleID,
		PermissionID:  perm.ID,
		Action:        actionFor(change.IsGranted),
		PreviousState: previous,
		NewState:      change.IsGranted,
		ChangedBy:     change.ChangedBy,
		Reason:        change.Reason,
		BatchID:       batchID,
		CreatedAt:     now,
	})
}

// ResetRolePermissions removes every customization of the role within the company so
// that the role defaults apply again. One reset entry is logged per removed row.
// Resetting a role without customizations succeeds and logs nothing.
func (s *Service) ResetRolePermissions(ctx context.Context, companyID, roleID uint, resetBy uint64) (res Result, err error) {
	defer func() { observeMutation("reset_role_permissions", res, err) }()

	if companyID == 0 || roleID == 0 || resetBy == 0 {
		return failure(ErrValidation, "company, role and caller are required"), nil
	}

	if res, err = s.authorize(ctx, resetBy, companyID, s.policy.Manage); err != nil || !res.OK() {
		return res, err
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		if _, err := tx.Companies().Get(ctx, companyID); err != nil {
			return err
		}

		if _, err := visibleRole(ctx, tx, companyID, roleID); err != nil {
			return err
		}

		crps, err := tx.CompanyRolePermissions().ListByRole(ctx, companyID, roleID)
		if err != nil {
			return fmt.Errorf("failed to list company customizations: %w", err)
		}

		if len(crps) == 0 {
			return nil
		}

		batchID := uuid.NewString()
		now := s.now().UTC()

		for _, crp := range crps {
			def, err := tx.RolePermissions().Exists(ctx, roleID, crp.PermissionID)
			if err != nil {
				return fmt.Errorf("failed to load role default: %w", err)
			}

			rid := roleID

			id, err := s.record(ctx, tx, &models.PermissionChangeLog{
				CompanyID:     companyID,
				Scope:         models.ChangeScopeRole,
				RoleID:        &rid,
				PermissionID:  crp.PermissionID,
				Action:        models.ChangeActionReset,
				PreviousState: crp.IsGranted,
				NewState:      def,
				ChangedBy:     resetBy,
				Reason:        "reset to role defaults",
				BatchID:       batchID,
				CreatedAt:     now,
			})
			if err != nil {
				return err
			}

			res.Changes = append(res.Changes, id)
		}

		if _, err = tx.CompanyRolePermissions().DeleteByRole(ctx, companyID, roleID); err != nil {
			return fmt.Errorf("failed to remove company customizations: %w", err)
		}

		return nil
	})
	if err != nil {
		return refusal(err)
	}

	log.Info().
		Uint("company_id", companyID).
		Uint("role_id", roleID).
		Int("reset", len(res.Changes)).
		Uint64("reset_by", resetBy).
		Msg("role permissions reset to defaults")

	return res, nil
}

// ApplyPermissionTemplate writes every item of the template as a customization of the
// role within the company. Items are applied all or nothing.
func (s *Service) ApplyPermissionTemplate(ctx context.Context, templateID, companyID, roleID uint, appliedBy uint64) (res Result, err error) {
	defer func() { observeMutation("apply_permission_template", res, err) }()

	if templateID == 0 || companyID == 0 || roleID == 0 || appliedBy == 0 {
		return failure(ErrValidation, "template, company, role and caller are required"), nil
	}

	if res, err = s.authorize(ctx, appliedBy, companyID, s.policy.Manage); err != nil || !res.OK() {
		return res, err
	}

	var changes []uint

	err = s.store.Transaction(ctx, func(tx Store) error {
		tpl, err := tx.Templates().Get(ctx, templateID)
		if err != nil {
			return err
		}

		if tpl.CompanyID != nil && *tpl.CompanyID != companyID {
			return fmt.Errorf("%w: template %d does not belong to company %d", ErrNotFound, templateID, companyID)
		}

		if !tpl.IsActive {
			return fmt.Errorf("%w: template %d is inactive", ErrValidation, templateID)
		}

		batchID := uuid.NewString()

		for _, item := range tpl.Items {
			id, err := s.updateRolePermission(ctx, tx, RolePermissionChange{
				CompanyID:    companyID,
				RoleID:       roleID,
				PermissionID: item.PermissionID,
				IsGranted:    item.IsGranted,
				ChangedBy:    appliedBy,
				Reason:       "applied template " + tpl.Name,
			}, batchID)
			if err != nil {
				return fmt.Errorf("template item %d: %w", item.ID, err)
			}

			changes = append(changes, id)
		}

		return nil
	})
	if err != nil {
		return refusal(err)
	}

	res.Changes = changes

	log.Info().
		Uint("template_id", templateID).
		Uint("company_id", companyID).
		Uint("role_id", roleID).
		Int("items", len(changes)).
		Uint64("applied_by", appliedBy).
		Msg("permission template applied")

	return res, nil
}
