package permission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// RoleDefinition describes a company-defined role.
type RoleDefinition struct {
	CompanyID      uint   `validate:"required"`
	Name           string `validate:"required,max=100"`
	Description    string `validate:"max=255"`
	HierarchyLevel int    `validate:"gte=0"`
	CreatedBy      uint64 `validate:"required"`
	// Grants are the ids of the permissions the role grants by default.
	Grants []uint
}

// CreateRole adds a company-defined role with its default grants.
func (s *Service) CreateRole(ctx context.Context, def RoleDefinition) (res Result, err error) {
	defer func() { observeMutation("create_role", res, err) }()

	def.Name = strings.TrimSpace(def.Name)

	if res = s.check(def, "", false); !res.OK() {
		return res, nil
	}

	if res, err = s.authorize(ctx, def.CreatedBy, def.CompanyID, s.policy.Manage); err != nil || !res.OK() {
		return res, err
	}

	var roleID uint

	err = s.store.Transaction(ctx, func(tx Store) error {
		cid := def.CompanyID

		_, err := tx.Roles().GetByName(ctx, &cid, def.Name)
		if err == nil {
			return fmt.Errorf("%w: role %q already exists in company %d", ErrConflict, def.Name, def.CompanyID)
		}

		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("failed to look up role: %w", err)
		}

		role := &models.Role{
			CompanyID:      &cid,
			Name:           def.Name,
			Description:    def.Description,
			HierarchyLevel: def.HierarchyLevel,
			IsActive:       true,
			CreatedBy:      def.CreatedBy,
		}

		if err = tx.Roles().Create(ctx, role); err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}

		for _, pid := range def.Grants {
			if _, err = tx.Permissions().Get(ctx, pid); err != nil {
				return err
			}

			if err = tx.RolePermissions().Add(ctx, role.ID, pid); err != nil {
				return fmt.Errorf("failed to add default grant: %w", err)
			}
		}

		roleID = role.ID

		return nil
	})
	if err != nil {
		return refusal(err)
	}

	log.Info().Uint("company_id", def.CompanyID).Uint("role_id", roleID).Str("name", def.Name).Msg("role created")

	return Result{ID: roleID}, nil
}

// DeactivateRole marks a company role inactive. Members keeping an inactive role are
// only granted what their user overrides grant.
func (s *Service) DeactivateRole(ctx context.Context, companyID, roleID uint, by uint64) (Result, error) {
	return s.setRoleActive(ctx, companyID, roleID, by, false)
}

// ActivateRole reverses DeactivateRole.
func (s *Service) ActivateRole(ctx context.Context, companyID, roleID uint, by uint64) (Result, error) {
	return s.setRoleActive(ctx, companyID, roleID, by, true)
}

func (s *Service) setRoleActive(ctx context.Context, companyID, roleID uint, by uint64, active bool) (res Result, err error) {
	defer func() { observeMutation("set_role_active", res, err) }()

	if res, err = s.authorize(ctx, by, companyID, s.policy.Manage); err != nil || !res.OK() {
		return res, err
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		if _, err := ownedRole(ctx, tx, companyID, roleID); err != nil {
			return err
		}

		return tx.Roles().SetActive(ctx, roleID, active)
	})
	if err != nil {
		return refusal(err)
	}

	log.Info().Uint("company_id", companyID).Uint("role_id", roleID).Bool("active", active).Msg("role activity changed")

	return Result{ID: roleID}, nil
}

// DeleteRole hard-deletes a company-defined role. System roles and roles still referenced
// by a membership, customization or template are refused; deactivate those instead.
func (s *Service) DeleteRole(ctx context.Context, companyID, roleID uint, by uint64) (res Result, err error) {
	defer func() { observeMutation("delete_role", res, err) }()

	if res, err = s.authorize(ctx, by, companyID, s.policy.Manage); err != nil || !res.OK() {
		return res, err
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		role, err := ownedRole(ctx, tx, companyID, roleID)
		if err != nil {
			return err
		}

		if role.IsSystem {
			return fmt.Errorf("%w: system role %q can only be deactivated", ErrConflict, role.Name)
		}

		refs, err := tx.Roles().References(ctx, roleID)
		if err != nil {
			return fmt.Errorf("failed to count role references: %w", err)
		}

		if refs > 0 {
			return fmt.Errorf("%w: role %q is referenced %d times", ErrConflict, role.Name, refs)
		}

		return tx.Roles().Delete(ctx, roleID)
	})
	if err != nil {
		return refusal(err)
	}

	log.Info().Uint("company_id", companyID).Uint("role_id", roleID).Uint64("deleted_by", by).Msg("role deleted")

	return Result{ID: roleID}, nil
}

// AssignRole sets the member's role in the company, creating the membership when needed.
func (s *Service) AssignRole(ctx context.Context, companyID uint, userID uint64, roleID uint, by uint64) (res Result, err error) {
	defer func() { observeMutation("assign_role", res, err) }()

	if companyID == 0 || userID == 0 || roleID == 0 {
		return failure(ErrValidation, "company, user and role are required"), nil
	}

	if res, err = s.authorize(ctx, by, companyID, s.policy.ManageMembers); err != nil || !res.OK() {
		return res, err
	}

	var membershipID uint

	err = s.store.Transaction(ctx, func(tx Store) error {
		if _, err := tx.Users().Get(ctx, userID); err != nil {
			return err
		}

		role, err := visibleRole(ctx, tx, companyID, roleID)
		if err != nil {
			return err
		}

		if !role.IsActive {
			return fmt.Errorf("%w: role %q is inactive", ErrValidation, role.Name)
		}

		uc, err := tx.Memberships().GetByUserCompany(ctx, userID, companyID)
		if err == nil {
			membershipID = uc.ID
			if uc.RoleID == roleID {
				return nil
			}

			return tx.Memberships().SetRole(ctx, uc.ID, roleID)
		}

		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("failed to load membership: %w", err)
		}

		uc = &models.UserCompany{
			UserID:    userID,
			CompanyID: companyID,
			RoleID:    roleID,
			IsActive:  true,
			JoinedAt:  s.now().UTC(),
		}

		if err = tx.Memberships().Create(ctx, uc); err != nil {
			return fmt.Errorf("failed to create membership: %w", err)
		}

		membershipID = uc.ID

		return nil
	})
	if err != nil {
		return refusal(err)
	}

	log.Info().
		Uint("company_id", companyID).
		Uint64("user_id", userID).
		Uint("role_id", roleID).
		Uint64("assigned_by", by).
		Msg("role assigned")

	return Result{ID: membershipID}, nil
}

// ownedRole loads a role that belongs to the company itself; global roles are read-only.
func ownedRole(ctx context.Context, tx Store, companyID, roleID uint) (*models.Role, error) {
	role, err := tx.Roles().Get(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if role.CompanyID == nil || *role.CompanyID != companyID {
		return nil, fmt.Errorf("%w: role %d does not belong to company %d", ErrNotFound, roleID, companyID)
	}

	return role, nil
}
