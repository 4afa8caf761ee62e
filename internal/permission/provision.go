package permission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// SeedCatalog makes sure the permission catalog and the global template roles with
// their default grants exist. It only adds what is missing and can run on every start.
func SeedCatalog(ctx context.Context, store Store) error {
	if store == nil {
		return ErrStoreNil
	}

	return store.Transaction(ctx, func(tx Store) error {
		ids := make(map[Key]uint, len(Permissions))

		for _, cp := range Permissions {
			p, err := tx.Permissions().Ensure(ctx, &models.Permission{
				Name:        cp.String(),
				Resource:    cp.Resource,
				Action:      cp.Action,
				Description: cp.Description,
			})
			if err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", cp.Key, err)
			}

			ids[cp.Key] = p.ID
		}

		for _, cr := range Roles {
			role, err := tx.Roles().GetByName(ctx, nil, cr.Name)
			if errors.Is(err, ErrNotFound) {
				role = &models.Role{
					Name:           cr.Name,
					Description:    cr.Description,
					HierarchyLevel: cr.HierarchyLevel,
					IsSystem:       true,
					IsActive:       true,
				}
				err = tx.Roles().Create(ctx, role)
			}

			if err != nil {
				return fmt.Errorf("failed to seed role %s: %w", cr.Name, err)
			}

			for _, k := range cr.Grants {
				if err = tx.RolePermissions().Add(ctx, role.ID, ids[k]); err != nil {
					return fmt.Errorf("failed to seed grant %s for role %s: %w", k, cr.Name, err)
				}
			}
		}

		return nil
	})
}

// CreateDefaultRoles copies the global system roles and their default grants into the
// company. Roles that were already provisioned are left alone; a company-defined role
// carrying a built-in name is a conflict and nothing is written.
// A company that already has members can only be provisioned by a caller holding the
// manage capability there. createdBy becomes the company owner only when the company
// had no members at all and this call created the owner role.
func (s *Service) CreateDefaultRoles(ctx context.Context, companyID uint, createdBy uint64) (res Result, err error) {
	defer func() { observeMutation("create_default_roles", res, err) }()

	if companyID == 0 {
		return failure(ErrValidation, "company is required"), nil
	}

	members, err := s.store.Memberships().CountByCompany(ctx, companyID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to count company members: %w", err)
	}

	if members > 0 {
		if res, err = s.authorize(ctx, createdBy, companyID, s.policy.Manage); err != nil || !res.OK() {
			return res, err
		}
	}

	var created int

	err = s.store.Transaction(ctx, func(tx Store) error {
		company, err := tx.Companies().Get(ctx, companyID)
		if err != nil {
			return err
		}

		if !company.IsActive {
			return fmt.Errorf("%w: company %d is inactive", ErrNotFound, companyID)
		}

		existing, err := tx.Roles().ListByCompany(ctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to list company roles: %w", err)
		}

		byName := make(map[string]models.Role, len(existing))
		for _, r := range existing {
			byName[r.Name] = r
		}

		var ownerID uint

		for _, cr := range Roles {
			if r, ok := byName[cr.Name]; ok {
				if !r.IsSystem {
					return fmt.Errorf("%w: company %d already has a custom role named %q", ErrConflict, companyID, cr.Name)
				}

				continue
			}

			global, err := tx.Roles().GetByName(ctx, nil, cr.Name)
			if err != nil {
				return fmt.Errorf("global role %q: %w", cr.Name, err)
			}

			cid := companyID
			role := &models.Role{
				CompanyID:      &cid,
				Name:           global.Name,
				Description:    global.Description,
				HierarchyLevel: global.HierarchyLevel,
				IsSystem:       true,
				IsActive:       true,
				CreatedBy:      createdBy,
			}

			if err = tx.Roles().Create(ctx, role); err != nil {
				return fmt.Errorf("failed to create role %s: %w", cr.Name, err)
			}

			grants, err := tx.RolePermissions().PermissionIDs(ctx, global.ID)
			if err != nil {
				return fmt.Errorf("failed to read defaults of role %s: %w", cr.Name, err)
			}

			for _, pid := range grants {
				if err = tx.RolePermissions().Add(ctx, role.ID, pid); err != nil {
					return fmt.Errorf("failed to copy defaults of role %s: %w", cr.Name, err)
				}
			}

			if cr.Name == RoleOwner {
				ownerID = role.ID
			}

			created++
		}

		return s.enrollOwner(ctx, tx, companyID, createdBy, ownerID)
	})
	if err != nil {
		return refusal(err)
	}

	res.ID = companyID

	log.Info().
		Uint("company_id", companyID).
		Int("created_roles", created).
		Uint64("created_by", createdBy).
		Msg("default roles provisioned")

	return res, nil
}

func (s *Service) enrollOwner(ctx context.Context, tx Store, companyID uint, userID uint64, ownerRoleID uint) error {
	if userID == 0 || ownerRoleID == 0 {
		return nil
	}

	members, err := tx.Memberships().CountByCompany(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to count company members: %w", err)
	}

	if members > 0 {
		log.Debug().Uint("company_id", companyID).Msg("company already has members, no owner membership created")
		return nil
	}

	if _, err := tx.Users().Get(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Debug().Uint64("user_id", userID).Msg("creator is not a known user, no owner membership created")
			return nil
		}

		return fmt.Errorf("failed to load creator: %w", err)
	}

	return tx.Memberships().Create(ctx, &models.UserCompany{
		UserID:    userID,
		CompanyID: companyID,
		RoleID:    ownerRoleID,
		IsActive:  true,
		JoinedAt:  s.now().UTC().Truncate(time.Second),
	})
}
