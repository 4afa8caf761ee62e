package permission

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// UserOverrideChange asks to grant, revoke or clear one permission for one membership.
// An empty GrantType clears the override.
type UserOverrideChange struct {
	UserCompanyID uint             `validate:"required"`
	PermissionID  uint             `validate:"required"`
	GrantType     models.GrantType `validate:"omitempty,oneof=grant revoke"`
	ChangedBy     uint64           `validate:"required"`
	Reason        string           `validate:"max=500"`
}

// UpdateUserPermissionOverride grants or revokes the permission for the member regardless
// of their role, or clears the override so that role level resolution applies again.
// The logged states are the member's effective values before and after the write.
func (s *Service) UpdateUserPermissionOverride(ctx context.Context, change UserOverrideChange) (res Result, err error) {
	defer func() { observeMutation("update_user_permission_override", res, err) }()

	if res = s.check(change, change.Reason, true); !res.OK() {
		return res, nil
	}

	uc, err := s.store.Memberships().Get(ctx, change.UserCompanyID)
	if err != nil {
		return refusal(err)
	}

	if res, err = s.authorize(ctx, change.ChangedBy, uc.CompanyID, s.policy.Manage); err != nil || !res.OK() {
		return res, err
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		uc, err := tx.Memberships().Get(ctx, change.UserCompanyID)
		if err != nil {
			return err
		}

		perm, err := tx.Permissions().Get(ctx, change.PermissionID)
		if err != nil {
			return err
		}

		resolver := &Resolver{store: tx}

		before, err := resolver.decide(ctx, uc, perm.ID)
		if err != nil {
			return err
		}

		action := models.ChangeActionReset
		now := s.now().UTC()

		if change.GrantType == "" {
			removed, err := tx.UserOverrides().Delete(ctx, uc.ID, perm.ID)
			if err != nil {
				return fmt.Errorf("failed to remove user override: %w", err)
			}

			if removed == 0 {
				return nil
			}
		} else {
			action = actionFor(change.GrantType.Granted())

			if err = tx.UserOverrides().Upsert(ctx, &models.UserPermissionOverride{
				UserCompanyID: uc.ID,
				PermissionID:  perm.ID,
				GrantType:     change.GrantType,
				CreatedBy:     change.ChangedBy,
				Reason:        change.Reason,
			}); err != nil {
				return fmt.Errorf("failed to store user override: %w", err)
			}
		}

		after, err := resolver.decide(ctx, uc, perm.ID)
		if err != nil {
			return err
		}

		id := uc.ID

		entryID, err := s.record(ctx, tx, &models.PermissionChangeLog{
			CompanyID:     uc.CompanyID,
			Scope:         models.ChangeScopeUser,
			UserCompanyID: &id,
			PermissionID:  perm.ID,
			Action:        action,
			PreviousState: before.Allowed,
			NewState:      after.Allowed,
			ChangedBy:     change.ChangedBy,
			Reason:        change.Reason,
			CreatedAt:     now,
		})
		if err != nil {
			return err
		}

		res.Changes = []uint{entryID}

		return nil
	})
	if err != nil {
		return refusal(err)
	}

	log.Info().
		Uint("user_company_id", change.UserCompanyID).
		Uint("permission_id", change.PermissionID).
		Str("grant_type", string(change.GrantType)).
		Uint64("changed_by", change.ChangedBy).
		Msg("user permission override updated")

	return res, nil
}
