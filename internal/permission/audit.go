package permission

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// AuditLog records every permission-affecting write. Entries capture the state before
// and after the write, so history can be read without consulting current state.
// There is no way to change or remove an entry once recorded.
type AuditLog struct {
	repo ChangeLogRepository
	now  func() time.Time
}

// NewAuditLog creates an audit log on top of the change log repository.
func NewAuditLog(repo ChangeLogRepository) *AuditLog {
	return &AuditLog{repo: repo, now: time.Now}
}

// Record appends entry and returns its id.
func (a *AuditLog) Record(ctx context.Context, entry *models.PermissionChangeLog) (uint, error) {
	if entry.ID != 0 {
		return 0, fmt.Errorf("%w: change log entries are append only", ErrValidation)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = a.now().UTC()
	}

	if err := a.repo.Append(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to record permission change: %w", err)
	}

	return entry.ID, nil
}

// History lists recorded changes, newest first.
func (a *AuditLog) History(ctx context.Context, filter ChangeFilter) ([]models.PermissionChangeLog, error) {
	entries, err := a.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list permission changes: %w", err)
	}

	return entries, nil
}

func actionFor(granted bool) models.ChangeAction {
	if granted {
		return models.ChangeActionGrant
	}

	return models.ChangeActionRevoke
}
