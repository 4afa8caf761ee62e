package permission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fieldcrew/crewaccess/internal/db/models"
)

// Policy holds the tunable rules of the mutation engines.
type Policy struct {
	// RequireReason refuses role customizations and user overrides without a reason.
	RequireReason bool
	// Manage is the capability a caller needs to change permissions in a company.
	Manage Key
	// ManageMembers is the capability a caller needs to assign roles to members.
	ManageMembers Key
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		Manage:        Key{Resource: ResourcePermissions, Action: ActionManage},
		ManageMembers: Key{Resource: ResourceUsers, Action: ActionManage},
	}
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy replaces the default policy. Empty capabilities keep their defaults.
func WithPolicy(p Policy) Option {
	return func(s *Service) {
		def := DefaultPolicy()
		if p.Manage.Resource == "" || p.Manage.Action == "" {
			p.Manage = def.Manage
		}

		if p.ManageMembers.Resource == "" || p.ManageMembers.Action == "" {
			p.ManageMembers = def.ManageMembers
		}

		s.policy = p
	}
}

// WithClock replaces time.Now, used for customized_at and change log timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service bundles the provisioner, the customization and override engines, the
// resolver and the audit log on top of one Store.
type Service struct {
	*Resolver

	store    Store
	audit    *AuditLog
	validate *validator.Validate
	policy   Policy
	now      func() time.Time
}

// NewService creates a permission service.
func NewService(store Store, opts ...Option) (*Service, error) {
	resolver, err := NewResolver(store)
	if err != nil {
		return nil, err
	}

	s := &Service{
		Resolver: resolver,
		store:    store,
		audit:    NewAuditLog(store.ChangeLog()),
		validate: validator.New(),
		policy:   DefaultPolicy(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.audit.now = s.now

	return s, nil
}

// Policy returns the active policy.
func (s *Service) Policy() Policy {
	return s.policy
}

// AuditLog returns the change audit log.
func (s *Service) AuditLog() *AuditLog {
	return s.audit
}

// authorize checks that caller holds capability in the company, using the resolver.
// A refusal comes back as a failed Result.
func (s *Service) authorize(ctx context.Context, callerID uint64, companyID uint, capability Key) (Result, error) {
	allowed, err := s.HasPermission(ctx, callerID, companyID, capability.Resource, capability.Action)
	if err != nil {
		return Result{}, fmt.Errorf("failed to authorize caller: %w", err)
	}

	if !allowed {
		return failure(ErrUnauthorized, "user %d lacks %s in company %d", callerID, capability, companyID), nil
	}

	return Result{}, nil
}

// check validates a request struct and the reason policy.
func (s *Service) check(req any, reason string, reasonRequired bool) Result {
	if err := s.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return failure(ErrValidation, "%v", err)
		}

		messages := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			messages[i] = "field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
		}

		return failure(ErrValidation, "%s", strings.Join(messages, ", "))
	}

	if reasonRequired && s.policy.RequireReason && strings.TrimSpace(reason) == "" {
		return failure(ErrValidation, "a reason is required")
	}

	return Result{}
}

// record writes one change log entry through the transaction's store.
func (s *Service) record(ctx context.Context, tx Store, entry *models.PermissionChangeLog) (uint, error) {
	audit := NewAuditLog(tx.ChangeLog())
	audit.now = s.now

	return audit.Record(ctx, entry)
}

// visibleRole loads a role and checks that the company may use it.
func visibleRole(ctx context.Context, tx Store, companyID, roleID uint) (*models.Role, error) {
	role, err := tx.Roles().Get(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if !role.VisibleTo(companyID) {
		return nil, fmt.Errorf("%w: role %d does not belong to company %d", ErrNotFound, roleID, companyID)
	}

	return role, nil
}
