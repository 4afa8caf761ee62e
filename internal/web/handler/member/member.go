// Package member provides the JSON handlers for a member's permissions:
// effective permission listing, single checks, user overrides and role assignment.
package member

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fieldcrew/crewaccess/internal/config"
	"github.com/fieldcrew/crewaccess/internal/db/models"
	"github.com/fieldcrew/crewaccess/internal/permission"
	"github.com/fieldcrew/crewaccess/internal/web/handler"
	"github.com/fieldcrew/crewaccess/internal/web/middleware/auth"
)

const (
	// Path is the base path of a member inside a company.
	Path = handler.CompanyPath + "/users/:user"

	// OverridePath is the path of one user override of a membership.
	OverridePath = handler.RootPath + "/memberships/:membership/permissions/:permission"
)

// Service provides the member handlers.
type Service struct {
	handler.Service
	cfg       *config.Config
	svc       *permission.Service
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *permission.Service) {
	if app == nil || cfg == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilACSFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.svc = svc
	s.validator = validator.New()

	// members may always look at their own permissions
	app.Get(Path+"/permissions",
		auth.RequireSelfOrPermission(svc, "user", permission.ResourcePermissions, permission.ActionView),
		s.Effective,
	)
	app.Get(Path+"/permissions/:resource/:action",
		auth.RequireSelfOrPermission(svc, "user", permission.ResourcePermissions, permission.ActionView),
		s.Check,
	)
	app.Put(Path+"/role", s.AssignRole)
	app.Put(OverridePath, s.SetOverride)
	app.Delete(OverridePath, s.ClearOverride)
}

// EffectiveResponse lists the effective permissions of a member.
type EffectiveResponse struct {
	CompanyID   uint                             `json:"company_id"`
	UserID      uint64                           `json:"user_id"`
	Permissions []permission.EffectivePermission `json:"permissions"`
}

// Effective lists every catalogued permission with its resolved value and source.
func (s *Service) Effective(c *fiber.Ctx) error {
	companyID, err := handler.ParamID(c, "company")
	if err != nil {
		return err
	}

	userID, err := handler.ParamUserID(c, "user")
	if err != nil {
		return err
	}

	perms, err := s.svc.GetEffectivePermissions(c.UserContext(), userID, companyID)
	if err != nil {
		return handler.Failure(c, err)
	}

	return c.JSON(EffectiveResponse{CompanyID: companyID, UserID: userID, Permissions: perms})
}

// CheckResponse is the outcome of a single permission check.
type CheckResponse struct {
	Resource string            `json:"resource"`
	Action   string            `json:"action"`
	Allowed  bool              `json:"allowed"`
	Source   permission.Source `json:"source"`
	Reason   string            `json:"reason,omitempty"`
}

// Check resolves one permission for a member and tells which layer decided it.
func (s *Service) Check(c *fiber.Ctx) error {
	companyID, err := handler.ParamID(c, "company")
	if err != nil {
		return err
	}

	userID, err := handler.ParamUserID(c, "user")
	if err != nil {
		return err
	}

	d, err := s.svc.Explain(c.UserContext(), userID, companyID, c.Params("resource"), c.Params("action"))
	if err != nil {
		return handler.Failure(c, err)
	}

	return c.JSON(CheckResponse{
		Resource: d.Permission.Resource,
		Action:   d.Permission.Action,
		Allowed:  d.Allowed,
		Source:   d.Source,
		Reason:   d.Reason,
	})
}

// AssignRoleRequest is the body of a role assignment.
type AssignRoleRequest struct {
	RoleID uint `json:"role_id" validate:"required"`
}

// AssignRole sets the member's role, creating the membership when needed.
func (s *Service) AssignRole(c *fiber.Ctx) error {
	companyID, err := handler.ParamID(c, "company")
	if err != nil {
		return err
	}

	userID, err := handler.ParamUserID(c, "user")
	if err != nil {
		return err
	}

	var req AssignRoleRequest
	if err = handler.ParseBody(c, s.validator, &req); err != nil {
		return err
	}

	res, err := s.svc.AssignRole(c.UserContext(), companyID, userID, req.RoleID, auth.CallerID(c))

	return handler.Mutation(c, "assign_role", res, err, fiber.StatusOK)
}

// OverrideRequest is the body of a user override write.
type OverrideRequest struct {
	GrantType models.GrantType `json:"grant_type" validate:"required,oneof=grant revoke"`
	Reason    string           `json:"reason" validate:"max=500"`
}

// SetOverride grants or revokes one permission for one membership.
func (s *Service) SetOverride(c *fiber.Ctx) error {
	var req OverrideRequest
	if err := handler.ParseBody(c, s.validator, &req); err != nil {
		return err
	}

	return s.writeOverride(c, req.GrantType, req.Reason)
}

// ClearRequest is the optional body of an override removal.
type ClearRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ClearOverride removes the override so that role level resolution applies again.
func (s *Service) ClearOverride(c *fiber.Ctx) error {
	var req ClearRequest
	if len(c.Body()) > 0 {
		if err := handler.ParseBody(c, s.validator, &req); err != nil {
			return err
		}
	}

	return s.writeOverride(c, "", req.Reason)
}

func (s *Service) writeOverride(c *fiber.Ctx, grantType models.GrantType, reason string) error {
	membershipID, err := handler.ParamID(c, "membership")
	if err != nil {
		return err
	}

	permissionID, err := handler.ParamID(c, "permission")
	if err != nil {
		return err
	}

	res, err := s.svc.UpdateUserPermissionOverride(c.UserContext(), permission.UserOverrideChange{
		UserCompanyID: membershipID,
		PermissionID:  permissionID,
		GrantType:     grantType,
		ChangedBy:     auth.CallerID(c),
		Reason:        reason,
	})

	return handler.Mutation(c, "update_user_permission_override", res, err, fiber.StatusOK)
}
