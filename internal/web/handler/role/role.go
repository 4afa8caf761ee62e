// Package role provides the JSON handlers managing company roles and their
// permission customizations.
package role

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fieldcrew/crewaccess/internal/config"
	"github.com/fieldcrew/crewaccess/internal/permission"
	"github.com/fieldcrew/crewaccess/internal/web/handler"
	"github.com/fieldcrew/crewaccess/internal/web/middleware/auth"
)

const (
	// Path is the base path of the roles of a company.
	Path = handler.CompanyPath + "/roles"

	// RolePath is the path of one role.
	RolePath = Path + "/:role"
)

// Service provides the role handlers.
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

	app.Post(Path+"/defaults", s.ProvisionDefaults)
	app.Post(Path, s.Create)
	app.Delete(RolePath, s.Delete)
	app.Put(RolePath+"/active", s.SetActive)
	app.Put(RolePath+"/permissions/:permission", s.Customize)
	app.Delete(RolePath+"/permissions", s.Reset)
	app.Post(RolePath+"/templates/:template", s.ApplyTemplate)
}

// ProvisionDefaults copies the built-in roles into the company. The caller becomes
// the owner of a company that had no members yet; a company with members needs a
// caller allowed to manage its permissions.
func (s *Service) ProvisionDefaults(c *fiber.Ctx) error {
	companyID, err := handler.ParamID(c, "company")
	if err != nil {
		return err
	}

	res, err := s.svc.CreateDefaultRoles(c.UserContext(), companyID, auth.CallerID(c))

	return handler.Mutation(c, "create_default_roles", res, err, fiber.StatusOK)
}

// CreateRequest is the body of a role creation.
type CreateRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Description    string `json:"description" validate:"max=255"`
	HierarchyLevel int    `json:"hierarchy_level" validate:"gte=0"`
	Grants         []uint `json:"grants"`
}

// Create adds a company-defined role.
func (s *Service) Create(c *fiber.Ctx) error {
	companyID, err := handler.ParamID(c, "company")
	if err != nil {
		return err
	}

	var req CreateRequest
	if err = handler.ParseBody(c, s.validator, &req); err != nil {
		return err
	}

	res, err := s.svc.CreateRole(c.UserContext(), permission.RoleDefinition{
		CompanyID:      companyID,
		Name:           req.Name,
		Description:    req.Description,
		HierarchyLevel: req.HierarchyLevel,
		CreatedBy:      auth.CallerID(c),
		Grants:         req.Grants,
	})

	return handler.Mutation(c, "create_role", res, err, fiber.StatusCreated)
}

// Delete removes an unreferenced company-defined role.
func (s *Service) Delete(c *fiber.Ctx) error {
	companyID, roleID, err := companyRole(c)
	if err != nil {
		return err
	}

	res, err := s.svc.DeleteRole(c.UserContext(), companyID, roleID, auth.CallerID(c))

	return handler.Mutation(c, "delete_role", res, err, fiber.StatusOK)
}

// ActiveRequest is the body of a role activation change.
type ActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// SetActive activates or deactivates a role.
func (s *Service) SetActive(c *fiber.Ctx) error {
	companyID, roleID, err := companyRole(c)
	if err != nil {
		return err
	}

	var req ActiveRequest
	if err = handler.ParseBody(c, s.validator, &req); err != nil {
		return err
	}

	var res permission.Result
	if *req.Active {
		res, err = s.svc.ActivateRole(c.UserContext(), companyID, roleID, auth.CallerID(c))
	} else {
		res, err = s.svc.DeactivateRole(c.UserContext(), companyID, roleID, auth.CallerID(c))
	}

	return handler.Mutation(c, "set_role_active", res, err, fiber.StatusOK)
}

// CustomizeRequest is the body of a role permission customization.
type CustomizeRequest struct {
	IsGranted *bool  `json:"is_granted" validate:"required"`
	Reason    string `json:"reason" validate:"max=500"`
}

// Customize grants or revokes a permission for the role within the company.
func (s *Service) Customize(c *fiber.Ctx) error {
	companyID, roleID, err := companyRole(c)
	if err != nil {
		return err
	}

	permissionID, err := handler.ParamID(c, "permission")
	if err != nil {
		return err
	}

	var req CustomizeRequest
	if err = handler.ParseBody(c, s.validator, &req); err != nil {
		return err
	}

	res, err := s.svc.UpdateRolePermission(c.UserContext(), permission.RolePermissionChange{
		CompanyID:    companyID,
		RoleID:       roleID,
		PermissionID: permissionID,
		IsGranted:    *req.IsGranted,
		ChangedBy:    auth.CallerID(c),
		Reason:       req.Reason,
	})

	return handler.Mutation(c, "update_role_permission", res, err, fiber.StatusOK)
}

// Reset removes every customization of the role within the company.
func (s *Service) Reset(c *fiber.Ctx) error {
	companyID, roleID, err := companyRole(c)
	if err != nil {
		return err
	}

	res, err := s.svc.ResetRolePermissions(c.UserContext(), companyID, roleID, auth.CallerID(c))

	return handler.Mutation(c, "reset_role_permissions", res, err, fiber.StatusOK)
}

// ApplyTemplate writes the template's items as customizations of the role.
func (s *Service) ApplyTemplate(c *fiber.Ctx) error {
	companyID, roleID, err := companyRole(c)
	if err != nil {
		return err
	}

	templateID, err := handler.ParamID(c, "template")
	if err != nil {
		return err
	}

	res, err := s.svc.ApplyPermissionTemplate(c.UserContext(), templateID, companyID, roleID, auth.CallerID(c))

	return handler.Mutation(c, "apply_permission_template", res, err, fiber.StatusOK)
}

func companyRole(c *fiber.Ctx) (uint, uint, error) {
	companyID, err := handler.ParamID(c, "company")
	if err != nil {
		return 0, 0, err
	}

	roleID, err := handler.ParamID(c, "role")
	if err != nil {
		return 0, 0, err
	}

	return companyID, roleID, nil
}
