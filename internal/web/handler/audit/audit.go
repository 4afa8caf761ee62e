// Package audit provides the JSON handler listing the permission change log of a company.
package audit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fieldcrew/crewaccess/internal/config"
	"github.com/fieldcrew/crewaccess/internal/db/models"
	"github.com/fieldcrew/crewaccess/internal/permission"
	"github.com/fieldcrew/crewaccess/internal/web/handler"
	"github.com/fieldcrew/crewaccess/internal/web/middleware/auth"
)

const (
	// Path lists the change log of a company.
	Path = handler.CompanyPath + "/permission-changes"

	// DefaultLimit is used when the request has no limit.
	DefaultLimit = 100

	// MaxLimit caps the limit query parameter.
	MaxLimit = 1000
)

// Service provides the change log handler.
type Service struct {
	handler.Service
	cfg *config.Config
	svc *permission.Service
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

	app.Get(Path,
		auth.RequirePermission(svc, permission.ResourcePermissions, permission.ActionView),
		s.List,
	)
}

// Change is one change log entry.
type Change struct {
	ID            uint                `json:"id"`
	Scope         models.ChangeScope  `json:"scope"`
	RoleID        *uint               `json:"role_id,omitempty"`
	UserCompanyID *uint               `json:"membership_id,omitempty"`
	PermissionID  uint                `json:"permission_id"`
	Action        models.ChangeAction `json:"action"`
	PreviousState bool                `json:"previous_state"`
	NewState      bool                `json:"new_state"`
	ChangedBy     uint64              `json:"changed_by"`
	Reason        string              `json:"reason,omitempty"`
	BatchID       string              `json:"batch_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ListResponse is a page of change log entries, newest first.
type ListResponse struct {
	Changes []Change `json:"changes"`
}

// List returns the change log of the company. The role, membership, permission
// and batch query parameters narrow the listing.
func (s *Service) List(c *fiber.Ctx) error {
	companyID, err := handler.ParamID(c, "company")
	if err != nil {
		return err
	}

	filter := permission.ChangeFilter{
		CompanyID: companyID,
		BatchID:   c.Query("batch"),
		Limit:     c.QueryInt("limit", DefaultLimit),
	}

	if filter.Limit < 1 || filter.Limit > MaxLimit {
		filter.Limit = DefaultLimit
	}

	for name, target := range map[string]*uint{
		"role":       &filter.RoleID,
		"membership": &filter.UserCompanyID,
		"permission": &filter.PermissionID,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}

		id, errParse := strconv.ParseUint(raw, 10, 0)
		if errParse != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid "+name+" filter")
		}

		*target = uint(id)
	}

	entries, err := s.svc.AuditLog().History(c.UserContext(), filter)
	if err != nil {
		return handler.Failure(c, err)
	}

	changes := make([]Change, len(entries))
	for i, e := range entries {
		changes[i] = Change{
			ID:            e.ID,
			Scope:         e.Scope,
			RoleID:        e.RoleID,
			UserCompanyID: e.UserCompanyID,
			PermissionID:  e.PermissionID,
			Action:        e.Action,
			PreviousState: e.PreviousState,
			NewState:      e.NewState,
			ChangedBy:     e.ChangedBy,
			Reason:        e.Reason,
			BatchID:       e.BatchID,
			CreatedAt:     e.CreatedAt,
		}
	}

	return c.JSON(ListResponse{Changes: changes})
}
