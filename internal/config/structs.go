package config

import (
	"github.com/fieldcrew/crewaccess/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Policy    Policy
}

// Webserver implements webserver settings.
type Webserver struct {
	Port           int    // listening port
	ShutDownTime   int    // seconds to wait for open requests on shutdown
	DisableRecover bool   // disable recover middleware
	CallerHeader   string // request header carrying the acting user id
}

// Policy configures the permission core.
type Policy struct {
	// RequireReason rejects mutations that do not carry a reason.
	RequireReason bool

	// ManageResource and ManageAction form the permission needed to change
	// role customizations, overrides and templates.
	ManageResource string
	ManageAction   string

	// MembersResource and MembersAction form the permission needed to assign roles.
	MembersResource string
	MembersAction   string
}
