// Package daemon wires configuration, database, permission core and web service together.
package daemon

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/fieldcrew/crewaccess/internal/config"
	"github.com/fieldcrew/crewaccess/internal/db"
	"github.com/fieldcrew/crewaccess/internal/db/repository"
	"github.com/fieldcrew/crewaccess/internal/permission"
	"github.com/fieldcrew/crewaccess/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg         *config.Config
	db          *gorm.DB
	permissions *permission.Service
	webService  *web.Service
}

// Start serves the web API until a termination signal arrives.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go d.webService.WaitShutdown()

	log.Info().Str("addr", addr).Msg("starting web service")

	return d.webService.Start(addr)
}

// Permissions returns the permission service.
func (d *Daemon) Permissions() *permission.Service {
	return d.permissions
}

// Close releases the database connections.
func (d *Daemon) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// New opens and migrates the database and builds the permission and web services.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	gdb, svc, err := OpenServices(ctx, cfg, true)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:         cfg,
		db:          gdb,
		permissions: svc,
		webService:  web.New(cfg, svc),
	}, nil
}

// OpenServices opens the configured database and creates the permission service on top
// of it. With migrate set the schema is migrated and the catalog seeded first.
func OpenServices(ctx context.Context, cfg *config.Config, migrate bool) (*gorm.DB, *permission.Service, error) {
	if cfg == nil {
		return nil, nil, ErrConfigNil
	}

	gdb, err := db.Open(cfg.DB, cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	defer func() {
		if err == nil {
			return
		}

		if sqlDB, errDB := gdb.DB(); errDB == nil {
			_ = sqlDB.Close()
		}
	}()

	if migrate {
		if err = db.Migrate(ctx, gdb); err != nil {
			return nil, nil, err
		}
	}

	store, err := repository.New(gdb)
	if err != nil {
		return nil, nil, err
	}

	svc, err := permission.NewService(store, permission.WithPolicy(Policy(cfg.Policy)))
	if err != nil {
		return nil, nil, err
	}

	return gdb, svc, nil
}

// Policy converts the configured policy into the permission core's policy.
func Policy(p config.Policy) permission.Policy {
	return permission.Policy{
		RequireReason: p.RequireReason,
		Manage:        permission.Key{Resource: p.ManageResource, Action: p.ManageAction},
		ManageMembers: permission.Key{Resource: p.MembersResource, Action: p.MembersAction},
	}
}
