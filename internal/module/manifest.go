// Package module implements the KickOffHub module system: a compile-time
// registry of feature modules, a shared dependency container, and the
// normalized manifest each module returns describing its routes, exposed
// services and background tasks.
//
// Modules register themselves in init() and are loaded sequentially at
// startup, one module at a time, because a module may read container
// entries registered by an earlier one. A failing module is logged and
// skipped; it never aborts startup.
package module

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/kickoffhub/kickoffhub/internal/auth"
	"github.com/kickoffhub/kickoffhub/internal/cache"
	"github.com/kickoffhub/kickoffhub/internal/config"
)

// RouteMounter attaches a module's handlers to a router group.
// Public mounters are mounted on the open API group, private ones behind
// JWT authentication.
type RouteMounter func(*gin.RouterGroup)

// Task is a background task declared by a module. With an empty Schedule
// the task runs once right after startup; otherwise Schedule is a cron
// expression.
type Task struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Manifest describes what a module provides to the application. Every
// manifest returned by Load has been normalized: all fields present,
// missing ones filled with defaults.
type Manifest struct {
	// Name identifies the module; defaults to its registration name.
	Name string
	// BasePath is the URL prefix the module's routes mount under.
	// Defaults to "/".
	BasePath string
	// Routes, PublicRoutes and PrivateRoutes are nullable route mounters.
	// Routes is mounted on the open group alongside PublicRoutes.
	Routes        RouteMounter
	PublicRoutes  RouteMounter
	PrivateRoutes RouteMounter
	// PublicAPI holds values the module exposes to other modules through
	// the container. Defaults to an empty map.
	PublicAPI map[string]any
	// Tasks are background tasks to run after startup. Defaults to an
	// empty slice.
	Tasks []Task
}

// Normalize fills missing manifest fields with their documented defaults.
// fallbackName is the module's registration name.
func (m *Manifest) Normalize(fallbackName string) *Manifest {
	if m == nil {
		m = &Manifest{}
	}
	if m.Name == "" {
		m.Name = fallbackName
	}
	if m.BasePath == "" {
		m.BasePath = "/"
	}
	if m.PublicAPI == nil {
		m.PublicAPI = map[string]any{}
	}
	if m.Tasks == nil {
		m.Tasks = []Task{}
	}
	return m
}

// Context is passed to every module's register function. Core services are
// typed fields; module-to-module sharing goes through the Container.
type Context struct {
	Config    *config.Config
	Logger    *log.Logger
	DB        *sqlx.DB
	Cache     *cache.RedisCache
	JWT       *auth.JWTManager
	Container *Container
}

// logger resolves the loader's logger: a container-registered logger wins,
// then the context logger, then the process default.
func (c *Context) logger() *log.Logger {
	if c.Container != nil {
		if v, ok := c.Container.Get(KeyLogger); ok {
			if l, ok := v.(*log.Logger); ok {
				return l
			}
		}
	}
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}
