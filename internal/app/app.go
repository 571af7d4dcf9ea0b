// Package app wires stores, services and handlers into one gin engine.
package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"factoryfloor/internal/config"
	"factoryfloor/internal/database"
	"factoryfloor/internal/layout"
	"factoryfloor/internal/middleware"
	"factoryfloor/internal/modules/admin"
	"factoryfloor/internal/modules/auth"
	"factoryfloor/internal/modules/dashboard"
	"factoryfloor/internal/modules/floor"
	"factoryfloor/internal/modules/live"
	"factoryfloor/internal/modules/project"
	"factoryfloor/internal/modules/status"
	jwtsvc "factoryfloor/internal/pkg/jwt"
	"factoryfloor/internal/repository"
)

type App struct {
	Router *gin.Engine
	Layout *layout.Store
	Hub    *live.Hub
}

func New(cfg *config.Config, stores *database.Stores, log *zap.Logger) *App {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	workOrderRepo := repository.NewWorkOrderRepository(stores.Main)
	timeEntryRepo := repository.NewTimeEntryRepository(stores.Cas)
	notesRepo := repository.NewNotesRepository(stores.Montaza)
	dniRepo := repository.NewDniStatusRepository(stores.Montaza)
	photoRepo := repository.NewPhotoRepository(stores.Montaza)
	userRepo := repository.NewUserRepository(stores.Montaza)

	j := jwtsvc.New(cfg.SessionSecret, cfg.SessionTTL)

	layoutStore := layout.NewStore(cfg.LayoutPath, cfg.LayoutLockTimeout, log.Named("layout"))
	hub := live.NewHub(log.Named("live"))
	layoutStore.OnChange(hub.LayoutChanged)

	statusService := status.NewService(workOrderRepo, dniRepo, timeEntryRepo, cfg.WorkCenter, log.Named("status"))
	floorService := floor.NewService(layoutStore, statusService, workOrderRepo, log.Named("floor"))
	dashboardService := dashboard.NewService(layoutStore, statusService, notesRepo, photoRepo, log.Named("dashboard"))
	projectService := project.NewService(floorService, notesRepo, dniRepo, photoRepo, workOrderRepo, statusService,
		project.Config{
			UploadsDir:     cfg.UploadsDir,
			MaxUploadBytes: cfg.MaxUploadBytes,
			WorkCenter:     cfg.WorkCenter,
		}, log.Named("project"))
	authService := auth.NewService(userRepo, j, log.Named("auth"))
	adminService := admin.NewService(userRepo, log.Named("admin"))

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(middleware.ErrorLogger(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.Port, cfg.CORSAllowedOrigins))
	r.Use(middleware.SessionAuth(j))

	pages := newPages(cfg.AppRoot, cfg.UploadsDir)
	pages.register(r)

	api := r.Group("/api")
	authed := api.Group("", middleware.RequireLogin())
	adminOnly := api.Group("", middleware.AdminOnly())

	auth.NewHandler(authService, auth.CookieConfig{TTL: cfg.SessionTTL, Secure: cfg.CookieSecure}).
		RegisterRoutes(api, authed)
	dashboard.NewHandler(dashboardService).RegisterRoutes(api, authed)
	floor.NewHandler(floorService).RegisterRoutes(authed, adminOnly)
	project.NewHandler(projectService).RegisterRoutes(api, authed, adminOnly)
	admin.NewHandler(adminService).RegisterRoutes(adminOnly)
	live.NewHandler(hub, cfg.CORSAllowedOrigins, log.Named("live")).RegisterRoutes(authed)
	authed.GET("/get_image", pages.image)

	return &App{Router: r, Layout: layoutStore, Hub: hub}
}
