package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/taskboard/backend/internal/config"
	"github.com/taskboard/backend/internal/core/services"
	"github.com/taskboard/backend/internal/infrastructure/db"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"github.com/taskboard/backend/internal/transport/http/handlers"
	httpmw "github.com/taskboard/backend/internal/transport/http/middleware"
	"gorm.io/gorm"
)

type RouterConfig struct {
	DB     *gorm.DB
	Logger *logger.Logger
	Config *config.Config
}

// SetupRoutes wires repositories, services and handlers, and returns the
// archive service so main can run it on its own schedule.
func SetupRoutes(app *fiber.App, cfg RouterConfig) *services.ArchiveService {
	// Repositories
	taskRepo := db.NewTaskRepository(cfg.DB, cfg.Logger)
	auditRepo := db.NewAuditRepository(cfg.DB, cfg.Logger)
	userRepo := db.NewUserRepository(cfg.DB, cfg.Logger)
	locker := db.NewAdvisoryLocker(cfg.DB, cfg.Logger)

	// Runtime integration
	runtimeClient := services.NewRuntimeClient(cfg.Config.Runtime, cfg.Logger)
	correlationEngine := services.NewCorrelationEngine(cfg.Logger)
	subagentService := services.NewSubagentService(runtimeClient, correlationEngine, cfg.Logger)
	workspaceService := services.NewWorkspaceService(runtimeClient, auditRepo, cfg.Logger)
	gatewayService := services.NewGatewayService(runtimeClient, cfg.Logger)

	// Board and auth
	boardService := services.NewBoardService(services.BoardServiceConfig{
		TaskRepo: taskRepo,
		Logger:   cfg.Logger,
	})
	authService := services.NewAuthService(userRepo, cfg.Config.Auth, cfg.Logger)
	archiveService := services.NewArchiveService(taskRepo, locker, cfg.Logger,
		cfg.Config.Features.ArchiveRetention, cfg.Config.Features.ArchiveInterval)

	// Handlers
	taskHandler := handlers.NewTaskHandler(boardService, cfg.Logger)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, cfg.Logger)
	agentHandler := handlers.NewAgentHandler(subagentService, gatewayService, cfg.Logger)
	auditHandler := handlers.NewAuditHandler(auditRepo)
	authHandler := handlers.NewAuthHandler(authService, cfg.Logger)
	streamHandler := handlers.NewAgentStreamHandler(subagentService, cfg.Logger)

	userAuth := httpmw.UserAuth(authService)

	// Websocket upgrade gate
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws/agents/events", websocket.New(streamHandler.Handle))

	// API v1 routes
	api := app.Group("/api/v1")

	api.Post("/auth/login", authHandler.Login)

	// Task routes
	tasks := api.Group("/tasks", userAuth)
	tasks.Post("/", taskHandler.CreateTask)
	tasks.Get("/", taskHandler.GetTasks)
	tasks.Get("/:id", taskHandler.GetTask)
	tasks.Patch("/:id", taskHandler.UpdateTask)
	tasks.Delete("/:id", taskHandler.DeleteTask)
	tasks.Post("/:id/move", taskHandler.MoveTask)
	tasks.Post("/:id/comments", taskHandler.AddComment)
	tasks.Post("/:id/dependencies", taskHandler.AddDependency)
	tasks.Delete("/:id/dependencies/:depId", taskHandler.RemoveDependency)

	// Agent runtime routes
	agents := api.Group("/agents", userAuth)
	agents.Get("/subagents", agentHandler.GetSubagentStatus)
	agents.Get("/sessions", agentHandler.GetSessions)
	agents.Get("/cron", agentHandler.GetCronJobs)

	// Workspace routes
	workspace := api.Group("/workspace", userAuth)
	workspace.Get("/files", workspaceHandler.ListFiles)
	workspace.Get("/files/content", workspaceHandler.ReadFile)
	workspace.Post("/files", workspaceHandler.CreateFile)
	workspace.Put("/files", workspaceHandler.UpdateFile)

	// Audit routes
	audit := api.Group("/audit", userAuth)
	audit.Get("/", auditHandler.GetEvents)

	return archiveService
}
