package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	
	"github.com/gin-gonic/gin"
	"github.com/katatrina/mentors-notifier/internal/eligibility"
	"github.com/katatrina/mentors-notifier/internal/event"
	"github.com/katatrina/mentors-notifier/internal/util"
	"github.com/katatrina/mentors-notifier/internal/worker"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/idtoken"
)

// EligibilityEvaluator decides whether a user may receive notifications at a given instant.
type EligibilityEvaluator interface {
	Evaluate(ctx context.Context, userID string, at time.Time) (eligibility.Decision, error)
}

type Server struct {
	router           *gin.Engine
	httpServer       *http.Server
	config           *util.Config
	eventHandler     event.Handler
	evaluator        EligibilityEvaluator
	taskInspector    worker.TaskInspector
	idTokenValidator *idtoken.Validator
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(config *util.Config, eventHandler event.Handler, evaluator EligibilityEvaluator, taskInspector worker.TaskInspector) (*Server, error) {
	server := &Server{
		config:        config,
		eventHandler:  eventHandler,
		evaluator:     evaluator,
		taskInspector: taskInspector,
	}
	
	if config.TriggerAudience != "" {
		// Create a new Google ID token validator for pushed trigger events
		validator, err := idtoken.NewValidator(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create google id token validator: %w", err)
		}
		server.idTokenValidator = validator
		log.Info().Str("audience", config.TriggerAudience).Msg("Trigger authentication enabled ✅")
	}
	
	server.setupRouter()
	server.httpServer = &http.Server{
		Addr:              config.HTTPServerAddress,
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), loggerMiddleware())
	
	router.GET("/healthz", server.healthCheck)
	
	v1 := router.Group("/v1")
	
	eventGroup := v1.Group("/events")
	if server.idTokenValidator != nil {
		eventGroup.Use(idTokenMiddleware(server.idTokenValidator, server.config.TriggerAudience))
	}
	eventGroup.POST("", server.handleEvent)
	
	v1.GET("/users/:id/notification-eligibility", server.getNotificationEligibility)
	
	taskGroup := v1.Group("/tasks")
	{
		taskGroup.GET(":queue/*taskID", server.getTaskInfo)
		taskGroup.DELETE(":queue/*taskID", server.deleteTask)
	}
	
	server.router = router
	return router
}

// Start runs the HTTP server on the configured address.
func (server *Server) Start() error {
	log.Info().Str("address", server.httpServer.Addr).Msg("HTTP server started ✅")
	if err := server.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (server *Server) Shutdown(ctx context.Context) error {
	return server.httpServer.Shutdown(ctx)
}

func (server *Server) healthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
