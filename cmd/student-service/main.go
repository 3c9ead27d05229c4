package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/student-service/api/swagger"
	"github.com/noah-isme/student-service/internal/client"
	"github.com/noah-isme/student-service/internal/handler"
	internalmiddleware "github.com/noah-isme/student-service/internal/middleware"
	"github.com/noah-isme/student-service/internal/repository"
	"github.com/noah-isme/student-service/internal/service"
	"github.com/noah-isme/student-service/pkg/config"
	"github.com/noah-isme/student-service/pkg/database"
	"github.com/noah-isme/student-service/pkg/logger"
	corsmiddleware "github.com/noah-isme/student-service/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-service/pkg/middleware/requestid"
	"github.com/noah-isme/student-service/pkg/validation"
)

// @title Student Service API
// @version 1.0.0
// @description Students and groups of the school administration platform
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(context.Background(), cfg.Database, logr)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
		if err := metrics.RegisterDBStats(db.DB, cfg.Database.Name); err != nil {
			logr.Warn("failed to register database metrics", zap.Error(err))
		}
	}

	students := repository.NewStudentRepository(db)
	groups := repository.NewGroupRepository(db)
	tx := database.NewTransactor(db)

	programs := client.NewProgramClient(cfg.Peers, metrics, logr)
	professors := client.NewProfessorClient(cfg.Peers, metrics, logr)
	divisions := client.NewDivisionClient(cfg.Peers, metrics, logr)

	validate := validation.New()
	views := service.NewViewAssembler(groups, programs, professors, metrics, logr)
	studentSvc := service.NewStudentService(students, groups, programs, views, tx, validate, logr)
	groupSvc := service.NewGroupService(groups, students, programs, professors, views, tx, validate, logr)

	probes := []handler.PeerProbe{
		{Name: client.ProgramServiceName, Check: func(ctx context.Context) error {
			_, err := programs.ListActive(ctx)
			return err
		}},
		{Name: client.ProfessorServiceName, Check: func(ctx context.Context) error {
			_, err := professors.List(ctx)
			return err
		}},
		{Name: client.DivisionServiceName, Check: func(ctx context.Context) error {
			_, err := divisions.ListActive(ctx)
			return err
		}},
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", cfg.Metrics.Path))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics, cfg.Metrics.Path))

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	handler.RegisterOperational(r, handler.NewMetricsHandler(metrics, db, probes, logr), metricsPath)
	handler.RegisterRoutes(r.Group(cfg.APIPrefix),
		handler.NewStudentHandler(studentSvc),
		handler.NewGroupHandler(groupSvc, studentSvc),
	)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
