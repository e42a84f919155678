package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"mapmyissues/config"
	"mapmyissues/controllers"
	db "mapmyissues/database"
	"mapmyissues/gcs"
	"mapmyissues/jobs"
	"mapmyissues/logger"
	middlewares "mapmyissues/middleware"
	"mapmyissues/routes"
	"mapmyissues/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}
	logger.Init(cfg.IsProduction(), log.Fields{
		"service": "mapmyissues",
		"env":     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, db.Config{
		URI:  cfg.MongoURI,
		Name: cfg.MongoDatabase,
	})
	if err != nil {
		log.Fatalf("db.Connect: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Disconnect(shutdownCtx); err != nil {
			log.Errorf("database.Disconnect: %v", err)
		}
	}()

	uploader, err := gcs.NewUploader(ctx, gcs.Config{
		Bucket:          cfg.GCSBucket,
		CredentialsFile: cfg.GCSCredentials,
	})
	if err != nil {
		log.Fatalf("gcs.NewUploader: %v", err)
	}
	defer uploader.Close()

	issues := services.NewIssueService(
		services.IssueConfig{DuplicateThreshold: cfg.DuplicateRadius},
		services.IssueDependencies{Issues: database, Votes: database},
	)
	sessions := services.NewSessionService(
		services.SessionConfig{TTL: cfg.SessionTTL},
		services.SessionDependencies{Logs: database, Auth: database},
	)
	feed := services.NewFeed(database, issues)

	sweep, err := jobs.NewSessionSweep(cfg.SweepSchedule, sessions)
	if err != nil {
		log.Fatalf("jobs.NewSessionSweep: %v", err)
	}
	sweep.Start()
	defer sweep.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger())

	secret := []byte(cfg.JWTSecret)
	routes.SetupRoutes(r, routes.Config{
		JWTSecret:   secret,
		CORSOrigins: cfg.CORSOrigins,
	}, routes.Handlers{
		Issues:  controllers.NewIssueController(issues, feed),
		Auth:    controllers.NewAuthController(sessions, secret, cfg.IsProduction()),
		Uploads: controllers.NewUploadController(uploader),
		DB:      database,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Infof("starting server on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server.ListenAndServe: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server.Shutdown: %v", err)
	}
}
