package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/annazecevic/catalog-service/config"
	"github.com/annazecevic/catalog-service/handler"
	"github.com/annazecevic/catalog-service/hdfs"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/repository"
	"github.com/annazecevic/catalog-service/service"
	"github.com/annazecevic/catalog-service/utils"
	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(logger.Config{
		ServiceName: "catalog-service",
		Environment: cfg.Environment,
		LogFilePath: cfg.LogFilePath,
		HMACKey:     cfg.LogHMACKey,
		MaxSizeMB:   cfg.LogMaxSizeMB,
		MaxBackups:  cfg.LogMaxBackups,
		MaxAgeDays:  cfg.LogMaxAgeDays,
	})

	logger.Info(logger.EventServiceStartup, "Catalog service starting", logger.Fields(
		"port", cfg.ServerPort,
		"environment", cfg.Environment,
	))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal(logger.EventDBError, "Failed to connect to MongoDB", logger.Fields("error", err.Error()))
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal(logger.EventDBError, "Failed to ping MongoDB", logger.Fields("error", err.Error()))
	}
	defer client.Disconnect(context.Background())
	logger.Info(logger.EventDBConnection, "Connected to MongoDB successfully", logger.Fields("database", cfg.MongoDatabase))

	cluster := gocql.NewCluster(cfg.CassandraHosts...)
	cluster.Keyspace = cfg.CassandraKeyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 10 * time.Second
	cluster.ConnectTimeout = 10 * time.Second

	session, err := cluster.CreateSession()
	if err != nil {
		logger.Fatal(logger.EventDBError, "Failed to connect to Cassandra", logger.Fields("error", err.Error()))
	}
	defer session.Close()
	logger.Info(logger.EventDBConnection, "Connected to Cassandra successfully", nil)

	notificationRepo := repository.NewNotificationRepository(session)
	if err := notificationRepo.EnsureSchema(ctx); err != nil {
		logger.Fatal(logger.EventDBError, "Failed to prepare notifications table", logger.Fields("error", err.Error()))
	}

	covers, err := hdfs.ConnectWithRetry(cfg.HDFSNamenode, 10, 5*time.Second)
	if err != nil {
		logger.Fatal(logger.EventStorageError, "Failed to connect to HDFS", logger.Fields("error", err.Error()))
	}
	defer covers.Close()
	if err := covers.EnsureBaseDir(); err != nil {
		logger.Fatal(logger.EventStorageError, "Failed to prepare cover directory", logger.Fields("error", err.Error()))
	}
	logger.Info(logger.EventDBConnection, "Connected to HDFS successfully", logger.Fields("namenode", cfg.HDFSNamenode))

	var emailService utils.EmailService
	if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		logger.Warn(logger.EventGeneral, "SMTP credentials missing, e-mails will only be logged", nil)
		emailService = utils.NewMockEmailService()
	} else {
		emailService = utils.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.AppURL)
	}

	catalogRepo := repository.NewCatalogRepository(client, client.Database(cfg.MongoDatabase))
	notifier := service.NewNotifier(notificationRepo, emailService)
	rollups := service.NewRollupEngine(catalogRepo)
	statsService := service.NewStatsService(catalogRepo, notifier)

	singleHandler := handler.NewSingleHandler(service.NewSingleService(catalogRepo, rollups, statsService, notifier))
	albumHandler := handler.NewAlbumHandler(service.NewAlbumService(catalogRepo, rollups))
	artistHandler := handler.NewArtistHandler(service.NewArtistService(catalogRepo))
	genreHandler := handler.NewGenreHandler(service.NewGenreService(catalogRepo))
	statsHandler := handler.NewStatsHandler(statsService)
	notificationHandler := handler.NewNotificationHandler(service.NewNotificationService(notificationRepo))
	coverHandler := handler.NewCoverHandler(covers, cfg.AppURL)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ipLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	callerLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	ipLimiter.StartCleanup(cleanupCtx, time.Minute, 10*time.Minute)
	callerLimiter.StartCleanup(cleanupCtx, time.Minute, 10*time.Minute)

	router := gin.Default()
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.ValidateRequest())
	router.Use(ipLimiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "catalog-service"})
	})

	auth := middleware.AuthMiddleware(cfg.JWTSecret, callerLimiter)
	api := router.Group("/api/v1")
	artistHandler.RegisterRoutes(api)
	genreHandler.RegisterRoutes(api, auth)
	singleHandler.RegisterRoutes(api, auth)
	albumHandler.RegisterRoutes(api, auth)
	statsHandler.RegisterRoutes(api, auth)
	notificationHandler.RegisterRoutes(api, auth)
	coverHandler.RegisterRoutes(api, auth)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info(logger.EventServiceStartup, "Server starting", logger.Fields("address", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal(logger.EventGeneral, "Failed to start server", logger.Fields("error", err.Error()))
	}
}
