package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/config"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/api/handlers"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/api/middleware"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/api/routes"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/cache"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/dictation"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/events"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/gateway"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/logger"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/providers/llm"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/providers/stt"
	mongorepo "github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/repositories/mongo"
	pgrepo "github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/repositories/postgres"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/services"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/storage"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/store"
	"github.com/NagoorSaheb178/Healthcare-Doctor-Patient-Translation-Web-Application/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	ctx := context.Background()

	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	log.Info("MongoDB connected")

	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("Mongo index error")
	}

	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	log.Info("PostgreSQL connected")

	if err := config.MigratePostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL migration error")
	}

	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	log.Info("Redis connected")

	mongoDB := config.MongoDatabase()
	sessionRepo := mongorepo.NewSessionRepo(mongoDB)
	bufferRepo := mongorepo.NewBufferRepo(mongoDB)
	userRepo := pgrepo.NewUserRepo(config.PostgresDB)
	profileRepo := pgrepo.NewProfileRepo(config.PostgresDB)
	archiveRepo := pgrepo.NewArchiveRepo(config.PostgresDB)

	messageStore := store.New(cache.NewRedisCache(config.RedisClient), log)
	publisher := events.NewRedisPublisher(config.RedisClient)

	llmProvider, err := llm.NewVertexGemini(ctx,
		os.Getenv("VERTEX_PROJECT_ID"),
		os.Getenv("VERTEX_LOCATION"),
		os.Getenv("VERTEX_MODEL"),
	)
	if err != nil {
		log.WithError(err).Fatal("Vertex init error")
	}
	defer llmProvider.Close()

	var sttEngine stt.Engine
	if eng, err := stt.NewGoogleSpeech(ctx); err != nil {
		// dictation degrades to unavailable, text chat still works
		log.WithError(err).Warn("Speech init failed, dictation disabled")
	} else {
		sttEngine = eng
		defer eng.Close()
	}

	var uploader storage.Uploader
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		up, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.WithError(err).Warn("GCS init failed, audio clips disabled")
		} else {
			uploader = up
			defer up.Close()
		}
	}

	translator := gateway.NewTranslator(llmProvider, log)
	summarizer := gateway.NewSummarizer(llmProvider, log)

	archiveQueue := workers.NewRedisArchiveQueue(config.RedisClient, "")

	sessionSvc := services.NewSessionService(sessionRepo)
	bridgeSvc := services.NewBridgeService(sessionSvc, messageStore, translator, summarizer, archiveQueue, bufferRepo, publisher, log)
	authSvc := services.NewAuthService(userRepo, os.Getenv("BRIDGE_JWT_SECRET"))
	profileSvc := services.NewProfileService(profileRepo)

	archivePool := &workers.ArchiveWorkerPool{
		Redis:   config.RedisClient,
		Archive: archiveRepo,
		Logger:  log,
	}
	if err := archivePool.Start(ctx); err != nil {
		log.WithError(err).Fatal("archive worker init error")
	}

	dictManager := dictation.NewManager(dictation.Deps{
		Engine:    sttEngine,
		Uploader:  uploader,
		Buffers:   bufferRepo,
		Publisher: publisher,
		Logger:    log,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:     handlers.NewAuthHandler(authSvc),
		Language: handlers.NewLanguageHandler(),
		Session:  handlers.NewSessionHandler(sessionSvc, bridgeSvc),
		Message:  handlers.NewMessageHandler(bridgeSvc),
		Profile:  handlers.NewProfileHandler(profileSvc),
		WS:       handlers.NewWSHandler(sessionSvc, bridgeSvc, dictManager, config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
