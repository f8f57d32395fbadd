package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hiredesk/hiredesk/config"
	"github.com/hiredesk/hiredesk/internal/api/handlers"
	"github.com/hiredesk/hiredesk/internal/api/middleware"
	"github.com/hiredesk/hiredesk/internal/api/routes"
	"github.com/hiredesk/hiredesk/internal/auth"
	"github.com/hiredesk/hiredesk/internal/cache"
	"github.com/hiredesk/hiredesk/internal/logger"
	mongorepo "github.com/hiredesk/hiredesk/internal/repositories/mongo"
	pgrepo "github.com/hiredesk/hiredesk/internal/repositories/postgres"
	"github.com/hiredesk/hiredesk/internal/services"
	"github.com/hiredesk/hiredesk/internal/storage"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.MigratePostgres(); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	log.Info("PostgreSQL connected")

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	log.Info("MongoDB connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	log.Info("Redis connected")

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}
	tokenTTL := 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid TOKEN_TTL: %v", err)
		}
		tokenTTL = d
	}
	tokens := auth.NewJWTManager(secret, tokenTTL)

	store, signer := newResumeStorage(log)

	userRepo := pgrepo.NewUserRepo(config.PostgresDB)
	resumeRepo := pgrepo.NewResumeFileRepo(config.PostgresDB)
	appRepo := mongorepo.NewApplicationRepo(config.MongoDatabase())

	authSvc := services.NewAuthService(userRepo, tokens)
	resumeSvc := services.NewResumeService(resumeRepo, store, signer)
	appSvc := services.NewApplicationService(appRepo, userRepo, cache.NewRedisCache(config.RedisClient))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(corsConfig()))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:         handlers.NewAuthHandler(authSvc),
		Applications: handlers.NewApplicationHandler(appSvc, resumeSvc),
		Tokens:       tokens,
		Limiter:      middleware.NewRedisLimiter(config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// newResumeStorage picks GCS when a bucket is configured, local disk
// otherwise.
func newResumeStorage(log *logrus.Logger) (storage.Uploader, storage.Signer) {
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		s, err := storage.NewGCSStore(context.Background(), bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		return s, s
	}

	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	s := storage.NewLocalStore(dir)
	return s, s
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
		cfg.AllowCredentials = true
	} else {
		cfg.AllowAllOrigins = true
	}
	return cfg
}
