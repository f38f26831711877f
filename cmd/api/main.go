package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mercado/internal/cache"
	"mercado/internal/config"
	"mercado/internal/database"
	"mercado/internal/messaging"
	"mercado/internal/middleware"
	"mercado/internal/modules/health"
	"mercado/internal/modules/listings"
	"mercado/internal/modules/publish"
	"mercado/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	repo, err := buildRepository(cfg)
	if err != nil {
		log.Fatal(err)
	}

	publisher := buildPublisher(cfg)
	defer publisher.Close()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.CORS(cfg.CORSOrigins))

	health.NewHandler(cfg.ServiceName).RegisterRoutes(r)

	v1 := r.Group("/v1")
	protected := r.Group("/v1")
	protected.Use(middleware.RequireAuth(repo))

	listings.NewHandler(repo).RegisterRoutes(v1, protected)
	publish.NewHandler(repo, publisher).RegisterRoutes(v1)

	log.Printf("%s listening on %s (repository=%s)", cfg.ServiceName, cfg.Addr(), cfg.Repository)
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal(err)
	}
}

func buildRepository(cfg *config.Config) (repository.ListingRepository, error) {
	var repo repository.ListingRepository

	switch cfg.Repository {
	case config.RepositoryPostgres:
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repo = repository.NewGormListingRepository(db)
	default:
		repo = repository.NewFixtureRepository()
	}

	if cfg.RedisAddr != "" {
		store, err := cache.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		repo = cache.NewCachedListingRepository(repo, store)
		log.Println("cache: redis enabled at", cfg.RedisAddr)
	}

	return repo, nil
}

func buildPublisher(cfg *config.Config) messaging.JobPublisher {
	if cfg.NATSURL == "" {
		return messaging.LogPublisher{}
	}
	publisher, err := messaging.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		log.Fatal("messaging: NATS connect failed: ", err)
	}
	log.Println("messaging: NATS handoff enabled at", cfg.NATSURL)
	return publisher
}
