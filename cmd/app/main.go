package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"wellpath-backend-V2.0/cmd/app/internal/controller"
	"wellpath-backend-V2.0/internal/cache"
	"wellpath-backend-V2.0/internal/catalog"
	"wellpath-backend-V2.0/internal/config"
	"wellpath-backend-V2.0/internal/db"
	"wellpath-backend-V2.0/internal/events"
	"wellpath-backend-V2.0/internal/flow"
	"wellpath-backend-V2.0/internal/model"
	"wellpath-backend-V2.0/internal/repository"
	"wellpath-backend-V2.0/internal/service"
	"wellpath-backend-V2.0/pkg/middleware"
	"wellpath-backend-V2.0/utilities"
)

const version = "2.0.0-WellPath"

func main() {
	seedFlag := flag.Bool("seed", false, "seed an admin user and exit")
	flag.Parse()

	printStartUpBanner()

	// Load XML configuration from file.
	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	utilities.SetupLogging(cfg.Context.LogDir)
	utilities.SetTokenSecrets(cfg.Authentication.AccessSecret, cfg.Authentication.RefreshSecret)

	// Initialize DB using the loaded config.
	db.InitDBFromConfig(cfg)
	// Run migrations.
	if err := db.GetDB().AutoMigrate(&model.User{}, &model.Assessment{}, &model.Badge{}); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	if *seedFlag {
		runSeed()
		return
	}

	// Question catalog: file when configured, built-in otherwise.
	questionCatalog := loadCatalog(cfg)

	// Create repositories.
	userRepo := repository.NewUserRepository()
	assessmentRepo := repository.NewAssessmentRepository()
	badgeRepo := repository.NewBadgeRepository()

	// Optional infrastructure.
	trustCache := cache.NewTrustCache(cache.GetRedis())
	var producer *events.Producer
	if cfg.Kafka.Enabled {
		producer = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer func() {
		_ = producer.Close()
		_ = cache.CloseRedis()
	}()

	// Create services.
	authService := service.NewAuthService(userRepo)
	assessmentService := service.NewAssessmentService(assessmentRepo, userRepo, questionCatalog, trustCache, producer)
	gamificationService := service.NewGamificationService(badgeRepo, assessmentRepo, userRepo)
	reportService := service.NewReportService(assessmentRepo, userRepo, cfg.Reports.OutputDir)

	// Completion listeners.
	service.InitGamificationEventListeners(badgeRepo, assessmentRepo, userRepo)
	service.InitReportEventListeners(assessmentRepo, userRepo, cfg.Reports.OutputDir)

	// Initialize Gin router.
	r := gin.Default()

	// CORS configuration.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}
	r.Use(utilities.AuthMiddleware())

	loginLimiter := utilities.NewLoginRateLimiter(
		cfg.Authentication.LoginRatePerSec,
		cfg.Authentication.LoginBurst,
	)

	controller.RegisterRoutes(r, version, questionCatalog,
		authService, assessmentService, gamificationService, reportService,
		trustCache, loginLimiter)

	// Start server on the host and port specified in the XML config.
	addr := fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port)
	utilities.Info("WellPath API listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func loadCatalog(cfg *config.APIConfig) *flow.Catalog {
	if cfg.Assessment.CatalogPath != "" {
		loaded, err := catalog.LoadFile(cfg.Assessment.CatalogPath)
		if err != nil {
			log.Fatalf("failed to load catalog %s: %v", cfg.Assessment.CatalogPath, err)
		}
		utilities.Info("Loaded question catalog %q from %s", loaded.Name, cfg.Assessment.CatalogPath)
		return loaded
	}
	return catalog.Default()
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("WELLPATH", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("WELLPATH API (v%s)\n\n", version)
}
