package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"deck-stats-system/handlers"
	"deck-stats-system/middleware"
	"deck-stats-system/models"
	"deck-stats-system/services"
	"deck-stats-system/stats"
	"deck-stats-system/utils"
	"deck-stats-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Role, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Environment{},
		&models.Deck{},
		&models.MatchType{},
		&models.MatchTypeMember{},
		&models.MatchResult{},
		&models.DeckMatchupPrior{},
		&models.WinRateSnapshot{},
		&models.MirroredUser{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Exports are optional: without R2 credentials the endpoint reports the
	// client as unconfigured instead of the service refusing to boot.
	r2Enabled := os.Getenv("CLOUDFLARE_ACCOUNT_ID") != ""
	if r2Enabled {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
	} else {
		log.Println("⚠️  CLOUDFLARE_ACCOUNT_ID not set — CSV exports disabled")
	}

	presets, err := stats.ParsePhasePresets(os.Getenv("WIN_RATE_PHASE_PRESETS"))
	if err != nil {
		log.Fatal("invalid WIN_RATE_PHASE_PRESETS:", err)
	}

	environmentService := services.NewEnvironmentService(db)
	deckService := services.NewDeckService(db)
	matchTypeService := services.NewMatchTypeService(db)
	matchResultService := services.NewMatchResultService(db)
	priorService := services.NewPriorService(db)
	statisticsService := services.NewStatisticsService(db)
	winRateService := services.NewWinRateService(db, presets)
	exportService := services.NewExportService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// User roster mirror — optional, only when an auth service is wired up
	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	serviceToken := os.Getenv("STATS_SERVICE_TOKEN")
	if authServiceURL != "" {
		syncWorker := workers.NewUserSyncWorker(db, authServiceURL, "/api/v1/public/profiles", serviceToken)
		syncWorker.Start(ctx)
	} else {
		log.Println("⚠️  AUTH_SERVICE_URL not set — user mirror sync disabled")
	}

	winRateService.StartSnapshotScheduler()

	handlers.SetupCatalogRoutes(app, environmentService, deckService, matchTypeService)
	handlers.SetupMatchResultRoutes(app, matchResultService)
	handlers.SetupStatisticsRoutes(app, statisticsService, winRateService, priorService, exportService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
