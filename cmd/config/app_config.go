package config

import (
	"GreenChoice-Backend/internal/api/handlers"
	"GreenChoice-Backend/internal/api/routes"
	"GreenChoice-Backend/internal/middleware"
	"GreenChoice-Backend/internal/realtime"
	"GreenChoice-Backend/internal/utils"
	"GreenChoice-Backend/internal/utils/imaging"
	"GreenChoice-Backend/internal/utils/storage"
	"GreenChoice-Backend/pkg/jwt"
	"GreenChoice-Backend/pkg/predict"
	"GreenChoice-Backend/pkg/scan"
	"GreenChoice-Backend/pkg/stats"
	"GreenChoice-Backend/pkg/user"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	normalizer := imaging.NewNormalizer(utils.GetConfig("IMAGE_CACHE_DIR"))
	go sweepImageCache(normalizer)

	// live snapshot hub
	hub := realtime.NewHub()
	go hub.Run()

	// Repository
	userRepository := user.NewUserRepository(db)
	scanRepository := scan.NewScanRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	predictService := predict.NewPredictService(
		utils.GetConfig("MODEL_API_URL"),
		modelTimeout(),
		utils.GetConfig("MODEL_VALIDATION"),
	)
	scanService := scan.NewScanService(scanRepository, predictService, s3, normalizer, hub)
	statsService := stats.NewStatsService(scanRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	scanHandler := handlers.NewScanHandler(scanService, statsService, hub, validator)

	// routes
	routesConfig := routes.Config{
		App:         app,
		UserHandler: userHandler,
		ScanHandler: scanHandler,
		Middleware:  middlewares,
		JWTService:  jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

// sweepImageCache removes staged uploads and normalized copies that a crash
// or early return left behind. Successful requests clean up after themselves.
func sweepImageCache(normalizer *imaging.Normalizer) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		if removed := normalizer.SweepOlderThan(time.Hour); removed > 0 {
			log.Infof("image cache sweep removed %d stale files", removed)
		}
	}
}

func modelTimeout() time.Duration {
	seconds, err := strconv.Atoi(utils.GetConfig("MODEL_TIMEOUT_SECONDS"))
	if err != nil || seconds <= 0 {
		return predict.DefaultTimeout
	}
	return time.Duration(seconds) * time.Second
}
