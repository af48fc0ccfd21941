package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/restaurant-reservation/config"
	"github.com/yeremiapane/restaurant-reservation/database"
	"github.com/yeremiapane/restaurant-reservation/router"
	"github.com/yeremiapane/restaurant-reservation/services"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

func init() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Simpan koneksi database untuk dipakai controller
	utils.InitDB(db)

	if ginMode := os.Getenv("GIN_MODE"); ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	// Seed layout default untuk restoran utama (single-restaurant deployment)
	restaurantID := uint(1)
	if raw := os.Getenv("RESTAURANT_ID"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			restaurantID = uint(parsed)
		}
	}
	if err := database.SeedDefaults(db, restaurantID); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed defaults: %v", err)
	}

	// Monitor status meja: jendela reservasi mulai/berakhir tanpa API call
	// tetap tercermin di cache + floor-map
	monitor := services.NewStatusMonitor(db)
	if raw := os.Getenv("STATUS_REFRESH_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			monitor.Interval = parsed
		}
	}
	monitor.Start()
	defer monitor.Stop()

	// Setup router (rate limiter global dipasang di dalam SetupRouter)
	r := router.SetupRouter(db)

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
