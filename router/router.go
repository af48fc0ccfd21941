package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservation/controllers"
	"github.com/yeremiapane/restaurant-reservation/middlewares"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Harus dipasang sebelum route didaftarkan; Use() setelahnya tidak
	// berlaku untuk handler yang sudah terdaftar
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	// Inisialisasi controller
	layoutCtrl := controllers.NewLayoutController(db)
	tableCtrl := controllers.NewTableController(db)
	reservationCtrl := controllers.NewReservationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// WebSocket floor-map (token lewat query saat upgrade)
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.FloorMapHandler)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	// LAYOUT
	auth.GET("/layout/:restaurant_id", layoutCtrl.GetLayout)
	auth.PUT("/layout/:restaurant_id", layoutCtrl.UpdateLayout)

	// TABLES
	auth.GET("/tables/:restaurant_id", tableCtrl.ListTables)
	auth.GET("/tables/:restaurant_id/status", tableCtrl.GetStatusBoard)
	auth.POST("/tables/:restaurant_id", middlewares.RequireRoles("manager"), tableCtrl.CreateTable)
	auth.PUT("/tables/:restaurant_id/positions", middlewares.NewStrictRateLimiter(), tableCtrl.UpdatePositions)
	auth.PUT("/tables/:restaurant_id/:table_id", tableCtrl.UpdateTable)
	auth.DELETE("/tables/:restaurant_id/:table_id", middlewares.RequireRoles("manager"), tableCtrl.DeleteTable)

	// RESERVATIONS
	auth.POST("/reservations/:restaurant_id", reservationCtrl.CreateReservation)
	auth.GET("/reservations/:restaurant_id", reservationCtrl.ListReservations)
	auth.GET("/reservations/detail/:reservation_id", reservationCtrl.GetReservation)
	auth.PUT("/reservations/:reservation_id/status", reservationCtrl.TransitionStatus)

	return r
}
