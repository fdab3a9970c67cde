package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ManishKhulbe/Firmable-backend/internal/handler"
	mid "github.com/ManishKhulbe/Firmable-backend/internal/middleware"
	"github.com/ManishKhulbe/Firmable-backend/internal/service"
	"github.com/ManishKhulbe/Firmable-backend/internal/store"
	"github.com/ManishKhulbe/Firmable-backend/pkg/config"
	"github.com/ManishKhulbe/Firmable-backend/pkg/database"
	"github.com/ManishKhulbe/Firmable-backend/pkg/logger"
	"github.com/ManishKhulbe/Firmable-backend/prometheus"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("abn-registry")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting abn-registry", appConfig.LogFields()...)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire stores, services and handlers
	db := database.GetDB()
	recordStore := store.NewRecordStore(db)
	nameStore := store.NewNameStore(db)

	recordService := service.NewRecordService(recordStore, nameStore, log)
	nameService := service.NewNameService(nameStore, recordStore, log)

	recordHandler := handler.NewRecordHandler(recordService)
	nameHandler := handler.NewNameHandler(nameService)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// ABN record routes
	recordAPI := e.Group("/api/v1/abn-records")
	recordAPI.GET("", recordHandler.List)
	recordAPI.GET("/stats/overview", recordHandler.Stats)
	recordAPI.GET("/:abn", recordHandler.Get)
	recordAPI.POST("", recordHandler.Create)
	recordAPI.PUT("/:abn", recordHandler.Update)
	recordAPI.DELETE("/:abn", recordHandler.Delete)

	// ABN name routes
	nameAPI := e.Group("/api/v1/abn-names")
	nameAPI.GET("", nameHandler.List)
	nameAPI.GET("/stats/overview", nameHandler.Stats)
	nameAPI.GET("/search/:term", nameHandler.Search)
	nameAPI.GET("/abn/:abn", nameHandler.ListByABN)
	nameAPI.GET("/:id", nameHandler.Get)
	nameAPI.POST("", nameHandler.Create)
	nameAPI.PUT("/:id", nameHandler.Update)
	nameAPI.DELETE("/:id", nameHandler.Delete)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
