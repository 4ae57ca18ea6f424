package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/hospital-booking-engine/internal/adapters/in/http"
	"github.com/suchimauz/hospital-booking-engine/internal/adapters/out/bookingapi"
	"github.com/suchimauz/hospital-booking-engine/internal/adapters/out/cache"
	"github.com/suchimauz/hospital-booking-engine/internal/adapters/out/logger"
	"github.com/suchimauz/hospital-booking-engine/internal/config"
	"github.com/suchimauz/hospital-booking-engine/internal/core/domain"
	"github.com/suchimauz/hospital-booking-engine/internal/core/ports/out"
	"github.com/suchimauz/hospital-booking-engine/internal/core/services/booking_flow_service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":      cfg.App.Version,
		"env":          cfg.App.Env,
		"timezone":     cfg.App.Timezone,
		"cacheEnabled": cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	bookingAPIAdapter := bookingapi.NewBookingAPIAdapter(cfg, mainLogger.WithModule("BookingAPIAdapter"))

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter
	}

	// Инициализация сервиса
	bookingFlowService := booking_flow_service.NewBookingFlowService(
		bookingAPIAdapter,
		cacheAdapter,
		cfg,
		mainLogger,
	)

	// Локально полезно видеть весь поток событий кэша
	if cfg.IsLocal() && cacheAdapter != nil {
		cacheLogger := mainLogger.WithModule("CacheEvents")
		cacheAdapter.Subscribe(domain.CacheKeyPrefix(""), func(event domain.CacheEvent) {
			cacheLogger.Debug("cache.event", out.LogFields{
				"type": event.Type,
				"key":  event.Key,
			})
		})
	}

	// Настройка HTTP сервера
	router := gin.Default()
	controller := http.NewBookingFlowController(
		bookingFlowService,
		bookingFlowService,
		cfg,
		mainLogger.WithModule("HttpController"),
	)
	controller.RegisterRoutes(router)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})

	// Дополнительное логирование для разработки
	if cfg.IsLocal() {
		logger.Debug("app.config.debug", out.LogFields{
			"config": map[string]interface{}{
				"http": map[string]string{
					"host": cfg.HTTP.Host,
					"port": cfg.HTTP.Port,
				},
				"bookingApi": map[string]interface{}{
					"url":      cfg.BookingAPI.URL,
					"username": cfg.BookingAPI.Username,
					"timeout":  cfg.BookingAPI.Timeout.String(),
				},
				"cache": map[string]interface{}{
					"enabled": cfg.Cache.Enabled,
					"size":    cfg.Cache.Size,
				},
			},
		})
	}
}
