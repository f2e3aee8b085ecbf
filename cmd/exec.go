package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go/v7"

	"ticketpass/config"
	"ticketpass/internal/handlers"
	"ticketpass/internal/services"
	"ticketpass/internal/webhook"
	_ "ticketpass/migrations"
	"ticketpass/monitoring"
	"ticketpass/security"
	"ticketpass/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	// Initialize PubNub
	pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.PubNubUUID))
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	go handleShutdown(cancel)

	// Transport-level webhook guards
	originFilter, err := security.NewOriginFilter(cfg.AllowedCIDRs)
	if err != nil {
		return err
	}
	limiter := security.NewRateLimiter(redisClient, cfg.RateLimit, cfg.RateLimitWindow)

	var monitor *monitoring.Monitor
	if cfg.EnableMetrics {
		monitor = monitoring.NewMonitor(redisClient)
	}

	// Initialize services
	notifier := services.NewNotifier(app, pn, cfg.NotifyQueueSize)
	notifier.Start(ctx)

	store := webhook.NewPBStore(app)
	pipeline := webhook.NewPipeline(store, notifier, monitor, cfg.FreshnessWindow)

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(pipeline, originFilter, limiter, monitor, []byte(cfg.WebhookSecret))
	adminHandler := handlers.NewAdminHandler(app, cfg.AdminTokenHash)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Payment gateway webhook
		e.Router.POST("/api/v1/webhooks/payment", webhookHandler.HandlePaymentWebhook)

		// Operator reconciliation endpoints
		e.Router.GET("/api/v1/admin/anomalies", adminHandler.ListAnomalies)
		e.Router.POST("/api/v1/admin/anomalies/{id}/resolve", adminHandler.ResolveAnomaly)

		if cfg.EnableMetrics {
			e.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))
		}

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	// Start server
	return app.Start()
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
