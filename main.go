package main

import (
	"log"
	"time"

	"iptv-app/config"
	"iptv-app/database"
	adminapi "iptv-app/internal/api/admin"
	"iptv-app/internal/api/checkout"
	paystackwebhooks "iptv-app/internal/api/paystackwebhook"
	plansapi "iptv-app/internal/api/plans"
	routes "iptv-app/internal/app/http"
	"iptv-app/internal/app/http/middleware"
	"iptv-app/internal/domain/plans"
	"iptv-app/internal/domain/subscriptions"
	"iptv-app/internal/infra/mail"
	"iptv-app/internal/infra/paystack"
	"iptv-app/internal/logging"
	"iptv-app/internal/metrics"
	"iptv-app/internal/provisioning"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	logger := logging.New("iptv-app")

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestLogger(logger))

	subStore := subscriptions.NewStore(database.DB)
	planStore := plans.NewStore(database.DB)
	gateway := paystack.NewClient(config.PAYSTACK_SECRET_KEY)
	emailer := mail.NewSMTPEmailer(config.SMTP_FROM, config.SMTP_PASSWORD, config.SMTP_HOST, config.SMTP_PORT)
	tokens := provisioning.NewTokenGenerator(config.STREAM_TOKEN_SECRET)

	svc, err := provisioning.NewService(provisioning.Params{
		Store:    subStore,
		Plans:    planStore,
		Notifier: emailer,
		Tokens:   tokens,
		BaseURL:  config.APP_URL,
		Log:      logger,
		Metrics:  metrics.NewProvisioning(prometheus.DefaultRegisterer),
	})
	if err != nil {
		log.Fatal("❌ Provisioning service:", err)
	}
	defer svc.Flush()

	routes.RegisterRoutes(r, routes.Deps{
		Checkout: checkout.NewHandler(gateway, planStore, svc, tokens, config.PAYSTACK_PUBLIC_KEY, config.APP_URL, logger),
		Admin:    adminapi.NewHandler(subStore, planStore),
		Webhook:  paystackwebhooks.PaystackWebhook(svc, gateway, logger),
		Plans:    plansapi.ListPlans(planStore),
	})

	r.Run(":" + config.PORT)
}
