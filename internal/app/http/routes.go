package routes

import (
	adminapi "iptv-app/internal/api/admin"
	"iptv-app/internal/api/checkout"
	"iptv-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Checkout *checkout.Handler
	Admin    *adminapi.Handler
	Webhook  gin.HandlerFunc
	Plans    gin.HandlerFunc
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Webhook stays outside the sanitizing group: the signature is
	// computed over the raw body.
	r.POST("/webhook/paystack", d.Webhook)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ✅ Apply input sanitization to public routes only
	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.GET("/plans", d.Plans)
	public.POST("/checkout", d.Checkout.Start)
	public.GET("/checkout/verify", d.Checkout.VerifyCallback)

	// Admin routes (dashboard has no auth model yet)
	admin := r.Group("/admin")
	admin.GET("/subscriptions", d.Admin.ListSubscriptions)
	admin.GET("/stats", d.Admin.Stats)
	admin.PUT("/subscriptions/:id/status", d.Admin.UpdateStatus)
	admin.DELETE("/subscriptions/:id", d.Admin.DeleteSubscription)
	admin.GET("/settings", d.Admin.GetSettings)
	admin.PUT("/settings", d.Admin.UpdateSettings)
}
