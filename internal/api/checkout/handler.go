package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"iptv-app/internal/domain/plans"
	"iptv-app/internal/domain/subscriptions"
	"iptv-app/internal/infra/paystack"
	"iptv-app/internal/provisioning"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Gateway is the slice of the Paystack client the checkout needs.
type Gateway interface {
	Initialize(ctx context.Context, req paystack.TransactionRequest) (*paystack.Transaction, error)
	Verify(ctx context.Context, reference string) (*paystack.Transaction, error)
}

type Provisioner interface {
	Provision(ctx context.Context, charge provisioning.Charge) (*provisioning.Result, error)
}

type PlanSource interface {
	Get(ctx context.Context, id string) (*plans.Plan, error)
}

type Handler struct {
	gateway     Gateway
	plans       PlanSource
	provisioner Provisioner
	tokens      *provisioning.TokenGenerator
	publicKey   string
	appURL      string
	log         zerolog.Logger
	now         func() time.Time
}

func NewHandler(gateway Gateway, planSource PlanSource, provisioner Provisioner, tokens *provisioning.TokenGenerator, publicKey, appURL string, log zerolog.Logger) *Handler {
	return &Handler{
		gateway:     gateway,
		plans:       planSource,
		provisioner: provisioner,
		tokens:      tokens,
		publicKey:   publicKey,
		appURL:      appURL,
		log:         log,
		now:         time.Now,
	}
}

// Start validates the submission and opens a gateway transaction. No
// record exists yet; the entitlement is only created once the charge
// is confirmed server-side.
func (h *Handler) Start(c *gin.Context) {
	var body struct {
		Email  string `json:"email" binding:"required,email"`
		PlanID string `json:"plan_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid email address and plan"})
		return
	}

	// allow-list plan id
	plan, err := h.plans.Get(c.Request.Context(), body.PlanID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}

	now := h.now()
	reference := fmt.Sprintf("2tv_%s_%d", plan.ID, now.UnixMilli())

	// Advisory values for the gateway dashboard; the workflow re-derives
	// both with a fresh salt when the charge actually lands.
	plannedToken := h.tokens.Generate(body.Email, plan.ID, now.UnixMilli())

	txn, err := h.gateway.Initialize(c.Request.Context(), paystack.TransactionRequest{
		Email:     body.Email,
		Amount:    plan.Price * 100, // kobo
		Currency:  "NGN",
		Reference: reference,
		Metadata: map[string]string{
			"plan_id":         plan.ID,
			"plan_name":       plan.Name,
			"user_url":        h.appURL + "/stream/" + plannedToken,
			"expiration_date": subscriptions.ExpiresFrom(now).Format(time.RFC3339),
		},
	})
	if err != nil {
		h.log.Error().Err(err).Str("plan", plan.ID).Msg("paystack initialize failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment system is unavailable. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorization_url": txn.AuthorizationURL,
		"access_code":       txn.AccessCode,
		"reference":         txn.Reference,
		"public_key":        h.publicKey,
		"amount":            plan.Price * 100,
	})
}

// VerifyCallback handles the buyer's return from the hosted checkout.
// The reference is re-verified against Paystack before anything is
// provisioned; the browser callback by itself proves nothing.
func (h *Handler) VerifyCallback(c *gin.Context) {
	ref := c.Query("reference")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing reference"})
		return
	}

	txn, err := h.gateway.Verify(c.Request.Context(), ref)
	if err != nil {
		h.log.Error().Err(err).Str("payment_ref", ref).Msg("paystack verify failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not verify payment. Please try again."})
		return
	}

	switch paystack.NormalizeChargeStatus(txn.Status) {
	case paystack.ChargeSuccess:
		result, err := h.provisioner.Provision(c.Request.Context(), provisioning.Charge{
			Reference: txn.Reference,
			Email:     txn.Customer.Email,
			PlanID:    txn.Metadata["plan_id"],
			Amount:    txn.Amount,
		})
		if err != nil {
			var rec *provisioning.ReconcileError
			if errors.As(err, &rec) {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":       "Payment received but your subscription could not be saved. Please contact support with your payment reference.",
					"payment_ref": rec.PaymentRef,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "success",
			"stream_url": result.Subscription.StreamURL,
			"expires":    result.Subscription.ExpirationDate,
			"plan":       result.Subscription.PlanName,
		})

	case paystack.ChargeAbandoned:
		// buyer closed the checkout; retryable, nothing captured
		c.JSON(http.StatusOK, gin.H{"status": "cancelled"})

	default:
		c.JSON(http.StatusPaymentRequired, gin.H{"status": "failed", "error": "Payment was not successful"})
	}
}
