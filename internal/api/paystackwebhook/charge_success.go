package paystackwebhooks

import (
	"encoding/json"
	"errors"
	"net/http"

	"iptv-app/internal/provisioning"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type chargeData struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"` // kobo
	Status    string `json:"status"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
	Metadata map[string]string `json:"metadata"`
}

func handleChargeSuccess(c *gin.Context, svc Provisioner, log zerolog.Logger, raw json.RawMessage) {
	var data chargeData
	if err := json.Unmarshal(raw, &data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse charge"})
		return
	}

	result, err := svc.Provision(c.Request.Context(), provisioning.Charge{
		Reference: data.Reference,
		Email:     data.Customer.Email,
		PlanID:    data.Metadata["plan_id"],
		Amount:    data.Amount,
	})
	if err != nil {
		var rec *provisioning.ReconcileError
		if errors.As(err, &rec) {
			// 500 so Paystack retries; Provision is idempotent on the ref.
			log.Error().Str("payment_ref", rec.PaymentRef).Err(err).Msg("charge captured but provisioning failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "payment_ref": rec.PaymentRef})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if result.AlreadyProvisioned {
		c.JSON(http.StatusOK, gin.H{"status": "already provisioned"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
