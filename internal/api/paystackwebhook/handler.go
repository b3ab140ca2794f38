package paystackwebhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"iptv-app/internal/provisioning"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Provisioner interface {
	Provision(ctx context.Context, charge provisioning.Charge) (*provisioning.Result, error)
}

// SignatureChecker validates the x-paystack-signature header against
// the raw request body.
type SignatureChecker interface {
	ValidSignature(payload []byte, header string) bool
}

type event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// PaystackWebhook returns the handler for Paystack's event callbacks.
// Signature verification happens before anything is parsed; an
// unsigned or tampered payload can never reach the workflow.
func PaystackWebhook(svc Provisioner, sig SignatureChecker, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := readWebhookBody(c, 65536)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
			return
		}

		if !sig.ValidSignature(payload, c.GetHeader("x-paystack-signature")) {
			log.Warn().Msg("paystack signature verification failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
			return
		}

		var ev event
		if err := json.Unmarshal(payload, &ev); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event"})
			return
		}

		switch ev.Event {
		case "charge.success":
			handleChargeSuccess(c, svc, log, ev.Data)
		default:
			// Acknowledge everything else so Paystack stops retrying.
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		}
	}
}

func readWebhookBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
