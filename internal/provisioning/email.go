package provisioning

import (
	"fmt"

	"iptv-app/internal/domain/subscriptions"
	"iptv-app/internal/infra/mail"
)

// ConfirmationEmail builds the post-purchase message with everything
// the buyer needs to start watching.
func ConfirmationEmail(sub *subscriptions.Subscription) mail.Message {
	body := fmt.Sprintf(`Thank you for subscribing to 2TV %s Plan!

Your IPTV Access Details:
- Plan: %s
- Amount Paid: NGN %d
- Your Streaming URL: %s
- Expires: %s

Download IPTV Players:
- VLC Player: https://www.videolan.org/vlc/
- IPTV Smarters: Available on App Store/Google Play
- TiviMate: Available on Google Play
- Perfect Player: Available on App Store/Google Play

Setup Instructions will be sent to you shortly.

Thank you for choosing 2TV!`,
		sub.PlanName,
		sub.PlanName,
		sub.Amount,
		sub.StreamURL,
		sub.ExpirationDate.Format("02 Jan 2006"),
	)

	return mail.Message{
		To:      sub.Email,
		Subject: fmt.Sprintf("2TV Subscription Confirmation - %s Plan", sub.PlanName),
		Body:    body,
	}
}
