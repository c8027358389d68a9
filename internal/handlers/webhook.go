package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/clerk"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/services"
	"github.com/AiMagic5000/508-ministry-dashboard/pkg/logger"
	"github.com/AiMagic5000/508-ministry-dashboard/pkg/metrics"
)

// maxWebhookBody caps inbound webhook payloads at 1 MiB.
const maxWebhookBody = 1 << 20

// Webhook receives signed identity-provider events and feeds them to the
// provisioning workflow. Responses are plain text: the provider only looks at
// the status code, and 2xx acknowledges the delivery while 5xx triggers a
// retry with backoff.
func Webhook(verifier *clerk.Verifier, provisioner *services.ProvisioningService) gin.HandlerFunc {
	log := logger.WithModule("webhook")

	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
			c.String(http.StatusBadRequest, "Error occured")
			return
		}

		if err := verifier.Verify(body, c.Request.Header); err != nil {
			metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
			if errors.Is(err, clerk.ErrMissingHeaders) {
				c.String(http.StatusBadRequest, "Error occured -- no svix headers")
				return
			}
			log.Warn("webhook signature rejected", zap.Error(err))
			c.String(http.StatusBadRequest, "Error occured")
			return
		}

		evt, err := clerk.ParseEvent(body)
		if err != nil {
			metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
			log.Warn("webhook payload unreadable", zap.Error(err))
			c.String(http.StatusBadRequest, "Error occured")
			return
		}

		eventType := string(evt.Type)

		if !evt.Recognized() {
			metrics.WebhookEvents.WithLabelValues(eventType, "ignored").Inc()
			c.String(http.StatusOK, "Webhook processed successfully")
			return
		}

		if err := provisioner.HandleEvent(requestContext(c), evt); err != nil {
			metrics.WebhookEvents.WithLabelValues(eventType, "failed").Inc()
			log.Error("webhook processing failed",
				zap.String("event_type", eventType),
				zap.Error(err),
			)
			c.String(http.StatusInternalServerError, "Error processing webhook")
			return
		}

		metrics.WebhookEvents.WithLabelValues(eventType, "processed").Inc()
		c.String(http.StatusOK, "Webhook processed successfully")
	}
}
