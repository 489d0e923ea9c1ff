package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	reqdto "gatherly/internal/handler/dto/request"
	"gatherly/internal/handler/httperr"
	"gatherly/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const (
	webhookSignatureHeader = "Gateway-Signature"
	maxWebhookBodyBytes    = 1 << 20
)

// WebhookHandler is the ingress for payment gateway notifications. It
// verifies the HMAC signature over the raw body, then dispatches by event
// type. Deliveries are at-least-once: anything that is permanently
// unprocessable (malformed payload, unknown order, settled order) is
// acknowledged with 200 so the gateway stops retrying, while transient
// failures return 500 to trigger a redelivery.
type WebhookHandler struct {
	paymentCommands commands.PaymentCommands
	webhookSecret   string
}

func NewWebhookHandler(paymentCommands commands.PaymentCommands, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{
		paymentCommands: paymentCommands,
		webhookSecret:   webhookSecret,
	}
}

// @Summary Receive payment gateway webhook
// @Description Verify and process a signed gateway event
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Gateway-Signature header string true "Hex-encoded HMAC-SHA256 of the raw body"
// @Success 200 {object} map[string]string
// @Failure 401 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /webhooks/payment [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		httperr.JSON(c, http.StatusInternalServerError, httperr.CodeInternal, "Failed to read request body")
		return
	}

	if !h.verifySignature(body, c.GetHeader(webhookSignatureHeader)) {
		httperr.JSON(c, http.StatusUnauthorized, httperr.CodeUnauthorized, "Invalid webhook signature")
		return
	}

	var envelope reqdto.WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		// Signed but unparseable: retrying cannot help, acknowledge.
		slog.Warn("discarding malformed webhook envelope", "error", err.Error())
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if err := h.dispatch(c, envelope); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, httperr.CodeInternal, "Webhook processing failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// dispatch routes the envelope to the matching command. A nil return is
// an acknowledgement; permanent rejections are logged and swallowed here.
func (h *WebhookHandler) dispatch(c *gin.Context, envelope reqdto.WebhookEnvelope) error {
	ctx := c.Request.Context()

	switch envelope.Type {
	case reqdto.WebhookCheckoutCompleted:
		var data reqdto.CheckoutCompletedData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			slog.Warn("discarding malformed checkout-completed payload",
				"webhook_id", envelope.ID, "error", err.Error())
			return nil
		}
		err := h.paymentCommands.OnCheckoutCompleted(ctx, data.OrderID, data.PaymentRef)
		return acknowledgeIfPermanent(err, envelope)

	case reqdto.WebhookCheckoutExpired:
		var data reqdto.CheckoutExpiredData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			slog.Warn("discarding malformed checkout-expired payload",
				"webhook_id", envelope.ID, "error", err.Error())
			return nil
		}
		err := h.paymentCommands.OnCheckoutExpired(ctx, data.OrderID)
		return acknowledgeIfPermanent(err, envelope)

	case reqdto.WebhookSubscriptionChanged:
		var data reqdto.SubscriptionChangedData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			slog.Warn("discarding malformed subscription payload",
				"webhook_id", envelope.ID, "error", err.Error())
			return nil
		}
		return h.paymentCommands.OnSubscriptionEvent(ctx, commands.SubscriptionEvent{
			UserID:             data.UserID,
			GatewayCustomerRef: data.GatewayCustomerRef,
			GatewaySubRef:      data.GatewaySubRef,
			Plan:               data.Plan,
			Status:             data.Status,
			CurrentPeriodEnd:   data.CurrentPeriodEnd,
		})

	default:
		slog.Info("ignoring unhandled webhook type", "webhook_id", envelope.ID, "type", envelope.Type)
		return nil
	}
}

// acknowledgeIfPermanent absorbs rejections that no redelivery can fix.
func acknowledgeIfPermanent(err error, envelope reqdto.WebhookEnvelope) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, commands.ErrOrderNotFound):
		slog.Warn("webhook references unknown order", "webhook_id", envelope.ID, "type", envelope.Type)
		return nil
	case errors.Is(err, commands.ErrOrderNotPayable):
		slog.Warn("webhook for order in terminal state ignored", "webhook_id", envelope.ID, "type", envelope.Type)
		return nil
	default:
		return err
	}
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), provided)
}
