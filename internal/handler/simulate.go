package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/set-night/cryptoshop/internal/domain"
)

const simulatePageHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Simulated Payment</title>
</head>
<body>
  <div class="banner">SIMULATION MODE: This is a demo payment. No real cryptocurrency will be transferred.</div>
  <h1>Complete Your Payment</h1>
  <p>Send exactly <span id="payer-amount">{{.PayerAmount}} {{.PayerCurrency}}</span> to the address below</p>
  <p>Network: <span id="network">{{.Network}}</span></p>
  <p>Address: <code id="address">{{.Address}}</code></p>
  <p>Status: <span id="status">{{.StatusText}}</span></p>
  <p>Expires at: <span id="expired-at">{{.ExpiredAt}}</span></p>
  <form method="post" action="/simulate/payment/{{.UUID}}">
    <button name="status" value="paid">Simulate Successful Payment</button>
    <button name="status" value="wrong_amount">Simulate Wrong Amount</button>
    <button name="status" value="fail">Simulate Failed Payment</button>
  </form>
</body>
</html>`

func (h *Handler) handleSimulatePage(c *gin.Context) {
	invoice, err := h.sim.PaymentInfo(c.Request.Context(), c.Param("uuid"), "")
	if err != nil {
		respondError(c, err)
		return
	}

	c.HTML(http.StatusOK, "simulate.html", gin.H{
		"UUID":          invoice.UUID,
		"PayerAmount":   strOrDash(invoice.PayerAmount),
		"PayerCurrency": strOrDash(invoice.PayerCurrency),
		"Network":       strOrDash(invoice.Network),
		"Address":       strOrDash(invoice.Address),
		"StatusText":    invoice.PaymentStatus.DisplayText(),
		"ExpiredAt":     invoice.ExpiredAt,
	})
}

func strOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

var simulatableStatuses = map[domain.PaymentStatus]bool{
	domain.StatusConfirmCheck: true,
	domain.StatusPaid:         true,
	domain.StatusPaidOver:     true,
	domain.StatusFail:         true,
	domain.StatusWrongAmount:  true,
	domain.StatusCancel:       true,
	domain.StatusSystemFail:   true,
}

// handleSimulateMark applies a buyer action on the demo page, then loops
// the resulting signed webhook back through the real receiver so the full
// dispatch path runs exactly as it would in production.
func (h *Handler) handleSimulateMark(c *gin.Context) {
	var req struct {
		Status domain.PaymentStatus `json:"status" form:"status"`
	}
	if err := c.ShouldBind(&req); err != nil || !simulatableStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown simulated status"})
		return
	}

	invoice, err := h.sim.MarkStatus(c.Param("uuid"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.sim.BuildWebhook(invoice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if err := h.deliverLoopback(c, event); err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payment": invoice})
}

func (h *Handler) deliverLoopback(c *gin.Context, event *domain.WebhookEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return err
	}
	if err := h.webhooks.Process(c.Request.Context(), body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return err
	}
	return nil
}
