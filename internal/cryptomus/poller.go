package cryptomus

import (
	"context"
	"log/slog"
	"time"

	"github.com/set-night/cryptoshop/internal/domain"
)

// Poller re-fetches an invoice's authoritative status on a fixed interval
// until it turns terminal. Webhooks remain the timely update path; this is
// best-effort reconciliation for a human-facing status view.
type Poller struct {
	api      API
	interval time.Duration
}

func NewPoller(api API, interval time.Duration) *Poller {
	return &Poller{api: api, interval: interval}
}

// Watch polls until the invoice reaches a terminal status or ctx is
// cancelled. onUpdate is called with every fresh snapshot, including the
// terminal one. Fetch errors are logged and the next tick retries; the
// returned error is non-nil only when ctx ends the watch.
func (p *Poller) Watch(ctx context.Context, uuid string, onUpdate func(*domain.Invoice)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			invoice, err := p.api.PaymentInfo(ctx, uuid, "")
			if err != nil {
				slog.Error("poll payment info", "uuid", uuid, "error", err)
				continue
			}
			onUpdate(invoice)
			if invoice.PaymentStatus.IsFinal() {
				return nil
			}
		}
	}
}
