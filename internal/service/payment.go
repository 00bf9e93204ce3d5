package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/cryptoshop/internal/config"
	"github.com/set-night/cryptoshop/internal/cryptomus"
	"github.com/set-night/cryptoshop/internal/domain"
)

// InvoiceStore persists invoice snapshots. Update must never overwrite a
// terminal snapshot with a non-terminal one.
type InvoiceStore interface {
	Save(ctx context.Context, inv *domain.Invoice) error
	Update(ctx context.Context, inv *domain.Invoice) error
	ByUUID(ctx context.Context, uuid string) (*domain.Invoice, error)
	ByOrderID(ctx context.Context, orderID string) (*domain.Invoice, error)
}

// PaymentService handles checkout and status queries against the
// processor, recording every snapshot it sees.
type PaymentService struct {
	api     cryptomus.API
	store   InvoiceStore
	catalog *Catalog
	cfg     *config.Config

	poller   *cryptomus.Poller
	watchCtx context.Context
}

func NewPaymentService(api cryptomus.API, store InvoiceStore, catalog *Catalog, cfg *config.Config) *PaymentService {
	return &PaymentService{api: api, store: store, catalog: catalog, cfg: cfg}
}

// EnableReconciliation makes Checkout start a background watch per invoice
// that re-fetches status until terminal, as a safety net for missed
// webhooks. ctx is the stop signal for all watches.
func (s *PaymentService) EnableReconciliation(ctx context.Context, poller *cryptomus.Poller) {
	s.poller = poller
	s.watchCtx = ctx
}

// CheckoutRequest is the buyer-facing payment form. Either ProductID or an
// explicit Amount+Currency must be given.
type CheckoutRequest struct {
	ProductID   string `json:"product_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Network     string `json:"network"`
	ToCurrency  string `json:"to_currency"`
	Lifetime    int    `json:"lifetime"`
}

// Checkout creates a processor invoice for the request and records it. The
// merchant order id is always generated here, one per attempt.
func (s *PaymentService) Checkout(ctx context.Context, req CheckoutRequest) (*domain.Invoice, error) {
	amount, currency := req.Amount, req.Currency
	if req.ProductID != "" {
		product, err := s.catalog.ByID(req.ProductID)
		if err != nil {
			return nil, err
		}
		amount, currency = product.Price, product.Currency
	}

	var additional *string
	if req.Description != "" {
		additional = &req.Description
	}

	invoiceReq := domain.CreateInvoiceRequest{
		Amount:         amount,
		Currency:       currency,
		OrderID:        uuid.New().String(),
		Network:        req.Network,
		URLReturn:      s.cfg.ReturnURL(),
		URLSuccess:     s.cfg.SuccessURL(),
		URLCallback:    s.cfg.CallbackURL(),
		IsPaymentMulti: true,
		Lifetime:       req.Lifetime,
		ToCurrency:     req.ToCurrency,
		AdditionalData: additional,
	}

	invoice, err := s.api.CreateInvoice(ctx, invoiceReq)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, invoice); err != nil {
		// The processor invoice exists; losing the local record is
		// recoverable via the status endpoint.
		slog.Error("save invoice", "uuid", invoice.UUID, "error", err)
	}

	slog.Info("invoice created",
		"uuid", invoice.UUID,
		"order_id", invoice.OrderID,
		"amount", invoice.Amount,
		"currency", invoice.Currency,
	)

	if s.poller != nil {
		s.watch(invoice)
	}
	return invoice, nil
}

// watch reconciles one invoice in the background until it turns terminal,
// expires, or the service shuts down.
func (s *PaymentService) watch(invoice *domain.Invoice) {
	deadline := time.Unix(invoice.ExpiredAt, 0).Add(5 * time.Minute)
	watchCtx, cancel := context.WithDeadline(s.watchCtx, deadline)

	go func() {
		defer cancel()
		err := s.poller.Watch(watchCtx, invoice.UUID, func(fresh *domain.Invoice) {
			if err := s.store.Update(watchCtx, fresh); err != nil {
				slog.Error("reconcile invoice", "uuid", fresh.UUID, "error", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			slog.Error("invoice watch stopped", "uuid", invoice.UUID, "error", err)
		}
	}()
}

// Status fetches the authoritative snapshot from the processor and folds
// it into the local record. When the processor is unreachable the last
// stored snapshot is served instead.
func (s *PaymentService) Status(ctx context.Context, uuid, orderID string) (*domain.Invoice, error) {
	if uuid == "" && orderID == "" {
		return nil, domain.ErrMissingIdentifier
	}

	invoice, err := s.api.PaymentInfo(ctx, uuid, orderID)
	if err != nil {
		if stored, storeErr := s.lookup(ctx, uuid, orderID); storeErr == nil {
			slog.Debug("serving stored invoice snapshot", "uuid", stored.UUID, "error", err)
			return stored, nil
		}
		return nil, err
	}

	if err := s.store.Update(ctx, invoice); err != nil {
		slog.Error("update invoice", "uuid", invoice.UUID, "error", err)
	}
	return invoice, nil
}

func (s *PaymentService) lookup(ctx context.Context, uuid, orderID string) (*domain.Invoice, error) {
	if uuid != "" {
		return s.store.ByUUID(ctx, uuid)
	}
	return s.store.ByOrderID(ctx, orderID)
}

// Resend asks the processor to redeliver the last webhook for an invoice.
func (s *PaymentService) Resend(ctx context.Context, uuid, orderID string) error {
	if err := s.api.ResendWebhook(ctx, uuid, orderID); err != nil {
		return fmt.Errorf("resend webhook: %w", err)
	}
	return nil
}
