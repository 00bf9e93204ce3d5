package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/set-night/cryptoshop/internal/cryptomus"
	"github.com/set-night/cryptoshop/internal/domain"
)

// WebhookHooks are the side-effect collaborators a verified event is
// dispatched to. Exactly one status hook fires per event, then OnFinal
// when the event is terminal. Nil hooks are skipped. Hooks must tolerate
// redelivery of the same uuid+status pair.
type WebhookHooks struct {
	OnSuccess     func(ctx context.Context, event *domain.WebhookEvent) error
	OnFailed      func(ctx context.Context, event *domain.WebhookEvent) error
	OnWrongAmount func(ctx context.Context, event *domain.WebhookEvent) error
	OnUpdate      func(ctx context.Context, event *domain.WebhookEvent) error
	OnFinal       func(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookProcessor validates inbound processor events and dispatches them.
// Every gate is hard: a failed parse or signature check means no hook runs
// and no state changes.
type WebhookProcessor struct {
	apiKey string
	store  InvoiceStore
	hooks  WebhookHooks
}

func NewWebhookProcessor(apiKey string, store InvoiceStore, hooks WebhookHooks) *WebhookProcessor {
	return &WebhookProcessor{apiKey: apiKey, store: store, hooks: hooks}
}

// Process handles one inbound event body. Error kinds map to the
// receiver's response codes: ValidationError for malformed payloads,
// ErrInvalidSignature for authentication failures, anything else is an
// internal handler failure.
func (p *WebhookProcessor) Process(ctx context.Context, body []byte) error {
	var event domain.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return &domain.ValidationError{Field: "body", Message: "malformed webhook payload"}
	}

	if !cryptomus.VerifyWebhook(&event, p.apiKey) {
		slog.Error("webhook signature mismatch", "uuid", event.UUID, "order_id", event.OrderID)
		return domain.ErrInvalidSignature
	}

	if event.Type != domain.EventTypePayment {
		slog.Info("ignoring non-payment webhook", "type", event.Type, "uuid", event.UUID)
		return nil
	}

	slog.Info("webhook received",
		"uuid", event.UUID,
		"order_id", event.OrderID,
		"status", event.Status,
		"is_final", event.IsFinal,
		"txid", event.TxID,
	)

	p.applyToStore(ctx, &event)

	if err := p.dispatch(ctx, &event); err != nil {
		return err
	}

	if event.IsFinal && p.hooks.OnFinal != nil {
		if err := p.hooks.OnFinal(ctx, &event); err != nil {
			return fmt.Errorf("finalize handler: %w", err)
		}
	}
	return nil
}

func (p *WebhookProcessor) dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	var handler func(ctx context.Context, event *domain.WebhookEvent) error
	var name string

	switch domain.Classify(event.Status) {
	case domain.BranchSuccess:
		handler, name = p.hooks.OnSuccess, "success"
	case domain.BranchFailed:
		handler, name = p.hooks.OnFailed, "failure"
	case domain.BranchWrongAmount:
		handler, name = p.hooks.OnWrongAmount, "wrong-amount"
	default:
		handler, name = p.hooks.OnUpdate, "update"
	}

	if handler == nil {
		return nil
	}
	if err := handler(ctx, event); err != nil {
		return fmt.Errorf("%s handler: %w", name, err)
	}
	return nil
}

// applyToStore folds the event into the local invoice record. A missing
// record is not fatal: the webhook may outrun invoice persistence, and
// the status endpoint re-fetches authoritative state anyway.
func (p *WebhookProcessor) applyToStore(ctx context.Context, event *domain.WebhookEvent) {
	invoice, err := p.store.ByUUID(ctx, event.UUID)
	if err != nil {
		slog.Debug("webhook for unknown invoice", "uuid", event.UUID, "error", err)
		return
	}

	invoice.PaymentStatus = event.Status
	invoice.Status = event.Status
	invoice.IsFinal = event.IsFinal
	invoice.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if event.PaymentAmount != "" && event.PaymentAmount != "0" {
		invoice.PaymentAmount = &event.PaymentAmount
	}
	if event.TxID != "" {
		invoice.TxID = &event.TxID
	}
	if event.From != "" {
		invoice.From = &event.From
	}

	if err := p.store.Update(ctx, invoice); err != nil {
		slog.Error("apply webhook to store", "uuid", event.UUID, "error", err)
	}
}
