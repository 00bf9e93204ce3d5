package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/set-night/cryptoshop/internal/cryptomus"
	"github.com/set-night/cryptoshop/internal/domain"
	"github.com/set-night/cryptoshop/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

type hookRecorder struct {
	calls []string
	fail  map[string]error
}

func (r *hookRecorder) hook(name string) func(context.Context, *domain.WebhookEvent) error {
	return func(ctx context.Context, event *domain.WebhookEvent) error {
		r.calls = append(r.calls, name)
		if err, ok := r.fail[name]; ok {
			return err
		}
		return nil
	}
}

func newRecordedProcessor(store InvoiceStore) (*WebhookProcessor, *hookRecorder) {
	rec := &hookRecorder{fail: map[string]error{}}
	proc := NewWebhookProcessor(testAPIKey, store, WebhookHooks{
		OnSuccess:     rec.hook("success"),
		OnFailed:      rec.hook("failed"),
		OnWrongAmount: rec.hook("wrong_amount"),
		OnUpdate:      rec.hook("update"),
		OnFinal:       rec.hook("final"),
	})
	return proc, rec
}

func signedEventBody(t *testing.T, status domain.PaymentStatus) []byte {
	t.Helper()
	event := &domain.WebhookEvent{
		Type:          domain.EventTypePayment,
		UUID:          "uuid-1",
		OrderID:       "order-1",
		Amount:        "0.01",
		PaymentAmount: "0.01",
		IsFinal:       status.IsFinal(),
		Status:        status,
		Currency:      "USDC",
		PayerCurrency: "USDC",
		Network:       "ethereum",
	}
	if status.IsSuccess() {
		event.TxID = "deadbeef"
		event.From = "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b5"
	}
	require.NoError(t, cryptomus.SignWebhook(event, testAPIKey))
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body
}

func TestWebhookSuccessDispatchOrder(t *testing.T) {
	proc, rec := newRecordedProcessor(repository.NewMemoryInvoiceRepo())

	err := proc.Process(context.Background(), signedEventBody(t, domain.StatusPaid))
	require.NoError(t, err)
	assert.Equal(t, []string{"success", "final"}, rec.calls)
}

func TestWebhookFailureDispatch(t *testing.T) {
	proc, rec := newRecordedProcessor(repository.NewMemoryInvoiceRepo())

	err := proc.Process(context.Background(), signedEventBody(t, domain.StatusCancel))
	require.NoError(t, err)
	assert.Equal(t, []string{"failed", "final"}, rec.calls)
}

func TestWebhookWrongAmountStaysPending(t *testing.T) {
	proc, rec := newRecordedProcessor(repository.NewMemoryInvoiceRepo())

	err := proc.Process(context.Background(), signedEventBody(t, domain.StatusWrongAmount))
	require.NoError(t, err)
	// non-terminal, so no finalize hook
	assert.Equal(t, []string{"wrong_amount"}, rec.calls)
}

func TestWebhookNonTerminalUpdate(t *testing.T) {
	proc, rec := newRecordedProcessor(repository.NewMemoryInvoiceRepo())

	err := proc.Process(context.Background(), signedEventBody(t, domain.StatusConfirmCheck))
	require.NoError(t, err)
	assert.Equal(t, []string{"update"}, rec.calls)
}

func TestWebhookBadSignatureRunsNoHandler(t *testing.T) {
	proc, rec := newRecordedProcessor(repository.NewMemoryInvoiceRepo())

	body := signedEventBody(t, domain.StatusPaid)
	// flip one character inside the signature value
	tampered := make([]byte, len(body))
	copy(tampered, body)
	idx := len(tampered) - 5
	if tampered[idx] == 'a' {
		tampered[idx] = 'b'
	} else {
		tampered[idx] = 'a'
	}

	err := proc.Process(context.Background(), tampered)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)
	assert.Empty(t, rec.calls)
}

func TestWebhookMalformedBody(t *testing.T) {
	proc, rec := newRecordedProcessor(repository.NewMemoryInvoiceRepo())

	err := proc.Process(context.Background(), []byte(`{"uuid": `))
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, rec.calls)
}

func TestWebhookIgnoresNonPaymentType(t *testing.T) {
	proc, rec := newRecordedProcessor(repository.NewMemoryInvoiceRepo())

	event := &domain.WebhookEvent{Type: "wallet", UUID: "uuid-1", Status: domain.StatusPaid}
	require.NoError(t, cryptomus.SignWebhook(event, testAPIKey))
	body, err := json.Marshal(event)
	require.NoError(t, err)

	require.NoError(t, proc.Process(context.Background(), body))
	assert.Empty(t, rec.calls)
}

func TestWebhookHandlerErrorPropagates(t *testing.T) {
	proc, rec := newRecordedProcessor(repository.NewMemoryInvoiceRepo())
	rec.fail["success"] = errors.New("fulfillment down")

	err := proc.Process(context.Background(), signedEventBody(t, domain.StatusPaid))
	require.Error(t, err)
	// the finalize hook must not run after a failed status handler
	assert.Equal(t, []string{"success"}, rec.calls)
}

func TestWebhookUpdatesStore(t *testing.T) {
	store := repository.NewMemoryInvoiceRepo()
	proc, _ := newRecordedProcessor(store)

	payer := "0.01"
	require.NoError(t, store.Save(context.Background(), &domain.Invoice{
		UUID: "uuid-1", OrderID: "order-1", Amount: "0.01", Currency: "USDC",
		PayerAmount: &payer, PaymentStatus: domain.StatusCheck, Status: domain.StatusCheck,
	}))

	require.NoError(t, proc.Process(context.Background(), signedEventBody(t, domain.StatusPaid)))

	stored, err := store.ByUUID(context.Background(), "uuid-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, stored.PaymentStatus)
	assert.True(t, stored.IsFinal)
	require.NotNil(t, stored.TxID)

	// a stale non-terminal redelivery must not downgrade the record
	require.NoError(t, proc.Process(context.Background(), signedEventBody(t, domain.StatusConfirmCheck)))

	stored, err = store.ByUUID(context.Background(), "uuid-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, stored.PaymentStatus)
	assert.True(t, stored.IsFinal)
}
