package cryptomus

import (
	"testing"

	"github.com/set-night/cryptoshop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func TestSignFixedVectors(t *testing.T) {
	// md5(base64(body) + key), verified against an external md5 tool
	assert.Equal(t, "b90ff927b1c0b67f1604b6e1413a757e",
		Sign([]byte(`{"amount":"0.01","currency":"USDC"}`), testAPIKey))

	// base64 of an empty body is the empty string
	assert.Equal(t, "6339da7207f32bfc28decb98edf89318", SignEmpty(testAPIKey))
	assert.Equal(t, SignEmpty(testAPIKey), Sign(nil, testAPIKey))
}

func TestSignDeterministicAndSensitive(t *testing.T) {
	body := []byte(`{"amount":"5.00","currency":"BTC","order_id":"abc"}`)

	assert.Equal(t, Sign(body, testAPIKey), Sign(body, testAPIKey))
	assert.NotEqual(t, Sign(body, testAPIKey), Sign(body, "other-key"))

	changed := []byte(`{"amount":"5.01","currency":"BTC","order_id":"abc"}`)
	assert.NotEqual(t, Sign(body, testAPIKey), Sign(changed, testAPIKey))
}

func testEvent() *domain.WebhookEvent {
	return &domain.WebhookEvent{
		Type:             domain.EventTypePayment,
		UUID:             "8b03432e-385b-4670-8d06-064591096795",
		OrderID:          "order-1",
		Amount:           "0.01",
		PaymentAmount:    "0.01",
		PaymentAmountUSD: "0.01",
		MerchantAmount:   "0.00995000",
		Commission:       "0.00005000",
		IsFinal:          true,
		Status:           domain.StatusPaid,
		From:             "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b5",
		Network:          "ethereum",
		Currency:         "USDC",
		PayerCurrency:    "USDC",
		TxID:             "6f0d9c8e2b1a4c3d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5",
	}
}

func TestVerifyWebhook(t *testing.T) {
	event := testEvent()
	require.NoError(t, SignWebhook(event, testAPIKey))
	require.NotEmpty(t, event.Sign)

	assert.True(t, VerifyWebhook(event, testAPIKey))
	assert.False(t, VerifyWebhook(event, "wrong-key"))
}

func TestVerifyWebhookRejectsMutatedEvent(t *testing.T) {
	event := testEvent()
	require.NoError(t, SignWebhook(event, testAPIKey))

	mutated := *event
	mutated.Amount = "0.02"
	assert.False(t, VerifyWebhook(&mutated, testAPIKey))

	tampered := *event
	// flip one signature character
	sig := []byte(tampered.Sign)
	if sig[0] == 'a' {
		sig[0] = 'b'
	} else {
		sig[0] = 'a'
	}
	tampered.Sign = string(sig)
	assert.False(t, VerifyWebhook(&tampered, testAPIKey))
}

func TestVerifyWebhookMissingSign(t *testing.T) {
	assert.False(t, VerifyWebhook(testEvent(), testAPIKey))
}
