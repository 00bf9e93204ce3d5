package cryptomus

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/set-night/cryptoshop/internal/config"
	"github.com/set-night/cryptoshop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type processorStub struct {
	calls    atomic.Int64
	lastPath string
	lastBody []byte
	lastSign string
	respond  func(w http.ResponseWriter, r *http.Request)
}

func newProcessorStub(respond func(w http.ResponseWriter, r *http.Request)) (*processorStub, *httptest.Server) {
	stub := &processorStub{respond: respond}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls.Add(1)
		stub.lastPath = r.URL.Path
		stub.lastBody, _ = io.ReadAll(r.Body)
		stub.lastSign = r.Header.Get("sign")
		stub.respond(w, r)
	}))
	return stub, srv
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(&config.Config{
		CryptomusAPIKey:     testAPIKey,
		CryptomusMerchantID: "merchant-1",
		CryptomusURL:        baseURL,
	})
	require.NoError(t, err)
	return client
}

func resultEnvelope(t *testing.T, result any) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"state": 0, "result": result})
	require.NoError(t, err)
	return raw
}

func TestNewClientRejectsPlaceholderCredentials(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
	}{
		{"missing key", config.Config{CryptomusMerchantID: "merchant-1"}},
		{"placeholder key", config.Config{CryptomusAPIKey: "your-payment-api-key-here", CryptomusMerchantID: "merchant-1"}},
		{"missing merchant", config.Config{CryptomusAPIKey: testAPIKey}},
		{"placeholder merchant", config.Config{CryptomusAPIKey: testAPIKey, CryptomusMerchantID: "your-merchant-uuid-here"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewClient(&tc.cfg)
			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
		})
	}
}

func TestCreateInvoice(t *testing.T) {
	invoice := domain.Invoice{UUID: "uuid-1", OrderID: "order-1", Amount: "0.01", Currency: "USDC", PaymentStatus: domain.StatusCheck, Status: domain.StatusCheck}
	stub, srv := newProcessorStub(func(w http.ResponseWriter, r *http.Request) {
		w.Write(resultEnvelope(t, invoice))
	})
	defer srv.Close()

	client := testClient(t, srv.URL)
	got, err := client.CreateInvoice(context.Background(), domain.CreateInvoiceRequest{
		Amount:   "0.01",
		Currency: "USDC",
		OrderID:  "order-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "uuid-1", got.UUID)
	assert.Equal(t, domain.StatusCheck, got.PaymentStatus)
	assert.Equal(t, "/v1/payment", stub.lastPath)
	// the signature must cover the exact wire bytes
	assert.Equal(t, Sign(stub.lastBody, testAPIKey), stub.lastSign)

	var sent domain.CreateInvoiceRequest
	require.NoError(t, json.Unmarshal(stub.lastBody, &sent))
	assert.Equal(t, config.DefaultInvoiceLifetime, sent.Lifetime)
}

func TestCreateInvoiceClampsLifetime(t *testing.T) {
	stub, srv := newProcessorStub(func(w http.ResponseWriter, r *http.Request) {
		w.Write(resultEnvelope(t, domain.Invoice{UUID: "uuid-1"}))
	})
	defer srv.Close()
	client := testClient(t, srv.URL)

	_, err := client.CreateInvoice(context.Background(), domain.CreateInvoiceRequest{
		Amount: "1", Currency: "USD", OrderID: "order-1", Lifetime: 10,
	})
	require.NoError(t, err)

	var sent domain.CreateInvoiceRequest
	require.NoError(t, json.Unmarshal(stub.lastBody, &sent))
	assert.Equal(t, config.MinInvoiceLifetime, sent.Lifetime)
}

func TestCreateInvoiceValidation(t *testing.T) {
	stub, srv := newProcessorStub(func(w http.ResponseWriter, r *http.Request) {
		w.Write(resultEnvelope(t, domain.Invoice{}))
	})
	defer srv.Close()
	client := testClient(t, srv.URL)

	cases := []domain.CreateInvoiceRequest{
		{Amount: "0", Currency: "USDC", OrderID: "o"},
		{Amount: "-5", Currency: "USDC", OrderID: "o"},
		{Amount: "not-a-number", Currency: "USDC", OrderID: "o"},
		{Amount: "0.01", Currency: "", OrderID: "o"},
		{Amount: "0.01", Currency: "USDC", OrderID: ""},
	}
	for _, req := range cases {
		_, err := client.CreateInvoice(context.Background(), req)
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr, "request %+v", req)
	}

	assert.Equal(t, int64(0), stub.calls.Load(), "validation failures must not hit the network")
}

func TestPaymentInfoIdentifiers(t *testing.T) {
	stub, srv := newProcessorStub(func(w http.ResponseWriter, r *http.Request) {
		w.Write(resultEnvelope(t, domain.Invoice{UUID: "uuid-1"}))
	})
	defer srv.Close()
	client := testClient(t, srv.URL)

	_, err := client.PaymentInfo(context.Background(), "", "")
	require.ErrorIs(t, err, domain.ErrMissingIdentifier)
	assert.Equal(t, int64(0), stub.calls.Load())

	// uuid takes precedence when both are supplied
	_, err = client.PaymentInfo(context.Background(), "uuid-1", "order-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"uuid":"uuid-1"}`, string(stub.lastBody))

	_, err = client.PaymentInfo(context.Background(), "", "order-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"order_id":"order-1"}`, string(stub.lastBody))
}

func TestErrorMapping(t *testing.T) {
	t.Run("non-2xx is a transport error", func(t *testing.T) {
		_, srv := newProcessorStub(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{}`))
		})
		defer srv.Close()

		_, err := testClient(t, srv.URL).PaymentInfo(context.Background(), "uuid-1", "")
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, http.StatusUnauthorized, transportErr.StatusCode)
	})

	t.Run("nonzero state is a processor error", func(t *testing.T) {
		_, srv := newProcessorStub(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"state":1,"message":"The payment was not found","errors":{"uuid":["invalid"]}}`))
		})
		defer srv.Close()

		_, err := testClient(t, srv.URL).PaymentInfo(context.Background(), "uuid-1", "")
		var processorErr *ProcessorError
		require.ErrorAs(t, err, &processorErr)
		assert.Equal(t, 1, processorErr.State)
		assert.Equal(t, "The payment was not found", processorErr.Message)
		assert.Equal(t, []string{"invalid"}, processorErr.FieldErrors["uuid"])
	})

	t.Run("unreachable processor is a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // connection refused

		_, err := testClient(t, srv.URL).PaymentInfo(context.Background(), "uuid-1", "")
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Zero(t, transportErr.StatusCode)
	})
}

func TestResendWebhookValidatesIdentifier(t *testing.T) {
	stub, srv := newProcessorStub(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"state":0,"result":[]}`))
	})
	defer srv.Close()
	client := testClient(t, srv.URL)

	err := client.ResendWebhook(context.Background(), "", "")
	require.True(t, errors.Is(err, domain.ErrMissingIdentifier))
	assert.Equal(t, int64(0), stub.calls.Load())

	require.NoError(t, client.ResendWebhook(context.Background(), "uuid-1", ""))
	assert.Equal(t, "/v1/payment/resend", stub.lastPath)
}
