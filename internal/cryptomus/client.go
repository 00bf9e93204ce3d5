package cryptomus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/set-night/cryptoshop/internal/config"
	"github.com/set-night/cryptoshop/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	endpointCreatePayment   = "/v1/payment"
	endpointPaymentInfo     = "/v1/payment/info"
	endpointPaymentServices = "/v1/payment/services"
	endpointPaymentHistory  = "/v1/payment/list"
	endpointResendWebhook   = "/v1/payment/resend"
	endpointTestWebhook     = "/v1/test/webhook/payment"
)

// API is the processor contract. The real client and the simulator both
// satisfy it; the composition root picks one.
type API interface {
	CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest) (*domain.Invoice, error)
	PaymentInfo(ctx context.Context, uuid, orderID string) (*domain.Invoice, error)
	PaymentServices(ctx context.Context) ([]domain.PaymentServiceInfo, error)
	PaymentHistory(ctx context.Context, filter domain.HistoryFilter) (*domain.PaymentHistory, error)
	ResendWebhook(ctx context.Context, uuid, orderID string) error
	TestWebhook(ctx context.Context, uuid, orderID string) error
}

// Client talks to the Cryptomus payment API with merchant/sign
// authentication on every request. It holds only immutable configuration
// and is safe for concurrent use.
type Client struct {
	baseURL    string
	merchantID string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an authenticated client. Missing or placeholder
// credentials fail fast with a ConfigError before any request is made.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.CryptomusAPIKey == "" || isPlaceholder(cfg.CryptomusAPIKey) {
		return nil, &ConfigError{
			Field: "CRYPTOMUS_API_KEY",
			Hint:  "is not set or still a placeholder; get your Payment API key from the Cryptomus dashboard, Settings, API",
		}
	}
	if cfg.CryptomusMerchantID == "" || isPlaceholder(cfg.CryptomusMerchantID) {
		return nil, &ConfigError{
			Field: "CRYPTOMUS_MERCHANT_UUID",
			Hint:  "is not set or still a placeholder; get your merchant ID from the Cryptomus dashboard, Settings, API",
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.CryptomusURL, "/"),
		merchantID: cfg.CryptomusMerchantID,
		apiKey:     cfg.CryptomusAPIKey,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
	}, nil
}

func isPlaceholder(value string) bool {
	for _, p := range config.PlaceholderCredentials {
		if value == p {
			return true
		}
	}
	return false
}

type apiResponse struct {
	State   int                 `json:"state"`
	Result  json.RawMessage     `json:"result"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// do marshals payload, signs the exact wire bytes, posts, and decodes the
// processor envelope into result. A nil payload sends an empty body with
// the empty-body signature.
func (c *Client) do(ctx context.Context, endpoint string, payload any, result any) error {
	var (
		body []byte
		err  error
	)
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("merchant", c.merchantID)
	req.Header.Set("sign", Sign(body, c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{StatusCode: resp.StatusCode}
	}

	var envelope apiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if envelope.State != 0 {
		msg := envelope.Message
		if msg == "" {
			msg = "unknown error"
		}
		return &ProcessorError{State: envelope.State, Message: msg, FieldErrors: envelope.Errors}
	}

	if result != nil {
		if envelope.Result == nil {
			return fmt.Errorf("no result in response")
		}
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}
	return nil
}

// CreateInvoice reserves a deposit address at the processor and returns
// the new invoice in check status. Amount and currency are validated
// locally first; lifetime is clamped to the processor's bounds.
func (c *Client) CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	if err := validateCreateRequest(&req); err != nil {
		return nil, err
	}

	var invoice domain.Invoice
	if err := c.do(ctx, endpointCreatePayment, req, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func validateCreateRequest(req *domain.CreateInvoiceRequest) error {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return &domain.ValidationError{Field: "amount", Message: "must be a positive decimal string"}
	}
	if req.Currency == "" {
		return &domain.ValidationError{Field: "currency", Message: "is required"}
	}
	if req.OrderID == "" {
		return &domain.ValidationError{Field: "order_id", Message: "is required"}
	}

	switch {
	case req.Lifetime == 0:
		req.Lifetime = config.DefaultInvoiceLifetime
	case req.Lifetime < config.MinInvoiceLifetime:
		req.Lifetime = config.MinInvoiceLifetime
	case req.Lifetime > config.MaxInvoiceLifetime:
		req.Lifetime = config.MaxInvoiceLifetime
	}
	return nil
}

type identifierRequest struct {
	UUID    string `json:"uuid,omitempty"`
	OrderID string `json:"order_id,omitempty"`
}

// newIdentifierRequest enforces exactly-one-of: uuid wins when both are
// given, neither is a local validation failure.
func newIdentifierRequest(uuid, orderID string) (identifierRequest, error) {
	if uuid == "" && orderID == "" {
		return identifierRequest{}, domain.ErrMissingIdentifier
	}
	if uuid != "" {
		return identifierRequest{UUID: uuid}, nil
	}
	return identifierRequest{OrderID: orderID}, nil
}

// PaymentInfo fetches the current invoice snapshot by uuid or order id.
func (c *Client) PaymentInfo(ctx context.Context, uuid, orderID string) (*domain.Invoice, error) {
	req, err := newIdentifierRequest(uuid, orderID)
	if err != nil {
		return nil, err
	}

	var invoice domain.Invoice
	if err := c.do(ctx, endpointPaymentInfo, req, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// PaymentServices lists the currency/network pairs the merchant accepts.
func (c *Client) PaymentServices(ctx context.Context) ([]domain.PaymentServiceInfo, error) {
	var services []domain.PaymentServiceInfo
	if err := c.do(ctx, endpointPaymentServices, struct{}{}, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// PaymentHistory returns one page of past invoices.
func (c *Client) PaymentHistory(ctx context.Context, filter domain.HistoryFilter) (*domain.PaymentHistory, error) {
	var history domain.PaymentHistory
	if err := c.do(ctx, endpointPaymentHistory, filter, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// ResendWebhook asks the processor to redeliver the last webhook for an
// invoice.
func (c *Client) ResendWebhook(ctx context.Context, uuid, orderID string) error {
	req, err := newIdentifierRequest(uuid, orderID)
	if err != nil {
		return err
	}
	return c.do(ctx, endpointResendWebhook, req, nil)
}

// TestWebhook triggers a processor-side test delivery.
func (c *Client) TestWebhook(ctx context.Context, uuid, orderID string) error {
	req, err := newIdentifierRequest(uuid, orderID)
	if err != nil {
		return err
	}
	return c.do(ctx, endpointTestWebhook, req, nil)
}
