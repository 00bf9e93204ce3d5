package cryptomus

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/cryptoshop/internal/config"
	"github.com/set-night/cryptoshop/internal/domain"
	"github.com/shopspring/decimal"
)

// mockAddresses are fixed deposit addresses per currency, keyed by network
// where a currency spans several chains. Values mirror well-known vanity
// addresses so demo pages look plausible.
var mockAddresses = map[string]map[string]string{
	"BTC":  {"": "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"},
	"ETH":  {"": "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b5"},
	"LTC":  {"": "LTC1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"},
	"SOL":  {"": "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"},
	"TRX":  {"": "TQn9Y2khEsLJW1ChVWFMSMeRDow5KcbLSE"},
	"DOGE": {"": "DH5yaieqoZN36fDVciNyRueRGvGLR3mr7L"},
	"USDT": {
		"ethereum": "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b5",
		"tron":     "TQn9Y2khEsLJW1ChVWFMSMeRDow5KcbLSE",
		"bsc":      "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b5",
	},
	"USDC": {
		"ethereum": "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b5",
		"polygon":  "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b5",
		"bsc":      "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b5",
	},
}

// mockRates is the static USD exchange-rate table used for simulated
// currency conversion.
var mockRates = map[string]decimal.Decimal{
	"USD":  decimal.NewFromInt(1),
	"USDT": decimal.NewFromInt(1),
	"USDC": decimal.NewFromInt(1),
	"BTC":  decimal.NewFromFloat(43250.00),
	"ETH":  decimal.NewFromFloat(2650.00),
	"LTC":  decimal.NewFromFloat(72.50),
	"SOL":  decimal.NewFromFloat(98.50),
	"TRX":  decimal.NewFromFloat(0.105),
	"DOGE": decimal.NewFromFloat(0.085),
}

// Simulator is an in-memory stand-in for the processor. It satisfies API
// with deterministic fakes: fixed addresses, the static rate table, a
// 0.5% fee, and a locally hosted payment page instead of the processor's
// hosted URL. Status changes are driven by MarkStatus.
type Simulator struct {
	appBaseURL string
	apiKey     string

	mu       sync.RWMutex
	invoices map[string]*domain.Invoice
	byOrder  map[string]string
}

func NewSimulator(cfg *config.Config) *Simulator {
	return &Simulator{
		appBaseURL: cfg.AppBaseURL,
		apiKey:     cfg.CryptomusAPIKey,
		invoices:   make(map[string]*domain.Invoice),
		byOrder:    make(map[string]string),
	}
}

func mockAddress(currency, network string) string {
	byNetwork, ok := mockAddresses[currency]
	if !ok {
		return mockAddresses["BTC"][""]
	}
	if addr, ok := byNetwork[network]; ok {
		return addr
	}
	if addr, ok := byNetwork[""]; ok {
		return addr
	}
	for _, addr := range byNetwork {
		return addr
	}
	return mockAddresses["BTC"][""]
}

func convertAmount(amount decimal.Decimal, from, to string) decimal.Decimal {
	if from == to {
		return amount
	}
	fromRate, ok := mockRates[from]
	if !ok {
		fromRate = decimal.NewFromInt(1)
	}
	toRate, ok := mockRates[to]
	if !ok {
		toRate = decimal.NewFromInt(1)
	}
	return amount.Mul(fromRate).DivRound(toRate, 8)
}

func mockTxHash() string {
	buf := make([]byte, 32)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

// CreateInvoice fabricates an invoice in check status and stores it.
func (s *Simulator) CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	if err := validateCreateRequest(&req); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, &domain.ValidationError{Field: "amount", Message: "must be a positive decimal string"}
	}

	payerCurrency := req.Currency
	payerAmount := amount
	if req.ToCurrency != "" && req.ToCurrency != req.Currency {
		payerCurrency = req.ToCurrency
		payerAmount = convertAmount(amount, req.Currency, req.ToCurrency)
	}

	fee := decimal.NewFromFloat(config.SimulationFeePercent).Div(decimal.NewFromInt(100))
	merchantAmount := payerAmount.Mul(decimal.NewFromInt(1).Sub(fee))

	network := req.Network
	if network == "" {
		network = "mainnet"
	}

	now := time.Now()
	id := fmt.Sprintf("sim-%s", uuid.New().String())
	payerAmountStr := payerAmount.StringFixed(8)
	merchantAmountStr := merchantAmount.StringFixed(8)
	address := mockAddress(payerCurrency, req.Network)

	invoice := &domain.Invoice{
		UUID:           id,
		OrderID:        req.OrderID,
		Amount:         req.Amount,
		PayerAmount:    &payerAmountStr,
		Discount:       "0.00000000",
		PayerCurrency:  &payerCurrency,
		Currency:       req.Currency,
		MerchantAmount: &merchantAmountStr,
		Network:        &network,
		Address:        &address,
		PaymentStatus:  domain.StatusCheck,
		Status:         domain.StatusCheck,
		URL:            fmt.Sprintf("%s/simulate/payment/%s", s.appBaseURL, id),
		ExpiredAt:      now.Add(time.Duration(req.Lifetime) * time.Second).Unix(),
		AdditionalData: req.AdditionalData,
		CreatedAt:      now.UTC().Format(time.RFC3339),
		UpdatedAt:      now.UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	s.invoices[id] = invoice
	s.byOrder[req.OrderID] = id
	s.mu.Unlock()

	snapshot := *invoice
	return &snapshot, nil
}

// PaymentInfo returns the current snapshot. Expired non-terminal invoices
// read back as cancelled, the way the processor's own expiry behaves.
func (s *Simulator) PaymentInfo(ctx context.Context, uuid, orderID string) (*domain.Invoice, error) {
	req, err := newIdentifierRequest(uuid, orderID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := req.UUID
	if id == "" {
		id = s.byOrder[req.OrderID]
	}
	invoice, ok := s.invoices[id]
	if !ok {
		return nil, &ProcessorError{State: 1, Message: "payment not found"}
	}

	if !invoice.PaymentStatus.IsFinal() && time.Now().Unix() > invoice.ExpiredAt {
		s.transition(invoice, domain.StatusCancel)
	}

	snapshot := *invoice
	return &snapshot, nil
}

// MarkStatus applies a simulated status change, as if the buyer acted on
// the demo payment page. Terminal invoices absorb further changes.
func (s *Simulator) MarkStatus(uuid string, status domain.PaymentStatus) (*domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice, ok := s.invoices[uuid]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	if !invoice.PaymentStatus.IsFinal() {
		s.transition(invoice, status)
	}

	snapshot := *invoice
	return &snapshot, nil
}

// transition mutates the held invoice; caller holds the lock.
func (s *Simulator) transition(invoice *domain.Invoice, status domain.PaymentStatus) {
	invoice.PaymentStatus = status
	invoice.Status = status
	invoice.IsFinal = status.IsFinal()
	invoice.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if status.IsSuccess() {
		invoice.PaymentAmount = invoice.PayerAmount
		tx := mockTxHash()
		invoice.TxID = &tx
		currency := "BTC"
		if invoice.PayerCurrency != nil {
			currency = *invoice.PayerCurrency
		}
		from := mockAddress(currency, "")
		invoice.From = &from
	}
}

// BuildWebhook converts an invoice snapshot into a signed event suitable
// for loopback delivery to the local receiver.
func (s *Simulator) BuildWebhook(invoice *domain.Invoice) (*domain.WebhookEvent, error) {
	event := &domain.WebhookEvent{
		Type:             domain.EventTypePayment,
		UUID:             invoice.UUID,
		OrderID:          invoice.OrderID,
		Amount:           invoice.Amount,
		PaymentAmount:    strOrZero(invoice.PaymentAmount),
		PaymentAmountUSD: "0",
		MerchantAmount:   strOrZero(invoice.MerchantAmount),
		Commission:       "0",
		IsFinal:          invoice.IsFinal,
		Status:           invoice.PaymentStatus,
		From:             strOrEmpty(invoice.From),
		Network:          strOrEmpty(invoice.Network),
		Currency:         invoice.Currency,
		PayerCurrency:    strOrEmpty(invoice.PayerCurrency),
		AdditionalData:   invoice.AdditionalData,
		TxID:             strOrEmpty(invoice.TxID),
	}
	if err := SignWebhook(event, s.apiKey); err != nil {
		return nil, fmt.Errorf("sign webhook: %w", err)
	}
	return event, nil
}

func strOrZero(s *string) string {
	if s == nil {
		return "0"
	}
	return *s
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PaymentServices derives a service listing from the rate table.
func (s *Simulator) PaymentServices(ctx context.Context) ([]domain.PaymentServiceInfo, error) {
	services := make([]domain.PaymentServiceInfo, 0, len(mockAddresses))
	for currency, byNetwork := range mockAddresses {
		for network := range byNetwork {
			if network == "" {
				network = "mainnet"
			}
			info := domain.PaymentServiceInfo{
				Network:     network,
				Currency:    currency,
				IsAvailable: true,
			}
			info.Limit.MinAmount = "0.00000001"
			info.Limit.MaxAmount = "10000000"
			info.Commission.FeeAmount = "0"
			info.Commission.Percent = "0.5"
			services = append(services, info)
		}
	}
	return services, nil
}

// PaymentHistory lists every simulated invoice; no paging.
func (s *Simulator) PaymentHistory(ctx context.Context, filter domain.HistoryFilter) (*domain.PaymentHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := &domain.PaymentHistory{Items: make([]domain.Invoice, 0, len(s.invoices))}
	for _, invoice := range s.invoices {
		history.Items = append(history.Items, *invoice)
	}
	return history, nil
}

// ResendWebhook is a no-op beyond identifier validation; the simulator
// delivers webhooks synchronously via BuildWebhook.
func (s *Simulator) ResendWebhook(ctx context.Context, uuid, orderID string) error {
	_, err := newIdentifierRequest(uuid, orderID)
	return err
}

// TestWebhook is a no-op beyond identifier validation.
func (s *Simulator) TestWebhook(ctx context.Context, uuid, orderID string) error {
	_, err := newIdentifierRequest(uuid, orderID)
	return err
}
