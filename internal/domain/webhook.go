package domain

// WebhookEvent is one inbound signed notification from the processor. It is
// consumed once; the Sign field authenticates it and is excluded from the
// payload the signature covers.
//
// Field order matters: signature verification re-serializes the event, so
// the struct is declared in the processor's documented payload order.
type WebhookEvent struct {
	Type             string          `json:"type"`
	UUID             string          `json:"uuid"`
	OrderID          string          `json:"order_id"`
	Amount           string          `json:"amount"`
	PaymentAmount    string          `json:"payment_amount"`
	PaymentAmountUSD string          `json:"payment_amount_usd"`
	MerchantAmount   string          `json:"merchant_amount"`
	Commission       string          `json:"commission"`
	IsFinal          bool            `json:"is_final"`
	Status           PaymentStatus   `json:"status"`
	From             string          `json:"from"`
	WalletAddressID  *string         `json:"wallet_address_uuid"`
	Network          string          `json:"network"`
	Currency         string          `json:"currency"`
	PayerCurrency    string          `json:"payer_currency"`
	AdditionalData   *string         `json:"additional_data"`
	Convert          *WebhookConvert `json:"convert,omitempty"`
	TxID             string          `json:"txid,omitempty"`
	Sign             string          `json:"sign"`
}

// WebhookConvert carries currency-conversion details on converted payments.
type WebhookConvert struct {
	ToCurrency string  `json:"to_currency"`
	Commission *string `json:"commission"`
	Rate       string  `json:"rate"`
	Amount     string  `json:"amount"`
}

// EventTypePayment is the only event type the receiver dispatches on;
// other types are acknowledged and dropped.
const EventTypePayment = "payment"
