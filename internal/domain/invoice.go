package domain

// Invoice is the authoritative record of one payment attempt, mirroring the
// processor's wire shape. Amounts stay decimal strings end to end; chain
// fields are pointers because they are null until payment is observed.
type Invoice struct {
	UUID            string        `json:"uuid"`
	OrderID         string        `json:"order_id"`
	Amount          string        `json:"amount"`
	PaymentAmount   *string       `json:"payment_amount"`
	PayerAmount     *string       `json:"payer_amount"`
	DiscountPercent *int          `json:"discount_percent"`
	Discount        string        `json:"discount"`
	PayerCurrency   *string       `json:"payer_currency"`
	Currency        string        `json:"currency"`
	MerchantAmount  *string       `json:"merchant_amount"`
	Network         *string       `json:"network"`
	Address         *string       `json:"address"`
	From            *string       `json:"from"`
	TxID            *string       `json:"txid"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	URL             string        `json:"url"`
	ExpiredAt       int64         `json:"expired_at"`
	Status          PaymentStatus `json:"status"`
	IsFinal         bool          `json:"is_final"`
	AdditionalData  *string       `json:"additional_data"`
	CreatedAt       string        `json:"created_at"`
	UpdatedAt       string        `json:"updated_at"`
}

// CreateInvoiceRequest is the body for the invoice-creation call.
type CreateInvoiceRequest struct {
	Amount         string  `json:"amount"`
	Currency       string  `json:"currency"`
	OrderID        string  `json:"order_id"`
	Network        string  `json:"network,omitempty"`
	URLReturn      string  `json:"url_return,omitempty"`
	URLSuccess     string  `json:"url_success,omitempty"`
	URLCallback    string  `json:"url_callback,omitempty"`
	IsPaymentMulti bool    `json:"is_payment_multiple,omitempty"`
	Lifetime       int     `json:"lifetime,omitempty"`
	ToCurrency     string  `json:"to_currency,omitempty"`
	AdditionalData *string `json:"additional_data,omitempty"`
}

// HistoryFilter narrows a payment-history listing.
type HistoryFilter struct {
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
	Cursor   string `json:"cursor,omitempty"`
}

// PaymentHistory is one page of past invoices.
type PaymentHistory struct {
	Items    []Invoice `json:"items"`
	Cursor   string    `json:"cursor,omitempty"`
	HasPages bool      `json:"has_pages,omitempty"`
}

// PaymentServiceInfo describes one currency/network pair the processor
// accepts, with its limits and commission.
type PaymentServiceInfo struct {
	Network     string `json:"network"`
	Currency    string `json:"currency"`
	IsAvailable bool   `json:"is_available"`
	Limit       struct {
		MinAmount string `json:"min_amount"`
		MaxAmount string `json:"max_amount"`
	} `json:"limit"`
	Commission struct {
		FeeAmount string `json:"fee_amount"`
		Percent   string `json:"percent"`
	} `json:"commission"`
}
