package config

import "time"

const (
	// Invoice lifetime bounds (seconds)
	DefaultInvoiceLifetime = 3600
	MinInvoiceLifetime     = 300
	MaxInvoiceLifetime     = 43200

	// Status polling
	PollInterval = 10 * time.Second

	// Outbound request timeout
	RequestTimeout = 30 * time.Second

	// Simulated processor fee
	SimulationFeePercent = 0.5

	// Webhook notification send timeout
	NotifyTimeout = 10 * time.Second

	// Telegram message limit
	MaxNotifyMessageLen = 4096
)

// Placeholder credential values shipped in example env files. Requests must
// never be signed with these.
var PlaceholderCredentials = []string{
	"your-payment-api-key-here",
	"your-merchant-id-here",
	"your-merchant-uuid-here",
}
