package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Payment: Cryptomus
	CryptomusMerchantID string `env:"CRYPTOMUS_MERCHANT_UUID"`
	CryptomusAPIKey     string `env:"CRYPTOMUS_API_KEY"`
	CryptomusURL        string `env:"CRYPTOMUS_API_BASE_URL" envDefault:"https://api.cryptomus.com"`

	// Simulation mode replaces all processor calls with in-memory fakes.
	SimulationMode bool `env:"SIMULATION_MODE" envDefault:"false"`

	// Public base URL used to build callback/return/success links.
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`

	// Database (optional; in-memory invoice store when empty)
	DatabaseURL string `env:"DATABASE_URL"`

	// Server
	Port int `env:"PORT" envDefault:"3000"`

	// Telegram payment notifications (optional)
	NotifyBotToken    string `env:"NOTIFY_BOT_TOKEN"`
	NotifyChatID      int64  `env:"NOTIFY_TELEGRAM_CHAT_ID"`
	NotifyTopicPaid   int    `env:"NOTIFY_TOPIC_PAID"`
	NotifyTopicFailed int    `env:"NOTIFY_TOPIC_FAILED"`
	NotifyTopicReview int    `env:"NOTIFY_TOPIC_REVIEW"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// CallbackURL is the webhook endpoint the processor posts status changes to.
func (c *Config) CallbackURL() string {
	return c.AppBaseURL + "/api/cryptomus/webhook"
}

// ReturnURL is where the hosted payment page links back before completion.
func (c *Config) ReturnURL() string {
	return c.AppBaseURL + "/payment"
}

// SuccessURL is where the buyer lands after a successful payment.
func (c *Config) SuccessURL() string {
	return c.AppBaseURL + "/payment-success"
}
