package service

import "github.com/set-night/cryptoshop/internal/domain"

// Catalog is the static product list. Products are compiled in; a real
// deployment would back this with the database, but the storefront's
// catalog is deliberately thin.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

var defaultProducts = []domain.Product{
	{ID: "premium-course", Name: "Premium Crypto Course", Description: "Complete guide to cryptocurrency trading and investment", Price: "0.01", Currency: "USD"},
	{ID: "nft-artwork", Name: "Exclusive NFT Artwork", Description: "Limited edition digital artwork collection", Price: "0.005", Currency: "USD"},
	{ID: "trading-bot", Name: "Trading Bot License", Description: "Automated trading bot with advanced strategies", Price: "0.02", Currency: "USD"},
	{ID: "consultation", Name: "1-on-1 Consultation", Description: "Personal crypto investment consultation session", Price: "15", Currency: "USD"},
	{ID: "defi-guide", Name: "DeFi Mastery Guide", Description: "Comprehensive DeFi protocols and yield farming guide", Price: "25", Currency: "USD"},
	{ID: "wallet-security", Name: "Wallet Security Kit", Description: "Tools and guides for securing your crypto assets", Price: "0.008", Currency: "USD"},
}

func NewCatalog() *Catalog {
	c := &Catalog{
		products: defaultProducts,
		byID:     make(map[string]int, len(defaultProducts)),
	}
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

func (c *Catalog) Products() []domain.Product {
	return c.products
}

func (c *Catalog) ByID(id string) (*domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &c.products[i], nil
}
