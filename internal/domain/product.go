package domain

// Product is one purchasable catalog item. Price is a decimal string in
// the product's currency, matching the processor's amount format.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
}
