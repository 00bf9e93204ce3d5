package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/cryptoshop/internal/domain"
)

// InvoiceRepo persists invoice snapshots in Postgres. Status updates are
// guarded so a terminal snapshot is never overwritten by a non-terminal
// one: out-of-order webhook deliveries resolve terminal-wins.
type InvoiceRepo struct {
	db *pgxpool.Pool
}

func NewInvoiceRepo(db *pgxpool.Pool) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

const invoiceColumns = `uuid, order_id, amount, payment_amount, payer_amount,
	payer_currency, currency, merchant_amount, network, address, sender,
	txid, payment_status, url, expired_at, is_final, additional_data,
	created_at, updated_at`

func (r *InvoiceRepo) Save(ctx context.Context, inv *domain.Invoice) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (uuid) DO NOTHING`,
		inv.UUID, inv.OrderID, inv.Amount, inv.PaymentAmount, inv.PayerAmount,
		inv.PayerCurrency, inv.Currency, inv.MerchantAmount, inv.Network, inv.Address, inv.From,
		inv.TxID, inv.PaymentStatus, inv.URL, inv.ExpiredAt, inv.IsFinal, inv.AdditionalData,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save invoice: %w", err)
	}
	return nil
}

// Update replaces a stored snapshot unless it is already terminal. A
// skipped update is not an error; the terminal snapshot stands.
func (r *InvoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	_, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET payment_amount = $2, payer_amount = $3, payer_currency = $4,
			merchant_amount = $5, network = $6, address = $7, sender = $8,
			txid = $9, payment_status = $10, expired_at = $11, is_final = $12,
			updated_at = $13
		WHERE uuid = $1 AND is_final = false`,
		inv.UUID, inv.PaymentAmount, inv.PayerAmount, inv.PayerCurrency,
		inv.MerchantAmount, inv.Network, inv.Address, inv.From,
		inv.TxID, inv.PaymentStatus, inv.ExpiredAt, inv.IsFinal,
		inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) ByUUID(ctx context.Context, uuid string) (*domain.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE uuid = $1`, uuid)
}

func (r *InvoiceRepo) ByOrderID(ctx context.Context, orderID string) (*domain.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE order_id = $1`, orderID)
}

func (r *InvoiceRepo) get(ctx context.Context, query, arg string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&inv.UUID, &inv.OrderID, &inv.Amount, &inv.PaymentAmount, &inv.PayerAmount,
		&inv.PayerCurrency, &inv.Currency, &inv.MerchantAmount, &inv.Network, &inv.Address, &inv.From,
		&inv.TxID, &inv.PaymentStatus, &inv.URL, &inv.ExpiredAt, &inv.IsFinal, &inv.AdditionalData,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.Status = inv.PaymentStatus
	return &inv, nil
}
