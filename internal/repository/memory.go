package repository

import (
	"context"
	"sync"

	"github.com/set-night/cryptoshop/internal/domain"
)

// MemoryInvoiceRepo keeps invoice snapshots in memory with the same
// terminal-wins update rule as the Postgres repo. Used in simulation mode
// and in tests, where durable persistence is not wanted.
type MemoryInvoiceRepo struct {
	mu      sync.RWMutex
	byUUID  map[string]domain.Invoice
	byOrder map[string]string
}

func NewMemoryInvoiceRepo() *MemoryInvoiceRepo {
	return &MemoryInvoiceRepo{
		byUUID:  make(map[string]domain.Invoice),
		byOrder: make(map[string]string),
	}
}

func (r *MemoryInvoiceRepo) Save(ctx context.Context, inv *domain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUUID[inv.UUID]; ok {
		return nil
	}
	r.byUUID[inv.UUID] = *inv
	r.byOrder[inv.OrderID] = inv.UUID
	return nil
}

func (r *MemoryInvoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byUUID[inv.UUID]
	if !ok || existing.IsFinal {
		return nil
	}
	r.byUUID[inv.UUID] = *inv
	return nil
}

func (r *MemoryInvoiceRepo) ByUUID(ctx context.Context, uuid string) (*domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.byUUID[uuid]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	snapshot := inv
	return &snapshot, nil
}

func (r *MemoryInvoiceRepo) ByOrderID(ctx context.Context, orderID string) (*domain.Invoice, error) {
	r.mu.RLock()
	uuid, ok := r.byOrder[orderID]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	return r.ByUUID(ctx, uuid)
}
