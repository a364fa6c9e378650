// Package memory is an in-memory implementation of the store repositories.
// It is safe for concurrent use. Data is lost on service restart - it exists
// for tests and credential-free local runs, not for production.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nafisr/catatuang/internal/schema"
	"github.com/nafisr/catatuang/internal/store"
)

// New creates an empty in-memory store.
func New() *store.Store {
	return &store.Store{
		Categories:   &categoryRepo{records: make(map[string]*store.Category)},
		Accounts:     &accountRepo{records: make(map[string]*store.Account)},
		Transactions: &transactionRepo{records: make(map[string]*store.Transaction)},
	}
}

type categoryRepo struct {
	mu      sync.RWMutex
	records map[string]*store.Category
}

func (r *categoryRepo) FindByNameAndType(ctx context.Context, userID, name string, t schema.TransactionType) (*store.Category, error) {
	return r.find(userID, t, func(c *store.Category) bool { return c.Name == name })
}

func (r *categoryRepo) FindByNamesAndType(ctx context.Context, userID string, names []string, t schema.TransactionType) (*store.Category, error) {
	return r.find(userID, t, func(c *store.Category) bool {
		for _, n := range names {
			if c.Name == n {
				return true
			}
		}
		return false
	})
}

func (r *categoryRepo) find(userID string, t schema.TransactionType, match func(*store.Category) bool) (*store.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.records {
		if c.UserID == userID && c.Type == t && match(c) {
			// Return a copy to avoid external modifications
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) Insert(ctx context.Context, c *store.Category) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *c
	cp.ID = uuid.NewString()
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.records[cp.ID] = &cp
	c.ID = cp.ID
	return cp.ID, nil
}

func (r *categoryRepo) ListByUser(ctx context.Context, userID string) ([]*store.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var categories []*store.Category
	for _, c := range r.records {
		if c.UserID == userID {
			cp := *c
			categories = append(categories, &cp)
		}
	}
	return categories, nil
}

type accountRepo struct {
	mu      sync.RWMutex
	records map[string]*store.Account
}

func (r *accountRepo) FindByName(ctx context.Context, userID, name string) (*store.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.records {
		if a.UserID == userID && a.Name == name {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *accountRepo) Insert(ctx context.Context, a *store.Account) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *a
	cp.ID = uuid.NewString()
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.records[cp.ID] = &cp
	a.ID = cp.ID
	return cp.ID, nil
}

func (r *accountRepo) ListByUser(ctx context.Context, userID string) ([]*store.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var accounts []*store.Account
	for _, a := range r.records {
		if a.UserID == userID {
			cp := *a
			accounts = append(accounts, &cp)
		}
	}
	return accounts, nil
}

type transactionRepo struct {
	mu      sync.RWMutex
	records map[string]*store.Transaction
}

func (r *transactionRepo) Insert(ctx context.Context, tx *store.Transaction) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *tx
	cp.ID = uuid.NewString()
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.records[cp.ID] = &cp
	tx.ID = cp.ID
	return cp.ID, nil
}

func (r *transactionRepo) ListByUser(ctx context.Context, userID string) ([]*store.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var txs []*store.Transaction
	for _, tx := range r.records {
		if tx.UserID == userID {
			cp := *tx
			txs = append(txs, &cp)
		}
	}
	return txs, nil
}
