// Package firestore implements the store repositories on Cloud Firestore.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/nafisr/catatuang/internal/schema"
	"github.com/nafisr/catatuang/internal/store"
)

// New connects to Firestore and returns the repository bundle plus a close
// function for shutdown.
func New(ctx context.Context, projectID string) (*store.Store, func() error, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("firestore.New: creating client: %w", err)
	}

	s := &store.Store{
		Categories:   &categoryRepo{client: client},
		Accounts:     &accountRepo{client: client},
		Transactions: &transactionRepo{client: client},
	}
	return s, client.Close, nil
}

type categoryRepo struct {
	client *firestore.Client
}

func (r *categoryRepo) FindByNameAndType(ctx context.Context, userID, name string, t schema.TransactionType) (*store.Category, error) {
	iter := r.client.Collection(store.CollectionCategories).
		Where("user_id", "==", userID).
		Where("name", "==", name).
		Where("type", "==", string(t)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByNameAndType: reading query: %w", err)
	}

	var c store.Category
	if err := doc.DataTo(&c); err != nil {
		return nil, fmt.Errorf("FindByNameAndType: decoding document: %w", err)
	}
	c.ID = doc.Ref.ID
	return &c, nil
}

func (r *categoryRepo) FindByNamesAndType(ctx context.Context, userID string, names []string, t schema.TransactionType) (*store.Category, error) {
	iter := r.client.Collection(store.CollectionCategories).
		Where("user_id", "==", userID).
		Where("name", "in", names).
		Where("type", "==", string(t)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByNamesAndType: reading query: %w", err)
	}

	var c store.Category
	if err := doc.DataTo(&c); err != nil {
		return nil, fmt.Errorf("FindByNamesAndType: decoding document: %w", err)
	}
	c.ID = doc.Ref.ID
	return &c, nil
}

func (r *categoryRepo) Insert(ctx context.Context, c *store.Category) (string, error) {
	ref, _, err := r.client.Collection(store.CollectionCategories).Add(ctx, c)
	if err != nil {
		return "", fmt.Errorf("categoryRepo.Insert: adding document: %w", err)
	}
	c.ID = ref.ID
	return ref.ID, nil
}

func (r *categoryRepo) ListByUser(ctx context.Context, userID string) ([]*store.Category, error) {
	// No OrderBy: keeps the query index-free.
	iter := r.client.Collection(store.CollectionCategories).
		Where("user_id", "==", userID).
		Documents(ctx)
	defer iter.Stop()

	var categories []*store.Category
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("categoryRepo.ListByUser: iterating: %w", err)
		}
		var c store.Category
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("categoryRepo.ListByUser: decoding document: %w", err)
		}
		c.ID = doc.Ref.ID
		categories = append(categories, &c)
	}
	return categories, nil
}

type accountRepo struct {
	client *firestore.Client
}

func (r *accountRepo) FindByName(ctx context.Context, userID, name string) (*store.Account, error) {
	iter := r.client.Collection(store.CollectionAccounts).
		Where("user_id", "==", userID).
		Where("name", "==", name).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByName: reading query: %w", err)
	}

	var a store.Account
	if err := doc.DataTo(&a); err != nil {
		return nil, fmt.Errorf("FindByName: decoding document: %w", err)
	}
	a.ID = doc.Ref.ID
	return &a, nil
}

func (r *accountRepo) Insert(ctx context.Context, a *store.Account) (string, error) {
	ref, _, err := r.client.Collection(store.CollectionAccounts).Add(ctx, a)
	if err != nil {
		return "", fmt.Errorf("accountRepo.Insert: adding document: %w", err)
	}
	a.ID = ref.ID
	return ref.ID, nil
}

func (r *accountRepo) ListByUser(ctx context.Context, userID string) ([]*store.Account, error) {
	iter := r.client.Collection(store.CollectionAccounts).
		Where("user_id", "==", userID).
		Documents(ctx)
	defer iter.Stop()

	var accounts []*store.Account
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("accountRepo.ListByUser: iterating: %w", err)
		}
		var a store.Account
		if err := doc.DataTo(&a); err != nil {
			return nil, fmt.Errorf("accountRepo.ListByUser: decoding document: %w", err)
		}
		a.ID = doc.Ref.ID
		accounts = append(accounts, &a)
	}
	return accounts, nil
}

type transactionRepo struct {
	client *firestore.Client
}

func (r *transactionRepo) Insert(ctx context.Context, tx *store.Transaction) (string, error) {
	ref, _, err := r.client.Collection(store.CollectionTransactions).Add(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("transactionRepo.Insert: adding document: %w", err)
	}
	tx.ID = ref.ID
	return ref.ID, nil
}

func (r *transactionRepo) ListByUser(ctx context.Context, userID string) ([]*store.Transaction, error) {
	iter := r.client.Collection(store.CollectionTransactions).
		Where("user_id", "==", userID).
		Documents(ctx)
	defer iter.Stop()

	var txs []*store.Transaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("transactionRepo.ListByUser: iterating: %w", err)
		}
		var tx store.Transaction
		if err := doc.DataTo(&tx); err != nil {
			return nil, fmt.Errorf("transactionRepo.ListByUser: decoding document: %w", err)
		}
		tx.ID = doc.Ref.ID
		txs = append(txs, &tx)
	}
	return txs, nil
}
