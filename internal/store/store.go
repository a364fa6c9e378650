// Package store defines the persisted record shapes and the repository
// interfaces the recorder depends on. Implementations live in subpackages:
// firestore for the real document store, memory for tests and local runs.
package store

import (
	"context"
	"time"

	"github.com/nafisr/catatuang/internal/schema"
)

// Collection names in the document store.
const (
	CollectionTransactions = "transactions"
	CollectionCategories   = "transaction_categories"
	CollectionAccounts     = "accounts"
)

// Category is a reference record created lazily on first encounter of a new
// category name. Never updated or deleted by this service.
type Category struct {
	ID        string                 `firestore:"-" json:"id"`
	Name      string                 `firestore:"name" json:"name"`
	Type      schema.TransactionType `firestore:"type" json:"type"`
	IsDefault bool                   `firestore:"is_default" json:"is_default"`
	UserID    string                 `firestore:"user_id" json:"user_id"`
	CreatedAt time.Time              `firestore:"created_at,serverTimestamp" json:"created_at"`
	UpdatedAt time.Time              `firestore:"updated_at,serverTimestamp" json:"updated_at"`
}

// Account is a reference record for a wallet or bank account. Accounts are
// type-agnostic: the same account can fund expenses and receive income.
type Account struct {
	ID        string    `firestore:"-" json:"id"`
	Name      string    `firestore:"name" json:"name"`
	IsDefault bool      `firestore:"is_default" json:"is_default"`
	UserID    string    `firestore:"user_id" json:"user_id"`
	CreatedAt time.Time `firestore:"created_at,serverTimestamp" json:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at,serverTimestamp" json:"updated_at"`
}

// Transaction is the persisted result of one successful analyze call.
// Exactly one of SourceAccountID/DestinationAccountID is set, depending on
// the transaction type. AICategoryName and AIAccountName keep the raw model
// output for traceability after reconciliation may have mapped the names onto
// existing records.
type Transaction struct {
	ID                   string                 `firestore:"-" json:"id"`
	Amount               int64                  `firestore:"amount" json:"amount"`
	Type                 schema.TransactionType `firestore:"type" json:"type"`
	Note                 string                 `firestore:"note" json:"note"`
	TransactionDate      string                 `firestore:"transaction_date" json:"transaction_date"`
	CategoryID           string                 `firestore:"category_id" json:"category_id"`
	SourceAccountID      *string                `firestore:"source_account_id" json:"source_account_id"`
	DestinationAccountID *string                `firestore:"destination_account_id" json:"destination_account_id"`
	UserID               string                 `firestore:"user_id" json:"user_id"`
	AICategoryName       string                 `firestore:"ai_category_name" json:"ai_category_name"`
	AIAccountName        string                 `firestore:"ai_account_name" json:"ai_account_name"`
	CreatedAt            time.Time              `firestore:"created_at,serverTimestamp" json:"created_at"`
	UpdatedAt            time.Time              `firestore:"updated_at,serverTimestamp" json:"updated_at"`
}

// CategoryRepository is the lookup-or-create surface for categories. Find
// methods return (nil, nil) when nothing matches. There is no store-side
// uniqueness constraint: concurrent requests resolving the same new name can
// both miss the lookup and both create a record. The store owns concurrency
// control and this service does not add its own.
type CategoryRepository interface {
	// FindByNameAndType matches on (name, type) for the given user, at most
	// one result.
	FindByNameAndType(ctx context.Context, userID, name string, t schema.TransactionType) (*Category, error)
	// FindByNamesAndType matches on (name IN names, type), at most one result.
	FindByNamesAndType(ctx context.Context, userID string, names []string, t schema.TransactionType) (*Category, error)
	// Insert appends a new record and returns its generated id.
	Insert(ctx context.Context, c *Category) (string, error)
	ListByUser(ctx context.Context, userID string) ([]*Category, error)
}

// AccountRepository mirrors CategoryRepository for accounts, without the type
// dimension.
type AccountRepository interface {
	FindByName(ctx context.Context, userID, name string) (*Account, error)
	Insert(ctx context.Context, a *Account) (string, error)
	ListByUser(ctx context.Context, userID string) ([]*Account, error)
}

// TransactionRepository appends and lists transaction records. Records are
// never mutated after the append.
type TransactionRepository interface {
	Insert(ctx context.Context, tx *Transaction) (string, error)
	ListByUser(ctx context.Context, userID string) ([]*Transaction, error)
}

// Store bundles the three repositories an API instance runs against.
type Store struct {
	Categories   CategoryRepository
	Accounts     AccountRepository
	Transactions TransactionRepository
}
