// Package schema is the single source of truth for the transaction contract:
// the transaction type enum, the default vocabularies shown to the model (and
// to any UI), and the shape the extractor produces.
package schema

// TransactionType says which way money moved.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// FallbackCategory is where uncertain classifications land. "Lainnya" is the
// Indonesian label some seeded datasets use for the same bucket.
const (
	FallbackCategory      = "Others"
	FallbackCategoryAlias = "Lainnya"
	FallbackAccount       = "Cash"
)

// DefaultCategories is the category vocabulary offered to the model.
var DefaultCategories = []string{
	"Foods and Beverages",
	"Transportations",
	"Shopping",
	"Recreation",
	"Health",
	"Education",
	"Salary",
	"Gifts",
	"Investments",
	"Others",
}

// DefaultAccounts is the account/wallet vocabulary offered to the model.
var DefaultAccounts = []string{
	"Cash",
	"BCA",
	"Mandiri",
	"BRI",
	"BNI",
	"Gopay",
	"OVO",
	"Dana",
	"ShopeePay",
	"Others",
}

// ExtractedTransaction is what the model is asked to return for one piece of
// user text. It lives only for the duration of a request; the persisted record
// is assembled from it after reconciliation.
type ExtractedTransaction struct {
	// Amount is in the smallest currency unit. 0 means no amount was detected.
	Amount int64 `json:"amount"`
	// Category should be one of DefaultCategories, but the model may emit
	// anything; reconciliation decides what to do with unknown names.
	Category string `json:"category"`
	// Account may be empty, which means "Cash".
	Account string          `json:"account"`
	Type    TransactionType `json:"type"`
	// Note is a short Title Case label without numerals.
	Note string `json:"note"`
	// Date is RFC 3339, resolved against server time when the text had no
	// explicit time reference.
	Date string `json:"date"`
}
