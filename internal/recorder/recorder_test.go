package recorder

import (
	"context"
	"errors"
	"testing"

	"github.com/nafisr/catatuang/internal/apperrors"
	"github.com/nafisr/catatuang/internal/logger"
	"github.com/nafisr/catatuang/internal/schema"
	"github.com/nafisr/catatuang/internal/store"
	"github.com/nafisr/catatuang/internal/store/memory"
)

// stubExtractor returns a fixed result or error and records whether it ran.
type stubExtractor struct {
	result *schema.ExtractedTransaction
	err    error
	called bool
}

func (s *stubExtractor) Extract(ctx context.Context, userText string) (*schema.ExtractedTransaction, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	cp := *s.result
	return &cp, nil
}

func extractedExpense() *schema.ExtractedTransaction {
	return &schema.ExtractedTransaction{
		Amount:   15000,
		Category: "Foods and Beverages",
		Account:  "Gopay",
		Type:     schema.TypeExpense,
		Note:     "Beli Kopi",
		Date:     "2025-08-29T10:00:00Z",
	}
}

func newRecorder(ext *stubExtractor, st *store.Store) *Recorder {
	return New(ext, st, logger.NewWithWriter(discard{}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func wantCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	appErr, ok := apperrors.As(err)
	if !ok {
		t.Fatalf("expected typed error, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("error code = %s, want %s", appErr.Code, code)
	}
}

func wantLen(t *testing.T, err error, got, want int, what string) {
	t.Helper()
	if err != nil {
		t.Fatalf("listing %s: %v", what, err)
	}
	if got != want {
		t.Fatalf("%s count = %d, want %d", what, got, want)
	}
}

func assertNoWrites(t *testing.T, st *store.Store, userID string) {
	t.Helper()
	ctx := context.Background()

	cats, err := st.Categories.ListByUser(ctx, userID)
	wantLen(t, err, len(cats), 0, "categories")
	accs, err := st.Accounts.ListByUser(ctx, userID)
	wantLen(t, err, len(accs), 0, "accounts")
	txs, err := st.Transactions.ListByUser(ctx, userID)
	wantLen(t, err, len(txs), 0, "transactions")
}

func TestRecord_Unauthenticated(t *testing.T) {
	ext := &stubExtractor{result: extractedExpense()}
	rec := newRecorder(ext, memory.New())

	_, err := rec.Record(context.Background(), "", "beli kopi 15rb")
	wantCode(t, err, apperrors.CodeUnauthenticated)
	if ext.called {
		t.Error("extractor must not run for unauthenticated calls")
	}
}

func TestRecord_TextTooShort(t *testing.T) {
	tests := []string{"", "ab", "15"}
	for _, text := range tests {
		ext := &stubExtractor{result: extractedExpense()}
		rec := newRecorder(ext, memory.New())

		_, err := rec.Record(context.Background(), "user-1", text)
		wantCode(t, err, apperrors.CodeInvalidArgument)
		if ext.called {
			t.Errorf("extractor must not run for text %q", text)
		}
	}
}

func TestRecord_NoAmountIsDataLoss(t *testing.T) {
	for _, amount := range []int64{0, -500} {
		extracted := extractedExpense()
		extracted.Amount = amount
		st := memory.New()
		rec := newRecorder(&stubExtractor{result: extracted}, st)

		_, err := rec.Record(context.Background(), "user-1", "beli kopi entah berapa")
		wantCode(t, err, apperrors.CodeDataLoss)
		assertNoWrites(t, st, "user-1")
	}
}

func TestRecord_ExtractorFailureIsInternal(t *testing.T) {
	st := memory.New()
	rec := newRecorder(&stubExtractor{err: errors.New("model unreachable")}, st)

	_, err := rec.Record(context.Background(), "user-1", "beli kopi 15rb")
	wantCode(t, err, apperrors.CodeInternal)
	assertNoWrites(t, st, "user-1")
}

func TestRecord_UnknownTypeIsInternal(t *testing.T) {
	extracted := extractedExpense()
	extracted.Type = "transfer"
	st := memory.New()
	rec := newRecorder(&stubExtractor{result: extracted}, st)

	_, err := rec.Record(context.Background(), "user-1", "pindah saldo 50rb")
	wantCode(t, err, apperrors.CodeInternal)
	assertNoWrites(t, st, "user-1")
}

func TestRecord_ExpenseRoutesSourceAccount(t *testing.T) {
	st := memory.New()
	rec := newRecorder(&stubExtractor{result: extractedExpense()}, st)

	result, err := rec.Record(context.Background(), "user-1", "beli kopi 15rb pake gopay")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	txs, err := st.Transactions.ListByUser(context.Background(), "user-1")
	wantLen(t, err, len(txs), 1, "transactions")
	tx := txs[0]

	if tx.ID != result.TransactionID {
		t.Errorf("persisted id %q != returned id %q", tx.ID, result.TransactionID)
	}
	if tx.Amount != 15000 {
		t.Errorf("Amount = %d, want the extracted amount 15000 unchanged", tx.Amount)
	}
	if tx.SourceAccountID == nil {
		t.Fatal("expense must set source_account_id")
	}
	if tx.DestinationAccountID != nil {
		t.Error("expense must leave destination_account_id null")
	}
	if tx.UserID != "user-1" {
		t.Errorf("UserID = %q, want the caller identity", tx.UserID)
	}
	if tx.AICategoryName != "Foods and Beverages" || tx.AIAccountName != "Gopay" {
		t.Errorf("denormalized names = %q/%q", tx.AICategoryName, tx.AIAccountName)
	}
}

func TestRecord_IncomeRoutesDestinationAccount(t *testing.T) {
	extracted := &schema.ExtractedTransaction{
		Amount:   5000000,
		Category: "Salary",
		Account:  "BCA",
		Type:     schema.TypeIncome,
		Note:     "Gaji Bulanan",
		Date:     "2025-08-29T10:00:00Z",
	}
	st := memory.New()
	rec := newRecorder(&stubExtractor{result: extracted}, st)

	if _, err := rec.Record(context.Background(), "user-1", "gaji 5jt masuk bca"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	txs, err := st.Transactions.ListByUser(context.Background(), "user-1")
	wantLen(t, err, len(txs), 1, "transactions")
	tx := txs[0]

	if tx.DestinationAccountID == nil {
		t.Fatal("income must set destination_account_id")
	}
	if tx.SourceAccountID != nil {
		t.Error("income must leave source_account_id null")
	}
}

func TestRecord_CreatesCategoryOnceAndReuses(t *testing.T) {
	extracted := extractedExpense()
	extracted.Category = "Snacks"
	st := memory.New()
	rec := newRecorder(&stubExtractor{result: extracted}, st)
	ctx := context.Background()

	first, err := rec.Record(ctx, "user-1", "jajan snack 15rb")
	if err != nil {
		t.Fatalf("first Record failed: %v", err)
	}

	cats, err := st.Categories.ListByUser(ctx, "user-1")
	wantLen(t, err, len(cats), 1, "categories")
	if cats[0].Name != "Snacks" || cats[0].IsDefault {
		t.Errorf("created category = %+v, want non-default Snacks", cats[0])
	}

	second, err := rec.Record(ctx, "user-1", "jajan snack lagi 20rb")
	if err != nil {
		t.Fatalf("second Record failed: %v", err)
	}

	cats, err = st.Categories.ListByUser(ctx, "user-1")
	wantLen(t, err, len(cats), 1, "categories")

	txs, _ := st.Transactions.ListByUser(ctx, "user-1")
	if len(txs) != 2 {
		t.Fatalf("transaction count = %d, want 2", len(txs))
	}
	if txs[0].CategoryID != txs[1].CategoryID {
		t.Error("second call must reuse the category created by the first")
	}
	if first.TransactionID == second.TransactionID {
		t.Error("each call must persist its own transaction")
	}
}

func TestRecord_CategoryFallsBackToLainnya(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	lainnyaID, err := st.Categories.Insert(ctx, &store.Category{
		Name:      schema.FallbackCategoryAlias,
		Type:      schema.TypeExpense,
		IsDefault: true,
		UserID:    "user-1",
	})
	if err != nil {
		t.Fatalf("seeding category: %v", err)
	}

	extracted := extractedExpense()
	extracted.Category = "Snacks"
	rec := newRecorder(&stubExtractor{result: extracted}, st)

	if _, err := rec.Record(ctx, "user-1", "jajan snack 15rb"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	cats, err := st.Categories.ListByUser(ctx, "user-1")
	wantLen(t, err, len(cats), 1, "categories")

	txs, _ := st.Transactions.ListByUser(ctx, "user-1")
	if txs[0].CategoryID != lainnyaID {
		t.Errorf("CategoryID = %q, want the Lainnya fallback %q", txs[0].CategoryID, lainnyaID)
	}
}

func TestRecord_FallbackIsTypeScoped(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	// An income-side Others must not catch an expense extraction.
	if _, err := st.Categories.Insert(ctx, &store.Category{
		Name:      schema.FallbackCategory,
		Type:      schema.TypeIncome,
		IsDefault: true,
		UserID:    "user-1",
	}); err != nil {
		t.Fatalf("seeding category: %v", err)
	}

	extracted := extractedExpense()
	extracted.Category = "Snacks"
	rec := newRecorder(&stubExtractor{result: extracted}, st)

	if _, err := rec.Record(ctx, "user-1", "jajan snack 15rb"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	cats, err := st.Categories.ListByUser(ctx, "user-1")
	wantLen(t, err, len(cats), 2, "categories")
}

func TestRecord_EmptyAccountTargetsCash(t *testing.T) {
	extracted := extractedExpense()
	extracted.Account = ""
	st := memory.New()
	rec := newRecorder(&stubExtractor{result: extracted}, st)
	ctx := context.Background()

	if _, err := rec.Record(ctx, "user-1", "beli kopi 15rb"); err != nil {
		t.Fatalf("first Record failed: %v", err)
	}

	accs, err := st.Accounts.ListByUser(ctx, "user-1")
	wantLen(t, err, len(accs), 1, "accounts")
	if accs[0].Name != schema.FallbackAccount || accs[0].IsDefault {
		t.Errorf("created account = %+v, want non-default Cash", accs[0])
	}

	if _, err := rec.Record(ctx, "user-1", "beli kopi lagi 15rb"); err != nil {
		t.Fatalf("second Record failed: %v", err)
	}

	accs, err = st.Accounts.ListByUser(ctx, "user-1")
	wantLen(t, err, len(accs), 1, "accounts")

	txs, _ := st.Transactions.ListByUser(ctx, "user-1")
	if txs[0].AIAccountName != schema.FallbackAccount {
		t.Errorf("AIAccountName = %q, want Cash for an absent account", txs[0].AIAccountName)
	}
}

func TestRecord_UnknownAccountFallsBackToCash(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	cashID, err := st.Accounts.Insert(ctx, &store.Account{
		Name:      schema.FallbackAccount,
		IsDefault: true,
		UserID:    "user-1",
	})
	if err != nil {
		t.Fatalf("seeding account: %v", err)
	}

	rec := newRecorder(&stubExtractor{result: extractedExpense()}, st)
	if _, err := rec.Record(ctx, "user-1", "beli kopi 15rb pake gopay"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// Gopay has no record and Cash exists, so the Cash record is reused
	// instead of creating a Gopay one.
	accs, err := st.Accounts.ListByUser(ctx, "user-1")
	wantLen(t, err, len(accs), 1, "accounts")

	txs, _ := st.Transactions.ListByUser(ctx, "user-1")
	if txs[0].SourceAccountID == nil || *txs[0].SourceAccountID != cashID {
		t.Error("expected the Cash fallback account id on the transaction")
	}
	if txs[0].AIAccountName != "Gopay" {
		t.Errorf("AIAccountName = %q, want the raw model output Gopay", txs[0].AIAccountName)
	}
}

func TestRecord_AccountsAreTypeAgnostic(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	expense := extractedExpense()
	rec := newRecorder(&stubExtractor{result: expense}, st)
	if _, err := rec.Record(ctx, "user-1", "beli kopi 15rb pake gopay"); err != nil {
		t.Fatalf("expense Record failed: %v", err)
	}

	income := &schema.ExtractedTransaction{
		Amount:   100000,
		Category: "Gifts",
		Account:  "Gopay",
		Type:     schema.TypeIncome,
		Note:     "Transfer Masuk",
		Date:     "2025-08-29T10:00:00Z",
	}
	rec = newRecorder(&stubExtractor{result: income}, st)
	if _, err := rec.Record(ctx, "user-1", "dapet transfer 100rb ke gopay"); err != nil {
		t.Fatalf("income Record failed: %v", err)
	}

	// Both directions resolve to the same Gopay record.
	accs, err := st.Accounts.ListByUser(ctx, "user-1")
	wantLen(t, err, len(accs), 1, "accounts")
}

func TestRecord_TenantIsolation(t *testing.T) {
	extracted := extractedExpense()
	extracted.Category = "Snacks"
	st := memory.New()
	ctx := context.Background()

	rec := newRecorder(&stubExtractor{result: extracted}, st)
	if _, err := rec.Record(ctx, "user-1", "jajan snack 15rb"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	rec = newRecorder(&stubExtractor{result: extracted}, st)
	if _, err := rec.Record(ctx, "user-2", "jajan snack 15rb"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// Each tenant gets its own reference records and transactions.
	for _, user := range []string{"user-1", "user-2"} {
		cats, err := st.Categories.ListByUser(ctx, user)
		wantLen(t, err, len(cats), 1, "categories")
		txs, err := st.Transactions.ListByUser(ctx, user)
		wantLen(t, err, len(txs), 1, "transactions")
	}
}

func TestRecord_EmptyCategoryBecomesOthers(t *testing.T) {
	extracted := extractedExpense()
	extracted.Category = "   "
	st := memory.New()
	rec := newRecorder(&stubExtractor{result: extracted}, st)

	if _, err := rec.Record(context.Background(), "user-1", "beli sesuatu 10rb"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	cats, err := st.Categories.ListByUser(context.Background(), "user-1")
	wantLen(t, err, len(cats), 1, "categories")
	if cats[0].Name != schema.FallbackCategory {
		t.Errorf("category name = %q, want %q", cats[0].Name, schema.FallbackCategory)
	}
}
