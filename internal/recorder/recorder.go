// Package recorder orchestrates one analyze call: validate the input, run the
// extractor, reconcile the extracted category and account names against the
// reference collections, and persist the resulting transaction.
package recorder

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nafisr/catatuang/internal/apperrors"
	"github.com/nafisr/catatuang/internal/extractor"
	"github.com/nafisr/catatuang/internal/schema"
	"github.com/nafisr/catatuang/internal/store"
)

// Recorder is stateless across calls; every invocation runs to completion
// independently against the shared store.
type Recorder struct {
	extractor extractor.Extractor
	store     *store.Store
	log       zerolog.Logger
}

// Result is what a successful analyze call hands back to the API layer: the
// generated transaction id plus the extracted payload, denormalized so the
// client can render immediately without a re-read.
type Result struct {
	TransactionID string
	Extracted     *schema.ExtractedTransaction
}

func New(ext extractor.Extractor, st *store.Store, log zerolog.Logger) *Recorder {
	return &Recorder{
		extractor: ext,
		store:     st,
		log:       log,
	}
}

// Record runs the whole flow for one piece of user text. Errors it returns
// are always typed apperrors: anything unexpected below this layer is caught
// here, logged, and replaced with a generic internal error so raw failure
// detail never reaches the caller.
func (r *Recorder) Record(ctx context.Context, userID, userText string) (*Result, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("User must be authenticated.")
	}
	if len(userText) < 3 {
		return nil, apperrors.InvalidArgument("Transaction text is invalid or too short.")
	}

	extracted, err := r.extractor.Extract(ctx, userText)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", userID).Msg("Extraction failed")
		return nil, apperrors.Internal("An error occurred while processing the transaction.", err)
	}

	if extracted.Amount <= 0 {
		return nil, apperrors.DataLoss("Failed to detect transaction amount.")
	}
	if !extracted.Type.Valid() {
		err := fmt.Errorf("model returned unknown transaction type %q", extracted.Type)
		r.log.Error().Err(err).Str("user_id", userID).Msg("Extraction produced unusable type")
		return nil, apperrors.Internal("An error occurred while processing the transaction.", err)
	}

	// Accept-and-create policy for names outside the default vocabularies:
	// whatever the model emitted is trimmed and resolved against the
	// reference collections, creating a record when nothing matches.
	categoryName := strings.TrimSpace(extracted.Category)
	if categoryName == "" {
		categoryName = schema.FallbackCategory
	}
	accountName := strings.TrimSpace(extracted.Account)

	categoryID, err := r.resolveCategory(ctx, categoryName, userID, extracted.Type)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", userID).Msg("Category resolution failed")
		return nil, apperrors.Internal("An error occurred while processing the transaction.", err)
	}

	accountID, err := r.resolveAccount(ctx, accountName, userID)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", userID).Msg("Account resolution failed")
		return nil, apperrors.Internal("An error occurred while processing the transaction.", err)
	}

	aiAccountName := accountName
	if aiAccountName == "" {
		aiAccountName = schema.FallbackAccount
	}

	tx := &store.Transaction{
		Amount:          extracted.Amount,
		Type:            extracted.Type,
		Note:            extracted.Note,
		TransactionDate: extracted.Date,
		CategoryID:      categoryID,
		UserID:          userID,
		AICategoryName:  categoryName,
		AIAccountName:   aiAccountName,
	}
	if extracted.Type == schema.TypeExpense {
		tx.SourceAccountID = &accountID
	} else {
		tx.DestinationAccountID = &accountID
	}

	txID, err := r.store.Transactions.Insert(ctx, tx)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", userID).Msg("Transaction insert failed")
		return nil, apperrors.Internal("An error occurred while processing the transaction.", err)
	}

	r.log.Info().
		Str("user_id", userID).
		Str("transaction_id", txID).
		Int64("amount", extracted.Amount).
		Str("type", string(extracted.Type)).
		Msg("Transaction recorded")

	return &Result{TransactionID: txID, Extracted: extracted}, nil
}

// resolveCategory finds an existing category for (name, type) or creates a
// new non-default one. Fallback order: exact match, then the shared
// Others/Lainnya bucket, then create. The lookup-then-create sequence is not
// atomic; concurrent calls with the same new name can race and both create.
func (r *Recorder) resolveCategory(ctx context.Context, name, userID string, t schema.TransactionType) (string, error) {
	existing, err := r.store.Categories.FindByNameAndType(ctx, userID, name, t)
	if err != nil {
		return "", fmt.Errorf("resolveCategory: finding %q: %w", name, err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	fallback, err := r.store.Categories.FindByNamesAndType(ctx, userID,
		[]string{schema.FallbackCategory, schema.FallbackCategoryAlias}, t)
	if err != nil {
		return "", fmt.Errorf("resolveCategory: finding fallback: %w", err)
	}
	if fallback != nil {
		return fallback.ID, nil
	}

	id, err := r.store.Categories.Insert(ctx, &store.Category{
		Name:      name,
		Type:      t,
		IsDefault: false,
		UserID:    userID,
	})
	if err != nil {
		return "", fmt.Errorf("resolveCategory: creating %q: %w", name, err)
	}
	return id, nil
}

// resolveAccount finds an existing account by name or creates a new
// non-default one. An empty name means "Cash". Accounts are type-agnostic,
// so unlike resolveCategory there is no type filter.
func (r *Recorder) resolveAccount(ctx context.Context, name, userID string) (string, error) {
	targetName := name
	if targetName == "" {
		targetName = schema.FallbackAccount
	}

	existing, err := r.store.Accounts.FindByName(ctx, userID, targetName)
	if err != nil {
		return "", fmt.Errorf("resolveAccount: finding %q: %w", targetName, err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	cash, err := r.store.Accounts.FindByName(ctx, userID, schema.FallbackAccount)
	if err != nil {
		return "", fmt.Errorf("resolveAccount: finding fallback: %w", err)
	}
	if cash != nil {
		return cash.ID, nil
	}

	id, err := r.store.Accounts.Insert(ctx, &store.Account{
		Name:      targetName,
		IsDefault: false,
		UserID:    userID,
	})
	if err != nil {
		return "", fmt.Errorf("resolveAccount: creating %q: %w", targetName, err)
	}
	return id, nil
}
