// Package handlers wires the HTTP surface to the recorder and the store.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nafisr/catatuang/internal/api/middleware"
	"github.com/nafisr/catatuang/internal/apperrors"
	"github.com/nafisr/catatuang/internal/recorder"
	"github.com/nafisr/catatuang/internal/schema"
	"github.com/nafisr/catatuang/internal/store"
)

// respondError maps an error onto the failure envelope. Typed application
// errors carry their own status and code; anything else is logged with its
// cause and answered as a generic internal error.
func respondError(w http.ResponseWriter, log zerolog.Logger, err error) {
	if appErr, ok := apperrors.As(err); ok {
		if appErr.Internal != nil {
			log.Error().Err(appErr.Internal).Str("code", string(appErr.Code)).Msg("Request failed")
		}
		middleware.WriteError(w, appErr.StatusCode, string(appErr.Code), appErr.Message)
		return
	}

	log.Error().Err(err).Msg("Unexpected error")
	middleware.WriteError(w, http.StatusInternalServerError, string(apperrors.CodeInternal),
		"An error occurred while processing the transaction.")
}

// AnalyzeHandler handles POST /api/transactions/analyze.
type AnalyzeHandler struct {
	recorder *recorder.Recorder
	log      zerolog.Logger
}

func NewAnalyzeHandler(rec *recorder.Recorder, log zerolog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{recorder: rec, log: log}
}

// Analyze runs one free-text transaction through extraction, reconciliation,
// and persistence, and answers with the recorded transaction.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Identity first: an unauthenticated call fails before the text is
	// even looked at.
	userID := middleware.UserID(ctx)
	if userID == "" {
		respondError(w, h.log, apperrors.Unauthenticated("User must be authenticated."))
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, apperrors.InvalidArgument("Transaction text is invalid or too short."))
		return
	}

	result, err := h.recorder.Record(ctx, userID, req.Text)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully recorded by AI.",
		"data": map[string]interface{}{
			"transactionId": result.TransactionID,
			"amount":        result.Extracted.Amount,
			"category":      result.Extracted.Category,
			"account":       result.Extracted.Account,
			"type":          result.Extracted.Type,
			"note":          result.Extracted.Note,
			"date":          result.Extracted.Date,
		},
	})
}

// TransactionsHandler handles GET /api/transactions.
type TransactionsHandler struct {
	repo store.TransactionRepository
	log  zerolog.Logger
}

func NewTransactionsHandler(repo store.TransactionRepository, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{repo: repo, log: log}
}

// List returns the caller's recorded transactions.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserID(ctx)
	if userID == "" {
		respondError(w, h.log, apperrors.Unauthenticated("User must be authenticated."))
		return
	}

	transactions, err := h.repo.ListByUser(ctx, userID)
	if err != nil {
		respondError(w, h.log, apperrors.Internal("Failed to list transactions.", err))
		return
	}

	if transactions == nil {
		transactions = []*store.Transaction{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// ReferenceHandler handles the reference-data listings: the default
// vocabularies plus whatever records reconciliation has created for the
// caller so far.
type ReferenceHandler struct {
	categories store.CategoryRepository
	accounts   store.AccountRepository
	log        zerolog.Logger
}

func NewReferenceHandler(categories store.CategoryRepository, accounts store.AccountRepository, log zerolog.Logger) *ReferenceHandler {
	return &ReferenceHandler{categories: categories, accounts: accounts, log: log}
}

// ListCategories handles GET /api/categories.
func (h *ReferenceHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserID(ctx)
	if userID == "" {
		respondError(w, h.log, apperrors.Unauthenticated("User must be authenticated."))
		return
	}

	categories, err := h.categories.ListByUser(ctx, userID)
	if err != nil {
		respondError(w, h.log, apperrors.Internal("Failed to list categories.", err))
		return
	}

	if categories == nil {
		categories = []*store.Category{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"defaults":   schema.DefaultCategories,
		"categories": categories,
		"count":      len(categories),
	})
}

// ListAccounts handles GET /api/accounts.
func (h *ReferenceHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserID(ctx)
	if userID == "" {
		respondError(w, h.log, apperrors.Unauthenticated("User must be authenticated."))
		return
	}

	accounts, err := h.accounts.ListByUser(ctx, userID)
	if err != nil {
		respondError(w, h.log, apperrors.Internal("Failed to list accounts.", err))
		return
	}

	if accounts == nil {
		accounts = []*store.Account{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"defaults": schema.DefaultAccounts,
		"accounts": accounts,
		"count":    len(accounts),
	})
}
