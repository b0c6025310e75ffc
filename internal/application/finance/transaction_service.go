package finance

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/finance"
	"github.com/crm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TransactionServiceConfig holds the dependencies of TransactionService
type TransactionServiceConfig struct {
	Repo        finance.TransactionRepository
	Idempotency shared.IdempotencyStore
	IdemConfig  shared.IdempotencyConfig
	Logger      *zap.Logger
	// Now defaults to time.Now. Only the calendar date is used.
	Now func() time.Time
}

// TransactionService prepares and records income and expense entries
type TransactionService struct {
	repo        finance.TransactionRepository
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(cfg TransactionServiceConfig) *TransactionService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	idemConfig := cfg.IdemConfig
	if idemConfig.TTL <= 0 {
		idemConfig.TTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &TransactionService{
		repo:        cfg.Repo,
		idempotency: cfg.Idempotency,
		idemConfig:  idemConfig,
		logger:      logger,
		now:         now,
	}
}

// NewForm returns a blank form dated today
func (s *TransactionService) NewForm() TransactionFormResponse {
	return ToFormResponse(finance.NewTransactionForm(s.now()))
}

// Prepare validates and classifies a form without storing it
func (s *TransactionService) Prepare(req TransactionFormRequest) (*PreparedTransactionResponse, error) {
	prepared, err := finance.PrepareSubmission(req.ToForm())
	if err != nil {
		return nil, err
	}
	response := ToPreparedResponse(prepared)
	return &response, nil
}

// SubmitResult is the stored entry and whether it was replayed from an earlier request
type SubmitResult struct {
	Transaction TransactionResponse
	Replayed    bool
}

// Submit prepares and stores an entry. A non-empty idempotency key makes
// retries of the same submission return the entry stored the first time.
func (s *TransactionService) Submit(ctx context.Context, req TransactionFormRequest, recordedBy *int64, idempotencyKey string) (*SubmitResult, error) {
	prepared, err := finance.PrepareSubmission(req.ToForm())
	if err != nil {
		return nil, err
	}

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey == "" || s.idempotency == nil || !s.idemConfig.Enabled {
		entry, err := s.store(ctx, prepared, recordedBy)
		if err != nil {
			return nil, err
		}
		return &SubmitResult{Transaction: ToTransactionResponse(entry)}, nil
	}

	key := scopedKey(recordedBy, idempotencyKey)
	reserved, value, err := s.idempotency.Reserve(ctx, key, s.idemConfig.TTL)
	if err != nil {
		return nil, shared.NewStoreError("idempotency.reserve", err)
	}
	if !reserved {
		return s.replay(ctx, key, value, prepared.Fingerprint())
	}

	entry, err := s.store(ctx, prepared, recordedBy)
	if err != nil {
		if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
			s.logger.Error("Failed to release idempotency key", zap.String("key", key), zap.Error(releaseErr))
		}
		return nil, err
	}

	if err := s.idempotency.Complete(ctx, key, idempotencyValue(entry.ID, prepared.Fingerprint()), s.idemConfig.TTL); err != nil {
		// the entry exists; a retry would now create a duplicate, so this is only logged
		s.logger.Error("Failed to record idempotency result",
			zap.String("key", key),
			zap.Int64("transaction_id", entry.ID),
			zap.Error(err))
	}

	return &SubmitResult{Transaction: ToTransactionResponse(entry)}, nil
}

func (s *TransactionService) replay(ctx context.Context, key, value, fingerprint string) (*SubmitResult, error) {
	if value == "" {
		return nil, shared.ErrIdempotencyInProgress
	}

	rawID, storedFingerprint, ok := strings.Cut(value, ":")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if !ok || err != nil {
		return nil, shared.NewStoreError("idempotency.replay", fmt.Errorf("bad stored value %q", value))
	}
	if storedFingerprint != fingerprint {
		s.logger.Warn("Idempotency key reused with a different payload",
			zap.String("key", key),
			zap.Int64("transaction_id", id))
		return nil, shared.ErrIdempotencyKeyReused
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Replayed idempotent transaction submission",
		zap.String("key", key),
		zap.Int64("transaction_id", id))

	return &SubmitResult{Transaction: ToTransactionResponse(entry), Replayed: true}, nil
}

// idempotencyValue records the stored entry together with the payload it came from
func idempotencyValue(id int64, fingerprint string) string {
	return strconv.FormatInt(id, 10) + ":" + fingerprint
}

func (s *TransactionService) store(ctx context.Context, prepared *finance.PreparedTransaction, recordedBy *int64) (*finance.TransactionEntry, error) {
	entry := finance.NewTransactionEntry(prepared, recordedBy)
	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction recorded",
		zap.Int64("transaction_id", entry.ID),
		zap.String("payment_type", entry.PaymentType.String()),
		zap.String("payment_credit_debit", entry.CreditDebit.String()))
	return entry, nil
}

// GetByID retrieves an entry
func (s *TransactionService) GetByID(ctx context.Context, id int64) (*TransactionResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTransactionResponse(entry)
	return &response, nil
}

// List retrieves entries with filtering and pagination
func (s *TransactionService) List(ctx context.Context, req TransactionListFilter) ([]TransactionResponse, int64, error) {
	filter := finance.TransactionFilter{
		Search:   strings.TrimSpace(req.Search),
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	verr := &shared.ValidationError{}
	if req.PaymentType != "" {
		paymentType, ok := finance.ParsePaymentType(req.PaymentType)
		if !ok {
			verr.Add("payment_type", "must be one of Received, Expenses, Payments, Refunds")
		} else {
			filter.PaymentType = &paymentType
		}
	}
	if req.PaymentCreditDebit != "" {
		side := finance.CreditDebit(strings.ToLower(strings.TrimSpace(req.PaymentCreditDebit)))
		if !side.IsValid() {
			verr.Add("payment_credit_debit", "must be credit or debit")
		} else {
			filter.CreditDebit = &side
		}
	}
	if req.From != "" {
		from, err := time.Parse(finance.DateLayout, req.From)
		if err != nil {
			verr.Add("from", "must be a valid date (YYYY-MM-DD)")
		} else {
			filter.From = &from
		}
	}
	if req.To != "" {
		to, err := time.Parse(finance.DateLayout, req.To)
		if err != nil {
			verr.Add("to", "must be a valid date (YYYY-MM-DD)")
		} else {
			filter.To = &to
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, 0, err
	}

	entries, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TransactionResponse, len(entries))
	for i := range entries {
		responses[i] = ToTransactionResponse(&entries[i])
	}
	return responses, total, nil
}

// Update re-prepares an entry from a full form. The credit/debit side is derived again.
func (s *TransactionService) Update(ctx context.Context, id int64, req TransactionFormRequest) (*TransactionResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prepared, err := finance.PrepareSubmission(req.ToForm())
	if err != nil {
		return nil, err
	}
	entry.Apply(prepared)

	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(entry)
	return &response, nil
}

// Delete removes an entry. Deleting a missing entry succeeds.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// scopedKey keeps one user's keys from colliding with another's
func scopedKey(recordedBy *int64, key string) string {
	owner := "anonymous"
	if recordedBy != nil {
		owner = strconv.FormatInt(*recordedBy, 10)
	}
	return "transaction:" + owner + ":" + key
}
