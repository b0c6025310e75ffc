package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crm/backend/internal/application/finance"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/middleware"
)

// DefaultIdempotencyHeader carries the client's retry key on POST /transactions.
const DefaultIdempotencyHeader = "Idempotency-Key"

// ReplayedHeader is set on a submission answered from an earlier request.
const ReplayedHeader = "Idempotent-Replayed"

// TransactionService is the part of finance.TransactionService the handler uses.
type TransactionService interface {
	NewForm() finance.TransactionFormResponse
	Prepare(req finance.TransactionFormRequest) (*finance.PreparedTransactionResponse, error)
	Submit(ctx context.Context, req finance.TransactionFormRequest, recordedBy *int64, idempotencyKey string) (*finance.SubmitResult, error)
	GetByID(ctx context.Context, id int64) (*finance.TransactionResponse, error)
	List(ctx context.Context, filter finance.TransactionListFilter) ([]finance.TransactionResponse, int64, error)
	Update(ctx context.Context, id int64, req finance.TransactionFormRequest) (*finance.TransactionResponse, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionHandler serves income/expense entries
type TransactionHandler struct {
	BaseHandler
	service        TransactionService
	idempotencyHdr string
}

// NewTransactionHandler creates a TransactionHandler. An empty header name uses Idempotency-Key.
func NewTransactionHandler(service TransactionService, idempotencyHeader string) *TransactionHandler {
	if idempotencyHeader == "" {
		idempotencyHeader = DefaultIdempotencyHeader
	}
	return &TransactionHandler{service: service, idempotencyHdr: idempotencyHeader}
}

// NewForm handles GET /transactions/new: a blank form dated today
func (h *TransactionHandler) NewForm(c *gin.Context) {
	h.Success(c, h.service.NewForm())
}

// Prepare handles POST /transactions/prepare. Nothing is stored.
func (h *TransactionHandler) Prepare(c *gin.Context) {
	var req finance.TransactionFormRequest
	if !bindJSON(c, &req) {
		return
	}
	prepared, err := h.service.Prepare(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prepared)
}

// Submit handles POST /transactions. A replayed submission answers 200
// with the entry stored first; a new one answers 201.
func (h *TransactionHandler) Submit(c *gin.Context) {
	var req finance.TransactionFormRequest
	if !bindJSON(c, &req) {
		return
	}

	var recordedBy *int64
	if userID, ok := middleware.GetJWTUserID(c); ok {
		recordedBy = &userID
	}

	result, err := h.service.Submit(c.Request.Context(), req, recordedBy, c.GetHeader(h.idempotencyHdr))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Replayed {
		c.Header(ReplayedHeader, "true")
		c.JSON(http.StatusOK, dto.NewSuccessResponse(result.Transaction))
		return
	}
	h.Created(c, result.Transaction)
}

// GetByID handles GET /transactions/:id
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	entry, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	var filter finance.TransactionListFilter
	if !bindQuery(c, &filter) {
		return
	}
	entries, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// Update handles PUT /transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req finance.TransactionFormRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Delete handles DELETE /transactions/:id. Deleting a missing entry succeeds.
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
