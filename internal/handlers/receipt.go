package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hdfhr-backend/internal/domain"
	"hdfhr-backend/internal/repository"
	"hdfhr-backend/pkg/api"
)

// ReceiptStore is what the receipt endpoints need from the repository layer.
type ReceiptStore interface {
	List(ctx context.Context, query repository.ReceiptQuery, refresh bool) ([]domain.Receipt, bool, error)
	Get(ctx context.Context, id string, refresh bool) (*domain.Receipt, bool, error)
	Create(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error)
}

// ReceiptHandler serves the /api/receipts endpoints.
type ReceiptHandler struct {
	receipts ReceiptStore
	logger   *zap.Logger
}

// NewReceiptHandler builds a receipt handler.
func NewReceiptHandler(receipts ReceiptStore, logger *zap.Logger) *ReceiptHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptHandler{receipts: receipts, logger: logger}
}

// List handles GET /api/receipts.
func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	query := repository.ReceiptQuery{
		CompanyID: r.URL.Query().Get("companyId"),
		Category:  r.URL.Query().Get("category"),
		Page:      parsePage(r),
	}

	receipts, fromCache, err := h.receipts.List(r.Context(), query, parseRefresh(r))
	writeList(w, receipts, query.Page, fromCache, err)
}

// Get handles GET /api/receipts/{receiptID}.
func (h *ReceiptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "receiptID")

	receipt, fromCache, err := h.receipts.Get(r.Context(), id, parseRefresh(r))
	writeDetail(w, "receipt", receipt, fromCache, err)
}

// Create handles POST /api/receipts.
func (h *ReceiptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateReceiptRequest
	if err := decode(r, &req); err != nil {
		api.FromError(w, err)
		return
	}

	created, err := h.receipts.Create(r.Context(), domain.Receipt{
		CompanyID:    req.CompanyID,
		EmployeeID:   req.EmployeeID,
		MerchantName: req.MerchantName,
		Date:         req.Date,
		TotalAmount:  req.TotalAmount,
		TaxAmount:    req.TaxAmount,
		Category:     req.Category,
		ImagePath:    req.ImagePath,
	})
	if err != nil {
		api.FromError(w, err)
		return
	}
	api.Success(w, http.StatusCreated, created)
}
