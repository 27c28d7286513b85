package quote

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/arvella/backend-parfum/internal/catalog"
	"github.com/arvella/backend-parfum/internal/common"
	"github.com/arvella/backend-parfum/internal/currency"
	"github.com/arvella/backend-parfum/internal/pricing"
)

// Handler exposes the pricing engine over HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type lineRequest struct {
	ProductID string  `json:"productId" validate:"required,uuid"`
	VariantID *string `json:"variantId,omitempty" validate:"omitempty,uuid"`
	Qty       int     `json:"qty" validate:"required,min=1"`
}

type quoteRequest struct {
	Lines []lineRequest `json:"lines" validate:"required,min=1,dive"`
}

type priceCheckRequest struct {
	Lines         []lineRequest  `json:"lines" validate:"required,min=1,dive"`
	ExpectedTotal currency.Money `json:"expectedTotal" validate:"min=0"`
}

// CartQuote prices a cart preview. POST /api/v1/cart/quote
func (h *Handler) CartQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON payload", nil)
		return
	}
	if err := h.validate(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid quote request", err.Error())
		return
	}
	inputs, err := toLineInputs(req.Lines)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	q, err := h.Svc.Preview(r.Context(), inputs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// PriceCheck revalidates a client-submitted total before order creation.
// POST /api/v1/checkout/price-check
func (h *Handler) PriceCheck(w http.ResponseWriter, r *http.Request) {
	var req priceCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON payload", nil)
		return
	}
	if err := h.validate(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid price check request", err.Error())
		return
	}
	inputs, err := toLineInputs(req.Lines)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	q, err := h.Svc.Revalidate(r.Context(), inputs, req.ExpectedTotal)
	if err != nil {
		if errors.Is(err, ErrTotalMismatch) {
			appErr := common.NewAppError("PRICE_MISMATCH", "cart total has changed", http.StatusConflict, err)
			appErr.Details = map[string]any{"serverTotal": q.FinalTotal}
			h.writeError(w, appErr)
			return
		}
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// ProductNudge previews the nudge hint for a single product line.
// GET /api/v1/products/{productId}/nudge?qty=&variantId=
func (h *Handler) ProductNudge(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid product id", nil)
		return
	}
	qty := common.AtoiDefault(r.URL.Query().Get("qty"), 0)
	if qty < 1 {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "qty must be a positive integer", nil)
		return
	}
	var variantID *uuid.UUID
	if raw := r.URL.Query().Get("variantId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid variant id", nil)
			return
		}
		variantID = &id
	}

	q, err := h.Svc.Preview(r.Context(), []LineInput{{ProductID: productID, VariantID: variantID, Qty: qty}})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q.Lines[0]})
}

func (h *Handler) validate(v any) error {
	if h == nil || h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		appErr = boundaryError(err)
	}
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	code := appErr.Code
	if code == "" {
		code = "INTERNAL"
	}
	message := appErr.Message
	if message == "" {
		message = "internal error"
	}
	common.JSONError(w, status, code, message, appErr.Details)
}

// boundaryError maps engine sentinels onto the HTTP error shape.
func boundaryError(err error) *common.AppError {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return common.NewAppError("NOT_FOUND", "product not found", http.StatusNotFound, err)
	case errors.Is(err, ErrTooManyLines):
		return common.NewAppError("TOO_MANY_LINES", "too many cart lines", http.StatusBadRequest, err)
	case errors.Is(err, pricing.ErrPercentOutOfRange),
		errors.Is(err, pricing.ErrNegativeQuantity),
		errors.Is(err, pricing.ErrNegativeUnitPrice):
		// Upstream data corruption; refuse to price rather than clamp.
		return common.NewAppError("OFFER_DATA_INVALID", "catalog pricing data is invalid", http.StatusUnprocessableEntity, err)
	default:
		return common.NewAppError("INTERNAL", "internal error", http.StatusInternalServerError, err)
	}
}

func toLineInputs(lines []lineRequest) ([]LineInput, error) {
	inputs := make([]LineInput, 0, len(lines))
	for _, ln := range lines {
		productID, err := uuid.Parse(ln.ProductID)
		if err != nil {
			return nil, errors.New("invalid product id")
		}
		var variantID *uuid.UUID
		if ln.VariantID != nil && *ln.VariantID != "" {
			id, err := uuid.Parse(*ln.VariantID)
			if err != nil {
				return nil, errors.New("invalid variant id")
			}
			variantID = &id
		}
		inputs = append(inputs, LineInput{ProductID: productID, VariantID: variantID, Qty: ln.Qty})
	}
	return inputs, nil
}
