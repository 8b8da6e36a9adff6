package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stylegraph/application/queries"
	querybus "stylegraph/application/queries/bus"
	"stylegraph/pkg/common"
	"stylegraph/pkg/errors"
)

// ProductHandler serves catalog product requests
type ProductHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// ListProducts handles GET /products. recommended_ids triggers an
// evaluation of the external recommendation set against the centrality
// tags; the quality block is attached to the response when present.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 0 {
		limit = 0
	}

	query := queries.GetProductsQuery{
		RecommendedIDs: parseIDList(r.URL.Query().Get("recommended_ids")),
		Limit:          limit,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("product listing failed", zap.Error(err))
		common.RespondError(w, errors.HTTPStatusFor(err), "PRODUCTS_FAILED", "failed to list products")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetProduct handles GET /products/{productID}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "product id is required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetProductQuery{ID: productID})
	if err != nil {
		status := errors.HTTPStatusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("product lookup failed",
				zap.String("productID", productID),
				zap.Error(err))
		}
		common.RespondError(w, status, "PRODUCT_LOOKUP_FAILED", "failed to look up product")
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
