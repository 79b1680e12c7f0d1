package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/service"
	"github.com/go-chi/chi/v5"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// DeleteResponse confirms a deletion
type DeleteResponse struct {
	Message string `json:"message"`
}

// CreateProduct handles POST /products/
// - 201: created record with its assigned id
// - 422: missing or mistyped field
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	in, issues := decodeProductInput(w, r)
	if issues != nil {
		h.logger.Warn("invalid product body", "issues", issues)
		WriteValidationError(w, issues, h.logger)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("product created", "productId", product.ID)
	WriteJSON(w, http.StatusCreated, product, h.logger)
}

// ListProducts handles GET /products/?skip=&limit=&category=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, issues := parseListParams(r.URL.Query())
	if issues != nil {
		WriteValidationError(w, issues, h.logger)
		return
	}

	products, err := h.service.ListProducts(r.Context(), params)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

// GetProduct handles GET /products/{productId}
// - 200: successful operation
// - 400: path segment is not an integer
// - 404: product not found
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger, "productId", id)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// UpdateProduct handles PUT /products/{productId}.
// The body replaces every field of the record.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	in, issues := decodeProductInput(w, r)
	if issues != nil {
		h.logger.Warn("invalid product body", "productId", id, "issues", issues)
		WriteValidationError(w, issues, h.logger)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err, h.logger, "productId", id)
		return
	}

	h.logger.Info("product updated", "productId", id)
	WriteJSON(w, http.StatusOK, product, h.logger)
}

// DeleteProduct handles DELETE /products/{productId}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger, "productId", id)
		return
	}

	h.logger.Info("product deleted", "productId", id)
	WriteJSON(w, http.StatusOK, DeleteResponse{Message: fmt.Sprintf("Product %d deleted", id)}, h.logger)
}

// productID extracts the {productId} URL parameter, answering 400 when it
// is not an integer. An integer too large for an id cannot name a stored
// record and answers 404.
func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "productId")

	id, err := parseProductID(raw)
	if errors.Is(err, strconv.ErrRange) {
		h.logger.Warn("product not found", "productId", raw)
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Product %s not found", raw), h.logger)
		return 0, false
	}
	if err != nil {
		h.logger.Warn("invalid product ID format", "productId", raw, "error", err)
		WriteError(w, http.StatusBadRequest, invalidIDMessage, h.logger)
		return 0, false
	}
	return id, true
}
