package transport

import (
	"errors"
	"net/http"
	"strconv"

	"product-catalog/internal/jsonapi"
	"product-catalog/internal/middleware"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest holds the attributes of a create document
type CreateProductRequest struct {
	Name     *string `json:"name" validate:"required,notblank,max=255"`
	Price    *int64  `json:"price" validate:"required,gte=0"`
	Category *string `json:"category" validate:"required,notblank,max=255"`
}

// UpdateProductRequest holds the attributes of an update document. Absent
// attributes are left unchanged.
type UpdateProductRequest struct {
	Name     *string `json:"name" validate:"omitnil,notblank,max=255"`
	Price    *int64  `json:"price" validate:"omitnil,gte=0"`
	Category *string `json:"category" validate:"omitnil,notblank,max=255"`
}

// ProductHandler handles HTTP requests for the products resource
type ProductHandler struct {
	productService service.ProductService
	baseURL        string
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler. baseURL overrides the
// scheme and host of resource links; leave it empty to use the request's.
func NewProductHandler(productService service.ProductService, baseURL string, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		baseURL:        baseURL,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route(jsonapi.ProductsPath, func(r chi.Router) {
		r.Use(middleware.NegotiateJSONAPI)

		r.Get("/", h.List)
		r.With(middleware.RequireJSONAPIContentType).Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.With(middleware.RequireJSONAPIContentType).Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.serializer(r).CollectionDocument(products))
}

// Get handles GET /products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.serializer(r).Document(product))
}

// Create handles POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	res, err := jsonapi.DecodeProductDocument(r.Body)
	if err != nil {
		h.respondWithDecodeError(w, err)
		return
	}

	attrs := res.Attributes.ProductAttributes()
	req := CreateProductRequest{Name: attrs.Name, Price: attrs.Price, Category: attrs.Category}
	if err := middleware.ValidateRequest(req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	product, err := h.productService.Create(r.Context(), attrs)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to create product")
		return
	}

	serializer := h.serializer(r)
	w.Header().Set("Location", serializer.SelfLink(product.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, serializer.Document(product))
}

// Update handles PATCH /products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	// Unknown products are reported before the body is looked at
	if _, err := h.productService.Get(r.Context(), id); err != nil {
		h.respondWithServiceError(w, err, "failed to update product")
		return
	}

	res, err := jsonapi.DecodeProductDocument(r.Body)
	if err != nil {
		h.respondWithDecodeError(w, err)
		return
	}
	if err := res.CheckID(id); err != nil {
		h.respondWithDecodeError(w, err)
		return
	}

	attrs := res.Attributes.ProductAttributes()
	req := UpdateProductRequest{Name: attrs.Name, Price: attrs.Price, Category: attrs.Category}
	if err := middleware.ValidateRequest(req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	product, err := h.productService.Update(r.Context(), id, attrs)
	if err != nil {
		h.respondWithServiceError(w, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.serializer(r).Document(product))
}

// Delete handles DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		h.respondWithServiceError(w, err, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// productID parses the {id} URL parameter. Only the canonical decimal form
// of an ID names a product; anything else ("abc", "+1", "007") is 404.
func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || strconv.FormatInt(id, 10) != raw {
		middleware.RespondWithError(w, http.StatusNotFound, service.ErrProductNotFound.Error())
		return 0, false
	}
	return id, true
}

func (h *ProductHandler) serializer(r *http.Request) jsonapi.ProductSerializer {
	if h.baseURL != "" {
		return jsonapi.NewProductSerializer(h.baseURL)
	}
	return jsonapi.NewProductSerializer(RequestBaseURL(r))
}

// RequestBaseURL returns scheme://host of the incoming request
func RequestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h *ProductHandler) respondWithServiceError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, service.ErrProductNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.Error("Product operation failed", zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, message)
}

func (h *ProductHandler) respondWithDecodeError(w http.ResponseWriter, err error) {
	h.logger.Debug("Invalid product document", zap.Error(err))

	var attrErr *jsonapi.AttributeError
	switch {
	case errors.As(err, &attrErr):
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: attrErr.Pointer, Message: attrErr.Detail},
		})
	case errors.Is(err, jsonapi.ErrTypeMismatch), errors.Is(err, jsonapi.ErrIDMismatch):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, jsonapi.ErrMalformedDocument):
		middleware.RespondWithError(w, http.StatusBadRequest, jsonapi.ErrMalformedDocument.Error())
	default:
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	}
}
