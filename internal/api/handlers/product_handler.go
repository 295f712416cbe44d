package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"shop-service/internal/models"
	"shop-service/internal/repository"
	"shop-service/internal/slug"
)

const (
	// maxPhotoBytes caps the stored photo payload; bigger uploads are a
	// client error.
	maxPhotoBytes   = 2_000_000
	multipartMemory = 8 << 20

	listLimit    = 12
	pageSize     = 6
	relatedLimit = 3
)

type ProductHandler struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

func NewProductHandler(products repository.ProductRepository, categories repository.CategoryRepository) *ProductHandler {
	return &ProductHandler{products: products, categories: categories}
}

type productForm struct {
	Name        string  `validate:"required"`
	Description string  `validate:"required"`
	Price       float64 `validate:"gte=0"`
	CategoryID  int     `validate:"gt=0"`
	Quantity    int     `validate:"gte=0"`
	Shipping    bool
	Photo       []byte
	PhotoType   string
}

// parseProductForm reads the multipart create/update payload. Required
// fields are checked in a fixed order so the first violation is the one
// reported.
func parseProductForm(w http.ResponseWriter, r *http.Request) (*productForm, bool) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return nil, false
	}

	for _, field := range []string{"name", "description", "price", "category", "quantity"} {
		if r.FormValue(field) == "" {
			writeError(w, http.StatusBadRequest, "invalid_input", field+" is required")
			return nil, false
		}
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "price must be a number")
		return nil, false
	}

	categoryID, err := strconv.Atoi(r.FormValue("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "category must be a category id")
		return nil, false
	}

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "quantity must be an integer")
		return nil, false
	}

	form := productForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		CategoryID:  categoryID,
		Quantity:    quantity,
		Shipping:    r.FormValue("shipping") == "true" || r.FormValue("shipping") == "1",
	}

	if err := validate.Struct(form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", validationMessage(err))
		return nil, false
	}

	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()

		if header.Size > maxPhotoBytes {
			writeError(w, http.StatusBadRequest, "invalid_input", "photo must be smaller than 2MB")
			return nil, false
		}

		data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
		if err != nil || len(data) > maxPhotoBytes {
			writeError(w, http.StatusBadRequest, "invalid_input", "failed to read photo upload")
			return nil, false
		}

		form.Photo = data
		form.PhotoType = header.Header.Get("Content-Type")

	case errors.Is(err, http.ErrMissingFile):

	default:
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid photo upload")
		return nil, false
	}

	return &form, true
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, ok := parseProductForm(w, r)
	if !ok {
		return
	}

	product := models.Product{
		Name:        form.Name,
		Slug:        slug.Make(form.Name),
		Description: form.Description,
		Price:       form.Price,
		CategoryID:  form.CategoryID,
		Quantity:    form.Quantity,
		Shipping:    form.Shipping,
		Photo:       form.Photo,
		PhotoType:   form.PhotoType,
	}

	if err := h.products.Create(r.Context(), &product); err != nil {
		writeRepoError(w, err, "failed to create product")
		return
	}

	writeSuccess(w, http.StatusCreated, "Product created successfully", map[string]any{"product": product})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid product id")
		return
	}

	form, ok := parseProductForm(w, r)
	if !ok {
		return
	}

	product := models.Product{
		ProductID:   id,
		Name:        form.Name,
		Slug:        slug.Make(form.Name),
		Description: form.Description,
		Price:       form.Price,
		CategoryID:  form.CategoryID,
		Quantity:    form.Quantity,
		Shipping:    form.Shipping,
		Photo:       form.Photo,
		PhotoType:   form.PhotoType,
	}

	if err := h.products.Update(r.Context(), &product); err != nil {
		writeRepoError(w, err, "failed to update product")
		return
	}

	writeSuccess(w, http.StatusOK, "Product updated successfully", map[string]any{"product": product})
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid product id")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "failed to delete product")
		return
	}

	writeSuccess(w, http.StatusOK, "Product deleted successfully", nil)
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid product id")
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "failed to get product")
		return
	}

	writeSuccess(w, http.StatusOK, "Product fetched successfully", map[string]any{"product": product})
}

// productList keeps empty results serializing as [] rather than null.
func productList(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}

func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAll(r.Context(), listLimit)
	if err != nil {
		writeRepoError(w, err, "failed to get products")
		return
	}

	products = productList(products)
	writeSuccess(w, http.StatusOK, "Products fetched successfully", map[string]any{
		"products":   products,
		"totalCount": len(products),
	})
}

func (h *ProductHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid product id")
		return
	}

	photo, photoType, err := h.products.GetPhoto(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "failed to get product photo")
		return
	}

	if photoType == "" {
		photoType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", photoType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(photo)
}

type filterRequest struct {
	Checked []int     `json:"checked"`
	Radio   []float64 `json:"radio"`
}

func (h *ProductHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	products, err := h.products.Filter(r.Context(), req.Checked, req.Radio)
	if err != nil {
		writeRepoError(w, err, "failed to filter products")
		return
	}

	products = productList(products)
	writeSuccess(w, http.StatusOK, "Products fetched successfully", map[string]any{
		"products":   products,
		"totalCount": len(products),
	})
}

func (h *ProductHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_input", "page must be a positive number")
		return
	}

	products, err := h.products.GetPage(r.Context(), page, pageSize)
	if err != nil {
		writeRepoError(w, err, "failed to get products")
		return
	}

	// A page past the end is an empty list, not an error.
	writeSuccess(w, http.StatusOK, "Products fetched successfully", map[string]any{"products": productList(products)})
}

func (h *ProductHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.products.Count(r.Context())
	if err != nil {
		writeRepoError(w, err, "failed to count products")
		return
	}

	writeSuccess(w, http.StatusOK, "Product count fetched successfully", map[string]any{"total": count})
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := chi.URLParam(r, "keyword")
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "keyword is required")
		return
	}

	products, err := h.products.Search(r.Context(), keyword)
	if err != nil {
		writeRepoError(w, err, "failed to search products")
		return
	}

	writeSuccess(w, http.StatusOK, "Products fetched successfully", map[string]any{"products": productList(products)})
}

func (h *ProductHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "pid"))
	if err != nil || productID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid product id")
		return
	}

	categoryID, err := strconv.Atoi(chi.URLParam(r, "cid"))
	if err != nil || categoryID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid category id")
		return
	}

	products, err := h.products.GetRelated(r.Context(), productID, categoryID, relatedLimit)
	if err != nil {
		writeRepoError(w, err, "failed to get related products")
		return
	}

	writeSuccess(w, http.StatusOK, "Products fetched successfully", map[string]any{"products": productList(products)})
}

func (h *ProductHandler) GetByCategorySlug(w http.ResponseWriter, r *http.Request) {
	categorySlug := chi.URLParam(r, "slug")
	if categorySlug == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "slug is required")
		return
	}

	category, err := h.categories.GetBySlug(r.Context(), categorySlug)
	if err != nil {
		writeRepoError(w, err, "failed to get category")
		return
	}

	products, err := h.products.GetByCategory(r.Context(), category.CategoryID)
	if err != nil {
		writeRepoError(w, err, "failed to get products")
		return
	}

	writeSuccess(w, http.StatusOK, "Products fetched successfully", map[string]any{
		"category": category,
		"products": productList(products),
	})
}
