package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"shop-service/internal/models"
	"shop-service/internal/repository"
	"shop-service/internal/slug"
)

type CategoryHandler struct {
	categories repository.CategoryRepository
}

func NewCategoryHandler(categories repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=150"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", validationMessage(err))
		return
	}

	category := models.Category{
		Name: req.Name,
		Slug: slug.Make(req.Name),
	}

	if err := h.categories.Create(r.Context(), &category); err != nil {
		writeRepoError(w, err, "failed to create category")
		return
	}

	writeSuccess(w, http.StatusCreated, "Category created successfully", map[string]any{"category": category})
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid category id")
		return
	}

	var req categoryRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", validationMessage(err))
		return
	}

	category := models.Category{
		CategoryID: id,
		Name:       req.Name,
		Slug:       slug.Make(req.Name),
	}

	if err := h.categories.Update(r.Context(), &category); err != nil {
		writeRepoError(w, err, "failed to update category")
		return
	}

	writeSuccess(w, http.StatusOK, "Category updated successfully", map[string]any{"category": category})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid category id")
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "failed to delete category")
		return
	}

	writeSuccess(w, http.StatusOK, "Category deleted successfully", nil)
}

func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.GetAll(r.Context())
	if err != nil {
		writeRepoError(w, err, "failed to get categories")
		return
	}

	writeSuccess(w, http.StatusOK, "Categories fetched successfully", map[string]any{"category": categories})
}

func (h *CategoryHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
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

	writeSuccess(w, http.StatusOK, "Category fetched successfully", map[string]any{"category": category})
}
