package products

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tsena-shop/tsena/internal/paging"
	"github.com/tsena-shop/tsena/internal/platform/httpx"
	"github.com/tsena-shop/tsena/internal/shared"
)

const adminPageSize = 5
const shopPageSize = 8

// Handler wires HTTP endpoints for the product registry.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers admin product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
	r.Post("/{id}/image", h.handleImage)
}

// MountPublicRoutes registers the storefront listing.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/", h.handleShopList)
}

type productForm struct {
	Nom         string  `json:"Nom" validate:"required,min=1,max=200"`
	IdGroupe    string  `json:"IdGroupe" validate:"required"`
	IdCategorie string  `json:"IdCategorie" validate:"required"`
	Prix        float64 `json:"Prix" validate:"gte=0"`
	Poids       float64 `json:"Poids" validate:"gte=0"`
	Stock       int64   `json:"Stock" validate:"gte=0"`
	Description string  `json:"Description"`
	Image       string  `json:"image"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	params := paging.ParseParams(r.URL.Query())
	page, err := h.service.ListPage(r.Context(), ListFilter{Search: params.Search, Category: params.Cat}, params.Page, adminPageSize)
	if err != nil {
		// Fetch failures surface as an empty page plus a logged error, not a crash.
		h.logger.Error("list products", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) handleShopList(w http.ResponseWriter, r *http.Request) {
	params := paging.ParseParams(r.URL.Query())
	page, err := h.service.ListPage(r.Context(), ListFilter{Search: params.Search, Category: params.Cat}, params.Page, shopPageSize)
	if err != nil {
		h.logger.Error("list shop products", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	p, err := h.service.Create(r.Context(), CreateInput{
		Nom:         form.Nom,
		IdGroupe:    form.IdGroupe,
		IdCategorie: form.IdCategorie,
		Prix:        form.Prix,
		Poids:       form.Poids,
		Stock:       form.Stock,
		Description: form.Description,
		Image:       form.Image,
	})
	if err != nil {
		h.respondError(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	err := h.service.Update(r.Context(), chi.URLParam(r, "id"), Update{
		Nom:         form.Nom,
		IdGroupe:    form.IdGroupe,
		IdCategorie: form.IdCategorie,
		Prix:        form.Prix,
		Poids:       form.Poids,
		Description: form.Description,
	})
	if err != nil {
		h.respondError(w, "update product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

const maxImageSize = 8 << 20

func (h *Handler) handleImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "image file required")
		return
	}
	defer file.Close()

	url, err := h.service.SetImage(r.Context(), chi.URLParam(r, "id"), header.Filename, file)
	if err != nil {
		h.respondError(w, "upload product image", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"image": url})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "product does not exist")
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
