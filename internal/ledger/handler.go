package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/tsena-shop/tsena/internal/catalog/categories"
	"github.com/tsena-shop/tsena/internal/catalog/groups"
	"github.com/tsena-shop/tsena/internal/paging"
	"github.com/tsena-shop/tsena/internal/platform/httpx"
)

const historyPageSize = 10
const exportLimit = 5000

// GroupLister supplies the group filter dimension for the history screen.
type GroupLister interface {
	List(ctx context.Context) ([]groups.Group, error)
}

// CategoryLister supplies the category filter dimension.
type CategoryLister interface {
	List(ctx context.Context) ([]categories.Category, error)
}

// Handler wires HTTP endpoints for the movement ledger.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	groups    GroupLister
	cats      CategoryLister
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, groupLister GroupLister, categoryLister CategoryLister) *Handler {
	return &Handler{logger: logger, service: service, groups: groupLister, cats: categoryLister, validator: validator.New()}
}

// MountRoutes registers the ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	// Submissions get a tighter rate limit than the rest of the API:
	// rapid repeats are almost always double-clicks.
	r.With(httprate.LimitByIP(30, time.Minute)).Post("/movements", h.handleRecord)
	r.Get("/movements", h.handleHistory)
	r.Get("/movements/export.csv", h.handleExport)
	r.Get("/stats", h.handleStats)
}

type movementForm struct {
	ProductID     string  `json:"ProductId" validate:"required"`
	TypeMouvement string  `json:"TypeMouvement" validate:"required"`
	Quantite      int64   `json:"Quantite" validate:"required,gt=0"`
	PrixUnitaire  float64 `json:"PrixUnitaire" validate:"gte=0"`
	Motif         string  `json:"Motif" validate:"required,min=1"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var form movementForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	receipt, err := h.service.RecordMovement(r.Context(), RecordInput{
		ProductID:    form.ProductID,
		Type:         MovementType(form.TypeMouvement),
		Quantite:     form.Quantite,
		PrixUnitaire: form.PrixUnitaire,
		Motif:        form.Motif,
		ActorID:      r.Header.Get("X-Actor-Id"),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, receipt)
}

type historyResponse struct {
	Movements  paging.Page[Movement] `json:"movements"`
	Totals     Totals                `json:"totals"`
	Groups     []groups.Group        `json:"groups"`
	Categories []categories.Category `json:"categories"`
}

// handleHistory returns one page of movements plus the totals of that page
// and the catalog dimensions the filter bar needs, fetched in parallel.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	params := paging.ParseParams(r.URL.Query())
	filter := filterFromParams(params)

	var resp historyResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		page, err := h.service.ListPage(ctx, filter, params.Page, historyPageSize)
		if err != nil {
			return err
		}
		resp.Movements = page
		resp.Totals = Summarize(page.Items)
		return nil
	})
	g.Go(func() error {
		list, err := h.groups.List(ctx)
		if err != nil {
			return err
		}
		resp.Groups = list
		return nil
	})
	g.Go(func() error {
		list, err := h.cats.List(ctx)
		if err != nil {
			return err
		}
		resp.Categories = list
		return nil
	})
	if err := g.Wait(); err != nil {
		// A failed fetch yields an empty history rather than a dead
		// screen. Totals are recomputed from what is shown, so the
		// whole response resets, not just the item list.
		h.logger.Error("load movement history", slog.Any("error", err))
		resp = historyResponse{
			Movements:  paging.Page[Movement]{Items: []Movement{}, Page: params.Page, PerPage: historyPageSize},
			Groups:     []groups.Group{},
			Categories: []categories.Category{},
		}
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	params := paging.ParseParams(r.URL.Query())
	movements, err := h.service.ListAll(r.Context(), filterFromParams(params), exportLimit)
	if err != nil {
		h.logger.Error("load movement stats", slog.Any("error", err))
		movements = nil
	}
	httpx.JSON(w, http.StatusOK, Summarize(movements))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	params := paging.ParseParams(r.URL.Query())
	movements, err := h.service.ListAll(r.Context(), filterFromParams(params), exportLimit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="mouvements.csv"`)
	writer := csv.NewWriter(w)
	header := []string{"reference", "produit", "type", "quantite", "prix_unitaire", "valeur_totale", "motif", "date", "stock_avant", "stock_apres"}
	if err := writer.Write(header); err != nil {
		return
	}
	for _, m := range movements {
		row := []string{
			m.Reference,
			m.Produit,
			string(m.TypeMouvement),
			strconv.FormatInt(m.Quantite, 10),
			strconv.FormatFloat(m.PrixUnitaire, 'f', 2, 64),
			strconv.FormatFloat(m.ValeurTotale, 'f', 2, 64),
			m.Motif,
			m.DateAjout.Format(time.RFC3339),
			strconv.FormatInt(m.StockAvant, 10),
			strconv.FormatInt(m.StockApres, 10),
		}
		if err := writer.Write(row); err != nil {
			return
		}
	}
	writer.Flush()
}

func filterFromParams(params paging.Params) ListFilter {
	return ListFilter{
		Search:   params.Search,
		Group:    params.Group,
		Category: params.Cat,
		Start:    params.Start,
		End:      params.End,
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var insufficient *InsufficientStockError
	switch {
	case errors.Is(err, ErrProductNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "product not found")
	case errors.As(err, &insufficient):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Insufficient Stock",
			fmt.Sprintf("%d on hand, %d requested", insufficient.Courant, insufficient.Demande))
	case errors.Is(err, ErrDuplicateMovement):
		httpx.Problem(w, http.StatusConflict, "Duplicate Movement", "this movement was already recorded")
	case errors.Is(err, ErrTransactionConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", "concurrent update, please retry")
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidType), errors.Is(err, ErrMissingReason):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("ledger request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
	}
}
