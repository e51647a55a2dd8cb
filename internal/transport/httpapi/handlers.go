package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pantry/internal/domain/inventory"
	"pantry/internal/domain/recipe"
)

const (
	maxBodyBytes      = 1 << 20
	maxTranslateItems = 500
)

type addItemRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type itemsResponse struct {
	Items []inventory.Item `json:"items"`
}

type searchResponse struct {
	Results []recipe.Summary `json:"results"`
}

type translateRequest struct {
	Items  []string `json:"items"`
	Source string   `json:"source"`
	Target string   `json:"target"`
}

type translateResponse struct {
	Items []string `json:"items"`
}

func (h *handler) listInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.deps.Inventory.ListItems(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	if items == nil {
		items = []inventory.Item{}
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *handler) addInventory(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.deps.Inventory.AddItem(r.Context(), inventory.NewItemInput{
		OwnerID:  ownerFromContext(r.Context()),
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	})
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *handler) deleteInventory(w http.ResponseWriter, r *http.Request) {
	err := h.deps.Inventory.DeleteItem(r.Context(), ownerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) searchRecipes(w http.ResponseWriter, r *http.Request) {
	filters, err := recipe.ParseFilters(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.deps.Recipes.Search(r.Context(), ownerFromContext(r.Context()), filters)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	if results == nil {
		results = []recipe.Summary{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: results})
}

func (h *handler) recipeDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, recipe.ErrInvalidRecipeID.Error())
		return
	}

	detail, err := h.deps.Recipes.Details(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *handler) translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Items) > maxTranslateItems {
		writeError(w, http.StatusBadRequest, "too many items, max "+strconv.Itoa(maxTranslateItems))
		return
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = h.deps.DisplayLang
	}
	target := strings.TrimSpace(req.Target)
	if target == "" {
		target = h.deps.ProviderLang
	}

	items := h.deps.Translator.TranslateBatch(r.Context(), req.Items, source, target)
	writeJSON(w, http.StatusOK, translateResponse{Items: items})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
