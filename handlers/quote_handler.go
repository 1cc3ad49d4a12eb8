package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"dailyMotivatorAPI/internal/types/quote"
	"dailyMotivatorAPI/services"
	"dailyMotivatorAPI/utils"
)

type QuoteHandler struct {
	quoteService    *services.QuoteService
	favoriteService *services.FavoriteService
	timeout         time.Duration
	now             func() time.Time
}

func NewQuoteHandler(quoteService *services.QuoteService, favoriteService *services.FavoriteService, timeout time.Duration) *QuoteHandler {
	return &QuoteHandler{
		quoteService:    quoteService,
		favoriteService: favoriteService,
		timeout:         timeout,
		now:             time.Now,
	}
}

// GET /api/quotes?category=
func (h *QuoteHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	quotes, err := h.quoteService.ListQuotes(ctx, r.URL.Query().Get("category"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list(quotes))
}

// GET /api/quotes/daily
func (h *QuoteHandler) DailyQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q, err := h.quoteService.DailyQuote(ctx, h.now())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, q)
}

// GET /api/quotes/search?q=
func (h *QuoteHandler) SearchQuotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	quotes, err := h.quoteService.SearchQuotes(ctx, r.URL.Query().Get("q"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list(quotes))
}

// GET /api/favorites
func (h *QuoteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	favorites, err := h.favoriteService.ListFavorites(ctx, userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list(favorites))
}

// POST /api/favorites - 201 when newly added, 200 when it was already a favorite
func (h *QuoteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req quote.AddFavoriteRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	fav, created, err := h.favoriteService.AddFavorite(ctx, userID, req.QuoteID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, fav)
}

// DELETE /api/favorites/{id}
func (h *QuoteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.favoriteService.RemoveFavorite(ctx, userID, mux.Vars(r)["id"]); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Removed from favorites"})
}
