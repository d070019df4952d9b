package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/fantasy-playoffs/middleware"
	"github.com/Dosada05/fantasy-playoffs/models"
	"github.com/Dosada05/fantasy-playoffs/services"
)

type BracketHandler struct {
	bracketService services.BracketService
	logger         *slog.Logger
}

func NewBracketHandler(bs services.BracketService, logger *slog.Logger) *BracketHandler {
	return &BracketHandler{
		bracketService: bs,
		logger:         logger,
	}
}

// GetBracketHandler handles GET /leagues/{leagueID}/bracket
func (h *BracketHandler) GetBracketHandler(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getLeagueIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var only models.BracketType
	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		only, err = models.ParseBracketType(typeStr)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	view, err := h.bracketService.GetBracketView(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	switch only {
	case models.BracketWinners:
		view.LosersBracket = nil
	case models.BracketLosers:
		view.WinnersBracket = nil
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SyncBracketHandler handles POST /leagues/{leagueID}/bracket/sync
func (h *BracketHandler) SyncBracketHandler(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getLeagueIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	operator, _ := middleware.GetSubjectFromContext(r.Context())
	h.logger.Info("manual bracket sync requested", slog.String("league_id", leagueID), slog.String("operator", operator))

	result, err := h.bracketService.SyncBracket(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"sync": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// HealthHandler handles GET /healthz
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
