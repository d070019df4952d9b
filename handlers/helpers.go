package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/fantasy-playoffs/brackets"
	"github.com/Dosada05/fantasy-playoffs/models"
	"github.com/Dosada05/fantasy-playoffs/services"
	"github.com/Dosada05/fantasy-playoffs/sleeper"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", slog.String("path", r.URL.Path), slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error", slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusNotFound, message)
}

func unprocessableResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
}

func badGatewayResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Warn("upstream failure", slog.String("path", r.URL.Path), slog.Any("error", err))
	errorResponse(w, r, http.StatusBadGateway, "the bracket provider could not be reached")
}

func serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("bracket write failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	errorResponse(w, r, http.StatusServiceUnavailable, "bracket could not be saved, retry the sync later")
}

// mapServiceErrorToHTTP converts bracket service errors into HTTP responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *sleeper.APIError
	switch {
	case errors.Is(err, services.ErrLeagueIDRequired),
		errors.Is(err, models.ErrInvalidBracketType):
		badRequestResponse(w, r, err)
	case errors.Is(err, services.ErrBracketNotFound):
		notFoundResponse(w, r, err.Error())
	case errors.Is(err, brackets.ErrInvalidReference),
		errors.Is(err, brackets.ErrInvalidSlot):
		unprocessableResponse(w, r, err)
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusNotFound {
			notFoundResponse(w, r, "league not found at the bracket provider")
			return
		}
		badGatewayResponse(w, r, err)
	case errors.Is(err, services.ErrPersistChunk):
		serviceUnavailableResponse(w, r, err)
	default:
		serverErrorResponse(w, r, err)
	}
}

func getLeagueIDFromURL(r *http.Request) (string, error) {
	leagueID := strings.TrimSpace(chi.URLParam(r, "leagueID"))
	if leagueID == "" {
		return "", services.ErrLeagueIDRequired
	}
	for _, ch := range leagueID {
		if ch < '0' || ch > '9' {
			return "", fmt.Errorf("invalid league id %q: must be numeric", leagueID)
		}
	}
	return leagueID, nil
}
