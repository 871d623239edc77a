package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

type reportMatchInput struct {
	WinnerID int `json:"winner_id"`
	LoserID  int `json:"loser_id"`
}

// Report godoc
// @Summary Report the outcome of a match
// @Tags matches
// @Accept json
// @Produce json
// @Param input body reportMatchInput true "Winner and loser ids"
// @Success 201 {object} map[string]interface{} "Recorded match"
// @Failure 400 {object} map[string]string "Self match or non-positive id"
// @Failure 409 {object} map[string]string "Pair already played"
// @Failure 422 {object} map[string]interface{} "Unknown player"
// @Security BearerAuth
// @Router /matches [post]
func (h *MatchHandler) Report(w http.ResponseWriter, r *http.Request) {
	var input reportMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Report(r.Context(), input.WinnerID, input.LoserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary List recorded matches
// @Tags matches
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /matches [get]
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteAll godoc
// @Summary Delete every match
// @Tags matches
// @Produce json
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /matches [delete]
func (h *MatchHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.matchService.DeleteAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"deleted": n}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
