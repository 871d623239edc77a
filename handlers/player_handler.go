package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(ps services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: ps}
}

type registerPlayerInput struct {
	Name string `json:"name"`
}

// Register godoc
// @Summary Register a player
// @Tags players
// @Accept json
// @Produce json
// @Param input body registerPlayerInput true "Player name"
// @Success 201 {object} map[string]interface{} "Registered player"
// @Failure 400 {object} map[string]string "Malformed body"
// @Failure 422 {object} map[string]interface{} "Blank or oversized name"
// @Security BearerAuth
// @Router /players [post]
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input registerPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.playerService.Register(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary List players in registration order
// @Tags players
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /players [get]
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Count godoc
// @Summary Number of registered players
// @Tags players
// @Produce json
// @Success 200 {object} map[string]int
// @Router /players/count [get]
func (h *PlayerHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.playerService.Count(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"count": n}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteAll godoc
// @Summary Delete every player
// @Description Fails with 409 while matches exist unless cascade=true.
// @Tags players
// @Produce json
// @Param cascade query bool false "Delete matches first"
// @Success 200 {object} map[string]int
// @Failure 409 {object} map[string]string "Players still have matches"
// @Security BearerAuth
// @Router /players [delete]
func (h *PlayerHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	cascade, err := queryBool(r, "cascade")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	n, err := h.playerService.DeleteAll(r.Context(), cascade)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"deleted": n}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
