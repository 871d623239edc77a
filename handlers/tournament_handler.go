package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

// TournamentHandler serves the derived views: standings and the next round.
type TournamentHandler struct {
	standingsService services.StandingsService
	pairingService   services.PairingService
}

func NewTournamentHandler(ss services.StandingsService, ps services.PairingService) *TournamentHandler {
	return &TournamentHandler{standingsService: ss, pairingService: ps}
}

// Standings godoc
// @Summary Current standings
// @Description Ordered by wins descending, ties by registration order.
// @Tags tournament
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /standings [get]
func (h *TournamentHandler) Standings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.standingsService.Standings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Pairings godoc
// @Summary Compute the next round
// @Description Pairs players of equal wins without rematches. The same seed over the same standings gives the same round.
// @Tags tournament
// @Produce json
// @Param seed query int false "Random seed"
// @Success 200 {object} map[string]interface{} "Round"
// @Failure 409 {object} map[string]interface{} "No valid pairing or odd player count"
// @Security BearerAuth
// @Router /pairings [get]
func (h *TournamentHandler) Pairings(w http.ResponseWriter, r *http.Request) {
	seed, err := queryInt64(r, "seed")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	round, err := h.pairingService.NextRound(r.Context(), services.PairingRequest{Seed: seed})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"round": round}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
