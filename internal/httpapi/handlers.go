package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/RauAliaxYr/ApocalypticBase/internal/sim"
	"github.com/RauAliaxYr/ApocalypticBase/internal/storage"
)

// Simulation request limits.
const (
	maxSimBoards  = 500
	maxSimSwaps   = 500
	maxSimWorkers = 16
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// intParam reads an optional positive integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type boardDef struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	MinMatch int `json:"min_match"`
}

type tileDef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Chain     string `json:"chain"`
	Level     int    `json:"level"`
	Glyph     string `json:"glyph"`
	Color     string `json:"color"`
	Swappable bool   `json:"swappable"`
	Value     int    `json:"value,omitempty"`
}

type enemyDef struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Glyph      string  `json:"glyph"`
	Health     int     `json:"health"`
	MoveSpeed  float64 `json:"move_speed"`
	Damage     int     `json:"damage"`
	GoldReward int     `json:"gold_reward"`
}

type defsResponse struct {
	Board     boardDef            `json:"board"`
	Tiles     []tileDef           `json:"tiles"`
	SpawnPool []string            `json:"spawn_pool"`
	Chains    map[string][]string `json:"chains"`
	Enemies   []enemyDef          `json:"enemies"`
}

func (s *Server) handleDefs(w http.ResponseWriter, r *http.Request) {
	cat, err := s.cfg.Catalog()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := defsResponse{
		Board:     boardDef{Width: s.cfg.Board.Width, Height: s.cfg.Board.Height, MinMatch: s.cfg.Board.MinMatch},
		SpawnPool: cat.SpawnPool(),
		Chains:    make(map[string][]string),
		Tiles:     []tileDef{},
		Enemies:   []enemyDef{},
	}
	for _, id := range cat.Resources() {
		resp.Chains[id] = cat.Chain(id)
	}
	for _, ch := range s.cfg.Tiles.Chains {
		res := ch.Resource
		resp.Tiles = append(resp.Tiles, tileDef{
			ID: res.ID, Name: res.Name, Kind: "resource", Chain: res.ID,
			Glyph: res.Glyph, Color: res.Color, Swappable: res.IsSwappable(), Value: res.Value,
		})
		for i, t := range ch.Towers {
			resp.Tiles = append(resp.Tiles, tileDef{
				ID: t.ID, Name: t.Name, Kind: "tower", Chain: res.ID, Level: i + 1,
				Glyph: t.Glyph, Color: t.Color, Swappable: t.IsSwappable(),
			})
		}
	}
	for _, e := range s.cfg.Waves.Enemies {
		resp.Enemies = append(resp.Enemies, enemyDef{
			ID: e.ID, Name: e.Name, Glyph: e.Glyph, Health: e.Health,
			MoveSpeed: e.MoveSpeed, Damage: e.Damage, GoldReward: e.GoldReward,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "score database not configured")
		return
	}
	stats, err := s.store.GetAllGamesStats()
	if err != nil {
		s.logger.Error("stats query failed", "err", err)
		writeError(w, http.StatusInternalServerError, "cannot read stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "score database not configured")
		return
	}
	limit, err := intParam(r, "limit", 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode := chi.URLParam(r, "mode")
	scores, err := s.store.TopScores(mode, limit)
	if err != nil {
		s.logger.Error("score query failed", "mode", mode, "err", err)
		writeError(w, http.StatusInternalServerError, "cannot read scores")
		return
	}
	if scores == nil {
		scores = []storage.ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"mode": mode, "scores": scores})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "score database not configured")
		return
	}
	limit, err := intParam(r, "limit", 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	runs, err := s.store.RecentRuns(r.URL.Query().Get("mode"), limit)
	if err != nil {
		s.logger.Error("run query failed", "err", err)
		writeError(w, http.StatusInternalServerError, "cannot read runs")
		return
	}
	if runs == nil {
		runs = []storage.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

type simulateRequest struct {
	Boards  int    `json:"boards"`
	Swaps   int    `json:"swaps"`
	Workers int    `json:"workers,omitempty"`
	Seed    *int64 `json:"seed,omitempty"`
}

type simulateResponse struct {
	Report   *sim.Report `json:"report"`
	UsedTime int64       `json:"used_ms"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	switch {
	case req.Boards < 1 || req.Boards > maxSimBoards:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("boards must be between 1 and %d", maxSimBoards))
		return
	case req.Swaps < 1 || req.Swaps > maxSimSwaps:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("swaps must be between 1 and %d", maxSimSwaps))
		return
	case req.Workers < 0 || req.Workers > maxSimWorkers:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("workers must be between 1 and %d", maxSimWorkers))
		return
	}
	if req.Workers == 0 {
		req.Workers = 4
	}
	seed := rand.Int63()
	if req.Seed != nil {
		seed = *req.Seed
	}

	rep, err := s.sim.Run(r.Context(), sim.Options{
		Boards:  req.Boards,
		Swaps:   req.Swaps,
		Workers: req.Workers,
		Seed:    seed,
	})
	switch {
	case errors.Is(err, sim.ErrInvalidOptions):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Warn("simulation aborted", "err", err)
		writeError(w, http.StatusRequestTimeout, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, simulateResponse{Report: rep, UsedTime: rep.Elapsed.Milliseconds()})
}
