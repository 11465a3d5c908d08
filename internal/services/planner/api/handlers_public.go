package api

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
	"github.com/louisbranch/theater.planner/internal/services/planner/api/httpx"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/lineup"
)

func (h *Handler) handleListActs(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	var (
		acts []catalog.Act
		err  error
	)
	if sorted, _ := strconv.ParseBool(r.URL.Query().Get("sorted")); sorted {
		acts, err = h.catalog.ListActsSorted(ctx)
	} else {
		acts, err = h.catalog.ListActs(ctx)
	}
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"acts": acts})
}

func (h *Handler) handleGetSeason(w http.ResponseWriter, r *http.Request) {
	current, err := h.seasons.Load(httpx.RequestContext(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, current)
}

func (h *Handler) handleListModes(w http.ResponseWriter, r *http.Request) {
	modes, err := h.catalog.ListModes(httpx.RequestContext(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"modes": modes})
}

func (h *Handler) handleListEnemies(w http.ResponseWriter, r *http.Request) {
	enemies, err := h.catalog.ListEnemies(httpx.RequestContext(r), r.URL.Query().Get("filter"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"enemies": enemies})
}

func (h *Handler) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := h.catalog.ListCharacters(httpx.RequestContext(r), r.URL.Query().Get("filter"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"characters": characters})
}

// lineupState is the active mode's raw configuration.
type lineupState struct {
	ActiveMode    string                `json:"active_mode"`
	MaxEnergy     int                   `json:"max_energy"`
	Configuration *lineup.Configuration `json:"configuration"`
}

// mutationResult reports whether a lineup mutation changed anything.
type mutationResult struct {
	Changed bool        `json:"changed"`
	State   lineupState `json:"state"`
}

func (h *Handler) state() lineupState {
	state := lineupState{
		ActiveMode: h.planner.ActiveMode(),
		MaxEnergy:  h.planner.MaxEnergy(),
	}
	if config, ok := h.planner.Active(); ok {
		state.Configuration = &config
	}
	return state
}

func (h *Handler) handleLineupState(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, h.state())
}

func (h *Handler) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ModeID string `json:"mode_id"`
	}
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.planner.SetActiveMode(httpx.RequestContext(r), in.ModeID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, mutationResult{Changed: true, State: h.state()})
}

func (h *Handler) handleSetRoster(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CharacterIDs []string `json:"character_ids"`
	}
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	changed := h.planner.UpdateSelectedRoster(in.CharacterIDs)
	writeOK(w, mutationResult{Changed: changed, State: h.state()})
}

type placementRequest struct {
	ActID       string `json:"act_id"`
	CharacterID string `json:"character_id"`
}

func (h *Handler) handlePlace(w http.ResponseWriter, r *http.Request) {
	var in placementRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	changed := h.planner.Place(strings.TrimSpace(in.ActID), strings.TrimSpace(in.CharacterID))
	writeOK(w, mutationResult{Changed: changed, State: h.state()})
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	changed := h.planner.Remove(strings.TrimSpace(query.Get("act_id")), strings.TrimSpace(query.Get("character_id")))
	writeOK(w, mutationResult{Changed: changed, State: h.state()})
}

func (h *Handler) handleSelectEnemy(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ActID string `json:"act_id"`
		Index int    `json:"index"`
	}
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	changed := h.planner.SelectEnemyVariant(strings.TrimSpace(in.ActID), in.Index)
	writeOK(w, mutationResult{Changed: changed, State: h.state()})
}

func (h *Handler) handleLineupView(w http.ResponseWriter, r *http.Request) {
	view, err := h.planner.View(httpx.RequestContext(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, view)
}

func (h *Handler) handleMyCharacters(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, map[string]any{"character_ids": h.planner.Selection()})
}

func (h *Handler) handleToggleCharacter(w http.ResponseWriter, r *http.Request) {
	characterID := strings.TrimSpace(r.PathValue("characterID"))
	if characterID == "" {
		httpx.WriteError(w, r, apperrors.New(apperrors.CodeInvalidRequest, "character id is required"))
		return
	}
	writeOK(w, map[string]any{"character_ids": h.planner.ToggleCharacter(characterID)})
}

func (h *Handler) handleMyTasks(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, map[string]any{"tasks": h.planner.Tasks()})
}

func (h *Handler) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimSpace(r.PathValue("taskID"))
	if taskID == "" {
		httpx.WriteError(w, r, apperrors.New(apperrors.CodeInvalidRequest, "task id is required"))
		return
	}
	tasks, err := h.planner.ToggleTask(httpx.RequestContext(r), taskID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"tasks": tasks})
}

func (h *Handler) handleTogglePart(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimSpace(r.PathValue("taskID"))
	part := strings.TrimSpace(r.PathValue("part"))
	if taskID == "" || part == "" {
		httpx.WriteError(w, r, apperrors.New(apperrors.CodeInvalidRequest, "task id and part are required"))
		return
	}
	tasks, err := h.planner.TogglePart(httpx.RequestContext(r), taskID, part)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"tasks": tasks})
}

func (h *Handler) handleListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.catalog.ListRegions(httpx.RequestContext(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"regions": regions})
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.catalog.ListTasks(httpx.RequestContext(r), r.URL.Query().Get("region_id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"tasks": tasks})
}
