package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
	"github.com/louisbranch/theater.planner/internal/services/planner/api/httpx"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/season"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/structure"
	"github.com/louisbranch/theater.planner/internal/services/planner/service"
)

func (h *Handler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if h.admin == nil {
		httpx.WriteError(w, r, apperrors.New(apperrors.CodeUnauthenticated, "admin access is not configured"))
		return
	}
	var in struct {
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	token, claims, err := h.admin.Login(in.Password)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, map[string]any{
		"token":      token,
		"expires_at": claims.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *Handler) handleCreateAct(w http.ResponseWriter, r *http.Request) {
	var in service.ActInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	act, err := h.catalog.CreateAct(httpx.RequestContext(r), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeCreated(w, act)
}

func (h *Handler) handleUpdateAct(w http.ResponseWriter, r *http.Request) {
	var in service.ActPatch
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	act, err := h.catalog.UpdateAct(httpx.RequestContext(r), r.PathValue("actID"), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, act)
}

func (h *Handler) handleDeleteAct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteAct(httpx.RequestContext(r), r.PathValue("actID")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateMode(w http.ResponseWriter, r *http.Request) {
	var in catalog.Mode
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	in.ID = ""
	mode, err := h.catalog.SaveMode(httpx.RequestContext(r), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeCreated(w, mode)
}

func (h *Handler) handleUpdateMode(w http.ResponseWriter, r *http.Request) {
	var in catalog.Mode
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	in.ID = strings.TrimSpace(r.PathValue("modeID"))
	mode, err := h.catalog.SaveMode(httpx.RequestContext(r), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, mode)
}

func (h *Handler) handleDeleteMode(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteMode(httpx.RequestContext(r), r.PathValue("modeID")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSaveEnemy(w http.ResponseWriter, r *http.Request) {
	var in catalog.Enemy
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	enemy, err := h.catalog.SaveEnemy(httpx.RequestContext(r), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeCreated(w, enemy)
}

func (h *Handler) handleDeleteEnemy(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteEnemy(httpx.RequestContext(r), r.PathValue("enemyID")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSaveCharacter(w http.ResponseWriter, r *http.Request) {
	var in catalog.Character
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	character, err := h.catalog.SaveCharacter(httpx.RequestContext(r), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeCreated(w, character)
}

func (h *Handler) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCharacter(httpx.RequestContext(r), r.PathValue("characterID")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateRegion(w http.ResponseWriter, r *http.Request) {
	var in catalog.Region
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	region, err := h.catalog.SaveRegion(httpx.RequestContext(r), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeCreated(w, region)
}

func (h *Handler) handleUpdateRegion(w http.ResponseWriter, r *http.Request) {
	var in catalog.Region
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	ctx := httpx.RequestContext(r)
	existing, err := h.catalog.GetRegion(ctx, r.PathValue("regionID"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	in.ID = existing.ID
	region, err := h.catalog.SaveRegion(ctx, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, region)
}

func (h *Handler) handleDeleteRegion(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteRegion(httpx.RequestContext(r), r.PathValue("regionID")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in catalog.Task
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	task, err := h.catalog.SaveTask(httpx.RequestContext(r), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeCreated(w, task)
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var in catalog.Task
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	ctx := httpx.RequestContext(r)
	existing, err := h.catalog.GetTask(ctx, r.PathValue("taskID"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	in.ID = existing.ID
	task, err := h.catalog.SaveTask(ctx, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, task)
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteTask(httpx.RequestContext(r), r.PathValue("taskID")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSaveSeason(w http.ResponseWriter, r *http.Request) {
	var in season.Season
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.seasons.Save(httpx.RequestContext(r), in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	h.writeSeason(w, r)
}

func (h *Handler) handleResetSeason(w http.ResponseWriter, r *http.Request) {
	if err := h.seasons.Reset(httpx.RequestContext(r)); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeSeason(w http.ResponseWriter, r *http.Request) {
	current, err := h.seasons.Load(httpx.RequestContext(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	writeOK(w, current)
}

func (h *Handler) handleSetElements(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Elements []string `json:"elements"`
	}
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	respondSeason(w, r)(h.seasons.SetElements(httpx.RequestContext(r), in.Elements))
}

type characterIDsRequest struct {
	CharacterIDs []string `json:"character_ids"`
}

func (h *Handler) handleSetOpening(w http.ResponseWriter, r *http.Request) {
	var in characterIDsRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	respondSeason(w, r)(h.seasons.SetOpeningCharacters(httpx.RequestContext(r), in.CharacterIDs))
}

func (h *Handler) handleSetGuests(w http.ResponseWriter, r *http.Request) {
	var in characterIDsRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	respondSeason(w, r)(h.seasons.SetSpecialGuests(httpx.RequestContext(r), in.CharacterIDs))
}

func (h *Handler) handleAddVariation(w http.ResponseWriter, r *http.Request) {
	var in structure.Settings
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	respondSeason(w, r)(h.seasons.AddVariation(httpx.RequestContext(r), r.PathValue("actID"), in))
}

func (h *Handler) handleEditVariation(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		httpx.WriteError(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "variation index must be a number", err))
		return
	}
	var in structure.Settings
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	respondSeason(w, r)(h.seasons.EditVariation(httpx.RequestContext(r), r.PathValue("actID"), index, in))
}

func (h *Handler) handleAttachEnemies(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Variation int                  `json:"variation"`
		Wave      int                  `json:"wave"`
		EnemyIDs  []string             `json:"enemy_ids"`
		Options   catalog.EnemyOptions `json:"options"`
	}
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	respondSeason(w, r)(h.seasons.AttachEnemies(httpx.RequestContext(r), r.PathValue("actID"), in.Variation, in.Wave, in.EnemyIDs, in.Options))
}

// respondSeason writes the result of a season edit.
func respondSeason(w http.ResponseWriter, r *http.Request) func(season.Season, error) {
	return func(current season.Season, err error) {
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		writeOK(w, current)
	}
}
