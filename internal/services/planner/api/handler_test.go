package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/theater.planner/internal/services/planner/adminauth"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/season"
	"github.com/louisbranch/theater.planner/internal/services/planner/service"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage/local"
	"github.com/louisbranch/theater.planner/internal/services/planner/storage/sqlite"
)

const testPassword = "open sesame"

type testServer struct {
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cat := service.NewCatalog(store)
	seasons := service.NewSeasons(store, cat)
	planner, err := service.NewPlanner(service.PlannerDeps{
		Local:   local.New(nil),
		Catalog: cat,
		Seasons: seasons,
	})
	if err != nil {
		t.Fatalf("new planner: %v", err)
	}
	hash, err := adminauth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin, err := adminauth.New(adminauth.Config{
		PasswordHash: hash,
		Secret:       []byte("0123456789abcdef0123456789abcdef"),
	})
	if err != nil {
		t.Fatalf("new authority: %v", err)
	}
	h, err := NewHandler(Deps{
		Catalog:   cat,
		Seasons:   seasons,
		Planner:   planner,
		Admin:     admin,
		AccessLog: log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	srv := &testServer{handler: h.Routes()}

	var login struct {
		Token string `json:"token"`
	}
	srv.doJSON(t, http.MethodPost, "/api/admin/login", map[string]string{"password": testPassword}, http.StatusOK, &login)
	if login.Token == "" {
		t.Fatal("login returned no token")
	}
	srv.token = login.Token
	return srv
}

func (s *testServer) do(t *testing.T, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if admin && s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) doJSON(t *testing.T, method, path string, body any, wantStatus int, out any) {
	t.Helper()
	rr := s.do(t, method, path, body, strings.HasPrefix(path, "/api/admin/"))
	if rr.Code != wantStatus {
		t.Fatalf("%s %s status = %d, want %d: %s", method, path, rr.Code, wantStatus, rr.Body.String())
	}
	if out != nil {
		if err := json.NewDecoder(rr.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
}

func TestNewHandlerRequiresServices(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Deps{}); err == nil {
		t.Fatal("expected missing services error")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rr := srv.do(t, http.MethodGet, "/up", nil, false)
	if rr.Code != http.StatusOK || rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("status = %d, request id = %q", rr.Code, rr.Header().Get("X-Request-ID"))
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rr := srv.do(t, http.MethodPost, "/api/admin/acts", map[string]any{"name": 1, "type": "Boss_fight"}, false)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	rr = srv.do(t, http.MethodPost, "/api/admin/login", map[string]string{"password": "nope"}, false)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", rr.Code)
	}
}

func TestActLifecycleOverHTTP(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	var act catalog.Act
	srv.doJSON(t, http.MethodPost, "/api/admin/acts", map[string]any{"name": 4, "type": "Variation_fight"}, http.StatusCreated, &act)
	if act.ID == "" || act.Ordinal != 4 {
		t.Fatalf("act = %+v", act)
	}

	rr := srv.do(t, http.MethodPost, "/api/admin/acts", map[string]any{"name": 4, "type": "Boss_fight"}, true)
	if rr.Code != http.StatusConflict || !strings.Contains(rr.Body.String(), "ACT_DUPLICATE_ORDINAL") {
		t.Fatalf("duplicate status = %d body = %s", rr.Code, rr.Body.String())
	}
	rr = srv.do(t, http.MethodPost, "/api/admin/acts", map[string]any{"name": 3, "type": "Arcana_fight"}, true)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("out of range status = %d", rr.Code)
	}

	srv.doJSON(t, http.MethodPatch, "/api/admin/acts/"+act.ID, map[string]any{"name": 6}, http.StatusOK, &act)
	if act.Ordinal != 6 {
		t.Fatalf("updated act = %+v", act)
	}

	var listed struct {
		Acts []catalog.Act `json:"acts"`
	}
	srv.doJSON(t, http.MethodGet, "/api/acts?sorted=true", nil, http.StatusOK, &listed)
	if len(listed.Acts) != 1 {
		t.Fatalf("acts = %+v", listed.Acts)
	}

	srv.doJSON(t, http.MethodDelete, "/api/admin/acts/"+act.ID, nil, http.StatusNoContent, nil)
	rr = srv.do(t, http.MethodDelete, "/api/admin/acts/"+act.ID, nil, true)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rr.Code)
	}
}

func TestSeasonEditingOverHTTP(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	var act catalog.Act
	srv.doJSON(t, http.MethodPost, "/api/admin/acts", map[string]any{"name": 1, "type": "Variation_fight"}, http.StatusCreated, &act)
	var enemy catalog.Enemy
	srv.doJSON(t, http.MethodPost, "/api/admin/enemies", map[string]any{"name": "Hound", "element": "geo"}, http.StatusCreated, &enemy)

	var current season.Season
	srv.doJSON(t, http.MethodPost, "/api/admin/season/acts/"+act.ID+"/variations", map[string]any{"wave": "2", "timer": "4:00"}, http.StatusOK, &current)
	srv.doJSON(t, http.MethodPost, "/api/admin/season/acts/"+act.ID+"/enemies", map[string]any{
		"variation": 0, "wave": 1, "enemy_ids": []string{enemy.ID},
	}, http.StatusOK, &current)
	srv.doJSON(t, http.MethodPut, "/api/admin/season/acts/"+act.ID+"/variations/0", map[string]any{"wave": "3"}, http.StatusOK, &current)

	got, ok := current.Act(act.ID)
	if !ok || len(got.Variations) != 1 || len(got.Variations[0].Waves) != 3 {
		t.Fatalf("act = %+v", got)
	}
	if waves := got.Variations[0].Waves; len(waves[1].Enemies) != 1 {
		t.Fatalf("wave 1 = %+v", waves[1])
	}

	rr := srv.do(t, http.MethodPut, "/api/admin/season/elements", map[string]any{"elements": []string{"pyro", "hydro", "geo", "cryo"}}, true)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "SEASON_ELEMENT_LIMIT") {
		t.Fatalf("elements status = %d body = %s", rr.Code, rr.Body.String())
	}

	srv.doJSON(t, http.MethodGet, "/api/season", nil, http.StatusOK, &current)
	if !current.HasData() {
		t.Fatalf("season = %+v", current)
	}
	srv.doJSON(t, http.MethodDelete, "/api/admin/season", nil, http.StatusNoContent, nil)
	srv.doJSON(t, http.MethodGet, "/api/season", nil, http.StatusOK, &current)
	if current.HasData() {
		t.Fatalf("season after reset = %+v", current)
	}
}

func TestLineupOverHTTP(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	var act catalog.Act
	srv.doJSON(t, http.MethodPost, "/api/admin/acts", map[string]any{"name": 1, "type": "Variation_fight"}, http.StatusCreated, &act)
	var mode catalog.Mode
	srv.doJSON(t, http.MethodPost, "/api/admin/modes", map[string]any{
		"name": "Normal", "min_characters": 1, "max_characters": 8, "chambers": []string{act.ID},
	}, http.StatusCreated, &mode)
	var nova catalog.Character
	srv.doJSON(t, http.MethodPost, "/api/admin/characters", map[string]any{"name": "Nova", "element": "pyro", "rarity": 5}, http.StatusCreated, &nova)

	var result mutationResult
	srv.doJSON(t, http.MethodPost, "/api/lineup/placements", map[string]string{"act_id": act.ID, "character_id": nova.ID}, http.StatusOK, &result)
	if result.Changed {
		t.Fatal("placement without active mode should be ignored")
	}

	rr := srv.do(t, http.MethodPut, "/api/lineup/mode", map[string]string{"mode_id": "ghost"}, false)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown mode status = %d", rr.Code)
	}
	srv.doJSON(t, http.MethodPut, "/api/lineup/mode", map[string]string{"mode_id": mode.ID}, http.StatusOK, nil)
	srv.doJSON(t, http.MethodPost, "/api/me/characters/"+nova.ID+"/toggle", nil, http.StatusOK, nil)
	srv.doJSON(t, http.MethodPut, "/api/lineup/roster", map[string]any{"character_ids": []string{nova.ID}}, http.StatusOK, nil)
	var placed mutationResult
	srv.doJSON(t, http.MethodPost, "/api/lineup/placements", map[string]string{"act_id": act.ID, "character_id": nova.ID}, http.StatusOK, &placed)
	if !placed.Changed || placed.State.Configuration == nil || placed.State.Configuration.Consumed(nova.ID) != 1 {
		t.Fatalf("place result = %+v", placed)
	}

	rr = srv.do(t, http.MethodGet, "/lineup", nil, false)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Nova") {
		t.Fatalf("page status = %d body = %s", rr.Code, rr.Body.String())
	}

	var removed mutationResult
	srv.doJSON(t, http.MethodDelete, "/api/lineup/placements?act_id="+act.ID+"&character_id="+nova.ID, nil, http.StatusOK, &removed)
	if !removed.Changed || removed.State.Configuration == nil || removed.State.Configuration.Consumed(nova.ID) != 0 {
		t.Fatalf("remove result = %+v", removed)
	}
}

func TestListEnemiesRejectsBadFilter(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rr := srv.do(t, http.MethodGet, `/api/enemies?filter=weapon%20%3D%20%22x%22`, nil, false)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "INVALID_FILTER") {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}
}

func TestTaskTrackerOverHTTP(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	var region catalog.Region
	srv.doJSON(t, http.MethodPost, "/api/admin/regions", map[string]any{"name": "Mondstadt"}, http.StatusCreated, &region)
	var task catalog.Task
	srv.doJSON(t, http.MethodPost, "/api/admin/tasks", map[string]any{
		"name": "Wind chimes", "regionId": region.ID, "taskSeries": true,
		"parts": []map[string]string{{"name": "first"}, {"name": "second"}},
	}, http.StatusCreated, &task)
	srv.doJSON(t, http.MethodPut, "/api/admin/tasks/"+task.ID, map[string]any{
		"name": "Wind chimes II", "regionId": region.ID, "taskSeries": true,
		"parts": []map[string]string{{"name": "first"}, {"name": "second"}},
	}, http.StatusOK, nil)

	var listed struct {
		Tasks []catalog.Task `json:"tasks"`
	}
	srv.doJSON(t, http.MethodGet, "/api/tasks?region_id="+region.ID, nil, http.StatusOK, &listed)
	if len(listed.Tasks) != 1 || listed.Tasks[0].Name != "Wind chimes II" || len(listed.Tasks[0].Parts) != 2 {
		t.Fatalf("tasks = %+v", listed.Tasks)
	}

	rr := srv.do(t, http.MethodPost, "/api/me/tasks/ghost/toggle", nil, false)
	if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), "TASK_NOT_FOUND") {
		t.Fatalf("unknown task status = %d body = %s", rr.Code, rr.Body.String())
	}
	rr = srv.do(t, http.MethodPost, "/api/me/tasks/"+task.ID+"/parts/third/toggle", nil, false)
	if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), "TASK_PART_NOT_FOUND") {
		t.Fatalf("unknown part status = %d body = %s", rr.Code, rr.Body.String())
	}

	srv.doJSON(t, http.MethodPost, "/api/me/tasks/"+task.ID+"/toggle", nil, http.StatusOK, nil)
	srv.doJSON(t, http.MethodPost, "/api/me/tasks/"+task.ID+"/parts/first/toggle", nil, http.StatusOK, nil)
	var out struct {
		Tasks []struct {
			ID       string `json:"id"`
			RegionID string `json:"regionId"`
			Finished bool   `json:"finished"`
			Parts    []struct {
				Name     string `json:"name"`
				Finished bool   `json:"finished"`
			} `json:"parts"`
		} `json:"tasks"`
	}
	srv.doJSON(t, http.MethodGet, "/api/me/tasks", nil, http.StatusOK, &out)
	if len(out.Tasks) != 1 || !out.Tasks[0].Finished || out.Tasks[0].RegionID != region.ID {
		t.Fatalf("progress = %+v", out.Tasks)
	}
	if len(out.Tasks[0].Parts) != 1 || !out.Tasks[0].Parts[0].Finished {
		t.Fatalf("parts = %+v", out.Tasks[0].Parts)
	}

	rr = srv.do(t, http.MethodPost, "/api/admin/tasks", map[string]any{"name": "Orphan", "regionId": "ghost"}, true)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("task in unknown region status = %d", rr.Code)
	}
	if rr := srv.do(t, http.MethodDelete, "/api/admin/regions/"+region.ID, nil, true); rr.Code != http.StatusNoContent {
		t.Fatalf("delete region status = %d", rr.Code)
	}
	srv.doJSON(t, http.MethodGet, "/api/tasks", nil, http.StatusOK, &listed)
	if len(listed.Tasks) != 0 {
		t.Fatalf("tasks after region delete = %+v", listed.Tasks)
	}
}
