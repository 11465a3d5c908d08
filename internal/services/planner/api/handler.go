// Package api exposes the planner over HTTP: JSON reads and lineup operations
// for everyone, catalog and season writes behind an admin token, and the
// rendered lineup page.
package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/a-h/templ"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
	"github.com/louisbranch/theater.planner/internal/platform/otel"
	"github.com/louisbranch/theater.planner/internal/services/planner/adminauth"
	"github.com/louisbranch/theater.planner/internal/services/planner/api/httpx"
	"github.com/louisbranch/theater.planner/internal/services/planner/api/routepath"
	"github.com/louisbranch/theater.planner/internal/services/planner/service"
	"github.com/louisbranch/theater.planner/internal/services/planner/templates"
)

// Deps groups the services the handler dispatches to.
type Deps struct {
	Catalog *service.Catalog
	Seasons *service.Seasons
	Planner *service.Planner
	// Admin may be nil, in which case every admin route answers 401.
	Admin *adminauth.Authority
	// AccessLog receives one line per request; nil uses the standard logger.
	AccessLog *log.Logger
}

// Handler serves the planner HTTP API.
type Handler struct {
	catalog   *service.Catalog
	seasons   *service.Seasons
	planner   *service.Planner
	admin     *adminauth.Authority
	accessLog *log.Logger
}

// NewHandler validates deps and returns a Handler.
func NewHandler(deps Deps) (*Handler, error) {
	if deps.Catalog == nil {
		return nil, errors.New("catalog service is required")
	}
	if deps.Seasons == nil {
		return nil, errors.New("season service is required")
	}
	if deps.Planner == nil {
		return nil, errors.New("planner is required")
	}
	return &Handler{
		catalog:   deps.Catalog,
		seasons:   deps.Seasons,
		planner:   deps.Planner,
		admin:     deps.Admin,
		accessLog: deps.AccessLog,
	}, nil
}

// Routes returns the full route table wrapped in the standard middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc(http.MethodGet+" "+routepath.Lineup, h.handleLineupPage)

	mux.HandleFunc(http.MethodGet+" "+routepath.Acts, h.handleListActs)
	mux.HandleFunc(http.MethodGet+" "+routepath.Season, h.handleGetSeason)
	mux.HandleFunc(http.MethodGet+" "+routepath.Modes, h.handleListModes)
	mux.HandleFunc(http.MethodGet+" "+routepath.Enemies, h.handleListEnemies)
	mux.HandleFunc(http.MethodGet+" "+routepath.Characters, h.handleListCharacters)
	mux.HandleFunc(http.MethodGet+" "+routepath.Regions, h.handleListRegions)
	mux.HandleFunc(http.MethodGet+" "+routepath.Tasks, h.handleListTasks)

	mux.HandleFunc(http.MethodGet+" "+routepath.LineupState, h.handleLineupState)
	mux.HandleFunc(http.MethodPut+" "+routepath.LineupMode, h.handleSetMode)
	mux.HandleFunc(http.MethodPut+" "+routepath.LineupRoster, h.handleSetRoster)
	mux.HandleFunc(http.MethodPost+" "+routepath.LineupPlace, h.handlePlace)
	mux.HandleFunc(http.MethodDelete+" "+routepath.LineupPlace, h.handleRemove)
	mux.HandleFunc(http.MethodPut+" "+routepath.LineupEnemies, h.handleSelectEnemy)
	mux.HandleFunc(http.MethodGet+" "+routepath.LineupView, h.handleLineupView)

	mux.HandleFunc(http.MethodGet+" "+routepath.MeCharacters, h.handleMyCharacters)
	mux.HandleFunc(http.MethodPost+" "+routepath.MeCharacterToggle, h.handleToggleCharacter)
	mux.HandleFunc(http.MethodGet+" "+routepath.MeTasks, h.handleMyTasks)
	mux.HandleFunc(http.MethodPost+" "+routepath.MeTaskToggle, h.handleToggleTask)
	mux.HandleFunc(http.MethodPost+" "+routepath.MeTaskPartToggle, h.handleTogglePart)

	mux.HandleFunc(http.MethodPost+" "+routepath.AdminLogin, h.handleAdminLogin)
	h.registerAdmin(mux)

	return httpx.Chain(mux,
		httpx.RequestID(),
		httpx.RecoverPanic(),
		httpx.RequestLogger(h.accessLog),
		httpx.Trace(otel.Tracer("http")),
	)
}

// registerAdmin mounts every admin write behind requireAdmin.
func (h *Handler) registerAdmin(mux *http.ServeMux) {
	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{http.MethodPost + " " + routepath.AdminActs, h.handleCreateAct},
		{http.MethodPatch + " " + routepath.AdminAct, h.handleUpdateAct},
		{http.MethodDelete + " " + routepath.AdminAct, h.handleDeleteAct},
		{http.MethodPost + " " + routepath.AdminModes, h.handleCreateMode},
		{http.MethodPut + " " + routepath.AdminMode, h.handleUpdateMode},
		{http.MethodDelete + " " + routepath.AdminMode, h.handleDeleteMode},
		{http.MethodPost + " " + routepath.AdminEnemies, h.handleSaveEnemy},
		{http.MethodDelete + " " + routepath.AdminEnemy, h.handleDeleteEnemy},
		{http.MethodPost + " " + routepath.AdminCharacters, h.handleSaveCharacter},
		{http.MethodDelete + " " + routepath.AdminCharacter, h.handleDeleteCharacter},
		{http.MethodPost + " " + routepath.AdminRegions, h.handleCreateRegion},
		{http.MethodPut + " " + routepath.AdminRegion, h.handleUpdateRegion},
		{http.MethodDelete + " " + routepath.AdminRegion, h.handleDeleteRegion},
		{http.MethodPost + " " + routepath.AdminTasks, h.handleCreateTask},
		{http.MethodPut + " " + routepath.AdminTask, h.handleUpdateTask},
		{http.MethodDelete + " " + routepath.AdminTask, h.handleDeleteTask},
		{http.MethodPut + " " + routepath.AdminSeason, h.handleSaveSeason},
		{http.MethodDelete + " " + routepath.AdminSeason, h.handleResetSeason},
		{http.MethodPut + " " + routepath.AdminSeasonElements, h.handleSetElements},
		{http.MethodPut + " " + routepath.AdminSeasonOpening, h.handleSetOpening},
		{http.MethodPut + " " + routepath.AdminSeasonGuests, h.handleSetGuests},
		{http.MethodPost + " " + routepath.AdminSeasonVariations, h.handleAddVariation},
		{http.MethodPut + " " + routepath.AdminSeasonVariation, h.handleEditVariation},
		{http.MethodPost + " " + routepath.AdminSeasonEnemies, h.handleAttachEnemies},
	}
	for _, route := range routes {
		mux.Handle(route.pattern, h.requireAdmin(route.handler))
	}
}

// requireAdmin rejects requests without a valid admin bearer token.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.admin == nil {
			httpx.WriteError(w, r, apperrors.New(apperrors.CodeUnauthenticated, "admin access is not configured"))
			return
		}
		if _, err := h.admin.Verify(httpx.BearerToken(r)); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleLineupPage(w http.ResponseWriter, r *http.Request) {
	view, err := h.planner.View(httpx.RequestContext(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	templ.Handler(templates.LineupPage(view)).ServeHTTP(w, r)
}

func writeOK(w http.ResponseWriter, payload any) {
	if err := httpx.WriteJSON(w, http.StatusOK, payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeCreated(w http.ResponseWriter, payload any) {
	if err := httpx.WriteJSON(w, http.StatusCreated, payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
