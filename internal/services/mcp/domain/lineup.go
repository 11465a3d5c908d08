package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/theater.planner/internal/services/planner/domain/lineup"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// errNoActiveMode is returned by placement tools before a mode is chosen.
var errNoActiveMode = errors.New("no active mode; call lineup_set_mode first")

// LineupPlanner is the planner surface the lineup tools drive.
type LineupPlanner interface {
	ActiveMode() string
	MaxEnergy() int
	SetActiveMode(ctx context.Context, modeID string) error
	UpdateSelectedRoster(characterIDs []string) bool
	Place(actID, characterID string) bool
	Remove(actID, characterID string) bool
	SelectEnemyVariant(actID string, index int) bool
	RemainingEnergy(characterID string) int
	View(ctx context.Context) (lineup.View, error)
}

// LineupSetModeInput represents the MCP tool input for switching modes.
type LineupSetModeInput struct {
	ModeID string `json:"mode_id" jsonschema:"identifier of the mode to plan for"`
}

// LineupSetModeResult represents the MCP tool output for switching modes.
type LineupSetModeResult struct {
	ModeID    string `json:"mode_id"`
	MaxEnergy int    `json:"max_energy"`
}

// LineupRosterInput represents the MCP tool input for replacing the roster.
type LineupRosterInput struct {
	CharacterIDs []string `json:"character_ids" jsonschema:"character identifiers to keep on the roster"`
}

// LineupRosterResult represents the MCP tool output for replacing the roster.
type LineupRosterResult struct {
	Changed      bool     `json:"changed"`
	CharacterIDs []string `json:"character_ids"`
}

// LineupPlacementInput represents the MCP tool input for placing or removing
// a character.
type LineupPlacementInput struct {
	ActID       string `json:"act_id" jsonschema:"chamber (act) identifier"`
	CharacterID string `json:"character_id" jsonschema:"character identifier"`
}

// LineupPlacementResult represents the MCP tool output for placement changes.
type LineupPlacementResult struct {
	Changed     bool   `json:"changed"`
	ActID       string `json:"act_id"`
	CharacterID string `json:"character_id"`
	Remaining   int    `json:"remaining_energy"`
}

// LineupEnemyInput represents the MCP tool input for choosing the displayed
// enemy entry of a chamber.
type LineupEnemyInput struct {
	ActID string `json:"act_id" jsonschema:"chamber (act) identifier"`
	Index int    `json:"index" jsonschema:"zero-based enemy entry index"`
}

// LineupEnemyResult represents the MCP tool output for enemy selection.
type LineupEnemyResult struct {
	Changed bool `json:"changed"`
}

// LineupStatusInput represents the MCP tool input for reading the board.
type LineupStatusInput struct{}

// CharacterEnergy is one roster entry with its remaining energy.
type CharacterEnergy struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Energy int    `json:"energy"`
}

// ChamberStatus is one chamber of the lineup board.
type ChamberStatus struct {
	ActID       string   `json:"act_id"`
	Ordinal     int      `json:"ordinal"`
	Type        string   `json:"type"`
	Side        string   `json:"side"`
	Label       string   `json:"label,omitempty"`
	Placed      []string `json:"placed"`
	Enemies     []string `json:"enemies"`
	ActiveEnemy int      `json:"active_enemy"`
}

// LineupStatusResult represents the MCP tool output for the lineup board.
type LineupStatusResult struct {
	ModeID    string            `json:"mode_id"`
	ModeName  string            `json:"mode_name"`
	MaxEnergy int               `json:"max_energy"`
	Elements  []string          `json:"elements"`
	Roster    []CharacterEnergy `json:"roster"`
	Opening   []CharacterEnergy `json:"opening"`
	Chambers  []ChamberStatus   `json:"chambers"`
}

// LineupSetModeTool defines the MCP tool schema for switching modes.
func LineupSetModeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "lineup_set_mode",
		Description: "Switches the lineup to a mode, creating an empty configuration the first time",
	}
}

// LineupRosterTool defines the MCP tool schema for replacing the roster.
func LineupRosterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "lineup_set_roster",
		Description: "Replaces the active mode's roster; placements of dropped characters are kept",
	}
}

// LineupPlaceTool defines the MCP tool schema for placing a character.
func LineupPlaceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "lineup_place",
		Description: "Places a character into a chamber, spending one energy",
	}
}

// LineupRemoveTool defines the MCP tool schema for removing a character.
func LineupRemoveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "lineup_remove",
		Description: "Removes a character from a chamber, refunding one energy",
	}
}

// LineupEnemyTool defines the MCP tool schema for choosing an enemy entry.
func LineupEnemyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "lineup_select_enemy",
		Description: "Chooses which enemy entry a chamber displays",
	}
}

// LineupStatusTool defines the MCP tool schema for reading the board.
func LineupStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "lineup_status",
		Description: "Returns the active mode's roster energy and chamber placements",
	}
}

// LineupSetModeHandler executes a mode switch.
func LineupSetModeHandler(planner LineupPlanner) mcp.ToolHandlerFor[LineupSetModeInput, LineupSetModeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LineupSetModeInput) (*mcp.CallToolResult, LineupSetModeResult, error) {
		if planner == nil {
			return nil, LineupSetModeResult{}, fmt.Errorf("lineup planner is not configured")
		}
		modeID := strings.TrimSpace(input.ModeID)
		if modeID == "" {
			return nil, LineupSetModeResult{}, fmt.Errorf("mode_id is required")
		}
		if err := planner.SetActiveMode(ctx, modeID); err != nil {
			return nil, LineupSetModeResult{}, fmt.Errorf("lineup set mode failed: %w", err)
		}
		return nil, LineupSetModeResult{ModeID: planner.ActiveMode(), MaxEnergy: planner.MaxEnergy()}, nil
	}
}

// LineupRosterHandler executes a roster replacement.
func LineupRosterHandler(planner LineupPlanner) mcp.ToolHandlerFor[LineupRosterInput, LineupRosterResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input LineupRosterInput) (*mcp.CallToolResult, LineupRosterResult, error) {
		if planner == nil {
			return nil, LineupRosterResult{}, fmt.Errorf("lineup planner is not configured")
		}
		if planner.ActiveMode() == "" {
			return nil, LineupRosterResult{}, errNoActiveMode
		}
		ids := append([]string{}, input.CharacterIDs...)
		return nil, LineupRosterResult{
			Changed:      planner.UpdateSelectedRoster(ids),
			CharacterIDs: ids,
		}, nil
	}
}

// LineupPlaceHandler executes a placement.
func LineupPlaceHandler(planner LineupPlanner) mcp.ToolHandlerFor[LineupPlacementInput, LineupPlacementResult] {
	return placementHandler(planner, func(actID, characterID string) bool {
		return planner.Place(actID, characterID)
	})
}

// LineupRemoveHandler executes a removal.
func LineupRemoveHandler(planner LineupPlanner) mcp.ToolHandlerFor[LineupPlacementInput, LineupPlacementResult] {
	return placementHandler(planner, func(actID, characterID string) bool {
		return planner.Remove(actID, characterID)
	})
}

func placementHandler(planner LineupPlanner, apply func(actID, characterID string) bool) mcp.ToolHandlerFor[LineupPlacementInput, LineupPlacementResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input LineupPlacementInput) (*mcp.CallToolResult, LineupPlacementResult, error) {
		if planner == nil {
			return nil, LineupPlacementResult{}, fmt.Errorf("lineup planner is not configured")
		}
		actID := strings.TrimSpace(input.ActID)
		characterID := strings.TrimSpace(input.CharacterID)
		if actID == "" || characterID == "" {
			return nil, LineupPlacementResult{}, fmt.Errorf("act_id and character_id are required")
		}
		if planner.ActiveMode() == "" {
			return nil, LineupPlacementResult{}, errNoActiveMode
		}
		changed := apply(actID, characterID)
		return nil, LineupPlacementResult{
			Changed:     changed,
			ActID:       actID,
			CharacterID: characterID,
			Remaining:   planner.RemainingEnergy(characterID),
		}, nil
	}
}

// LineupEnemyHandler executes an enemy entry selection.
func LineupEnemyHandler(planner LineupPlanner) mcp.ToolHandlerFor[LineupEnemyInput, LineupEnemyResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input LineupEnemyInput) (*mcp.CallToolResult, LineupEnemyResult, error) {
		if planner == nil {
			return nil, LineupEnemyResult{}, fmt.Errorf("lineup planner is not configured")
		}
		if planner.ActiveMode() == "" {
			return nil, LineupEnemyResult{}, errNoActiveMode
		}
		if input.Index < 0 {
			return nil, LineupEnemyResult{}, fmt.Errorf("index must be zero or greater")
		}
		return nil, LineupEnemyResult{Changed: planner.SelectEnemyVariant(strings.TrimSpace(input.ActID), input.Index)}, nil
	}
}

// LineupStatusHandler reads the lineup board.
func LineupStatusHandler(planner LineupPlanner) mcp.ToolHandlerFor[LineupStatusInput, LineupStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ LineupStatusInput) (*mcp.CallToolResult, LineupStatusResult, error) {
		if planner == nil {
			return nil, LineupStatusResult{}, fmt.Errorf("lineup planner is not configured")
		}
		view, err := planner.View(ctx)
		if err != nil {
			return nil, LineupStatusResult{}, fmt.Errorf("lineup status failed: %w", err)
		}
		return nil, statusFromView(view), nil
	}
}

func statusFromView(view lineup.View) LineupStatusResult {
	result := LineupStatusResult{
		ModeID:    view.ModeID,
		ModeName:  view.ModeName,
		MaxEnergy: view.MaxEnergy,
		Elements:  append([]string{}, view.Elements...),
		Roster:    energies(view.Roster),
		Opening:   energies(view.Opening),
		Chambers:  []ChamberStatus{},
	}
	for _, side := range []struct {
		name     string
		chambers []lineup.ChamberView
	}{
		{"left", view.Left},
		{"right", view.Right},
		{"arcana", view.Arcana},
	} {
		for _, chamber := range side.chambers {
			result.Chambers = append(result.Chambers, chamberStatus(side.name, chamber))
		}
	}
	return result
}

func energies(in []lineup.CharacterView) []CharacterEnergy {
	out := make([]CharacterEnergy, 0, len(in))
	for _, c := range in {
		out = append(out, CharacterEnergy{ID: c.ID, Name: c.Name, Energy: c.Energy})
	}
	return out
}

func chamberStatus(side string, chamber lineup.ChamberView) ChamberStatus {
	status := ChamberStatus{
		ActID:       chamber.Act.ID,
		Ordinal:     chamber.Act.Ordinal,
		Type:        string(chamber.Act.Type),
		Side:        side,
		Label:       chamber.Label,
		Placed:      make([]string, 0, len(chamber.Placed)),
		Enemies:     make([]string, 0, len(chamber.Enemies)),
		ActiveEnemy: chamber.ActiveEnemy,
	}
	for _, c := range chamber.Placed {
		status.Placed = append(status.Placed, c.ID)
	}
	for _, enemy := range chamber.Enemies {
		status.Enemies = append(status.Enemies, enemy.Name)
	}
	return status
}
