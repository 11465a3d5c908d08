package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/theater.planner/internal/services/planner/domain/catalog"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/season"
	"github.com/louisbranch/theater.planner/internal/services/planner/domain/structure"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SeasonResourceURI addresses the composed season document.
const SeasonResourceURI = "planner://season"

// SeasonReader loads the composed season.
type SeasonReader interface {
	Load(ctx context.Context) (season.Season, error)
}

// SeasonGetInput represents the MCP tool input for reading the season.
type SeasonGetInput struct {
	ActID string `json:"act_id,omitempty" jsonschema:"optional act identifier to limit the result to one act"`
}

// CharacterRef is a character reduced to its identity.
type CharacterRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Element string `json:"element,omitempty"`
}

// EnemyRef is an enemy entry as placed in an act or wave.
type EnemyRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity,omitempty"`
	Special  bool   `json:"special,omitempty"`
}

// WaveSummary is one wave of a variation.
type WaveSummary struct {
	Index   int        `json:"index"`
	Enemies []EnemyRef `json:"enemies"`
}

// VariationSummary is one variation of an act.
type VariationSummary struct {
	Topology string        `json:"topology"`
	Timer    string        `json:"timer,omitempty"`
	Name     string        `json:"name,omitempty"`
	Monolith bool          `json:"monolith,omitempty"`
	Waves    []WaveSummary `json:"waves"`
}

// SeasonAct is one composed act.
type SeasonAct struct {
	ID         string             `json:"id"`
	Ordinal    int                `json:"ordinal"`
	Type       string             `json:"type"`
	Label      string             `json:"label,omitempty"`
	Enemies    []EnemyRef         `json:"enemies"`
	Variations []VariationSummary `json:"variations"`
}

// SeasonGetResult represents the MCP tool output for the composed season.
type SeasonGetResult struct {
	Elements []string       `json:"elements"`
	Opening  []CharacterRef `json:"opening_characters"`
	Guests   []CharacterRef `json:"special_guests"`
	Acts     []SeasonAct    `json:"acts"`
}

// SeasonGetTool defines the MCP tool schema for reading the season.
func SeasonGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "season_get",
		Description: "Returns the current season: catalog acts merged with the season override",
	}
}

// SeasonResource defines the MCP resource for the raw composed season.
func SeasonResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "season",
		Title:       "Current season",
		Description: "Composed season document with every catalog act",
		MIMEType:    "application/json",
		URI:         SeasonResourceURI,
	}
}

// SeasonGetHandler reads the composed season.
func SeasonGetHandler(seasons SeasonReader) mcp.ToolHandlerFor[SeasonGetInput, SeasonGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SeasonGetInput) (*mcp.CallToolResult, SeasonGetResult, error) {
		if seasons == nil {
			return nil, SeasonGetResult{}, fmt.Errorf("season service is not configured")
		}
		current, err := seasons.Load(ctx)
		if err != nil {
			return nil, SeasonGetResult{}, fmt.Errorf("season get failed: %w", err)
		}
		actID := strings.TrimSpace(input.ActID)
		if actID != "" {
			if _, ok := current.Act(actID); !ok {
				return nil, SeasonGetResult{}, fmt.Errorf("act %q is not in the season", actID)
			}
		}
		return nil, seasonResult(current, actID), nil
	}
}

// SeasonResourceHandler serves the composed season as JSON.
func SeasonResourceHandler(seasons SeasonReader) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if seasons == nil {
			return nil, fmt.Errorf("season service is not configured")
		}
		uri := SeasonResourceURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		current, err := seasons.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("season load failed: %w", err)
		}
		data, err := json.MarshalIndent(current, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal season: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

func seasonResult(current season.Season, actID string) SeasonGetResult {
	result := SeasonGetResult{
		Elements: append([]string{}, current.ElementTypes...),
		Opening:  characterRefs(current.OpeningCharacters),
		Guests:   characterRefs(current.SpecialGuests),
		Acts:     []SeasonAct{},
	}
	for _, act := range catalog.SortActs(current.Acts) {
		if actID != "" && act.ID != actID {
			continue
		}
		result.Acts = append(result.Acts, seasonAct(act))
	}
	return result
}

func seasonAct(act catalog.Act) SeasonAct {
	out := SeasonAct{
		ID:         act.ID,
		Ordinal:    act.Ordinal,
		Type:       string(act.Type),
		Label:      structure.VariationLabel(act),
		Enemies:    enemyRefs(act.EnemySelection),
		Variations: make([]VariationSummary, 0, len(act.Variations)),
	}
	for _, v := range act.Variations {
		summary := VariationSummary{
			Topology: string(v.Topology),
			Timer:    v.Timer,
			Name:     v.Name,
			Monolith: v.Monolith,
			Waves:    make([]WaveSummary, 0, len(v.Waves)),
		}
		for _, wave := range v.Waves {
			summary.Waves = append(summary.Waves, WaveSummary{Index: wave.Index, Enemies: enemyRefs(wave.Enemies)})
		}
		out.Variations = append(out.Variations, summary)
	}
	return out
}

func characterRefs(in []catalog.Character) []CharacterRef {
	out := make([]CharacterRef, 0, len(in))
	for _, c := range in {
		out = append(out, CharacterRef{ID: c.ID, Name: c.Name, Element: c.Element})
	}
	return out
}

func enemyRefs(in []catalog.EnemyInstance) []EnemyRef {
	out := make([]EnemyRef, 0, len(in))
	for _, e := range in {
		ref := EnemyRef{ID: e.ID, Name: e.Name, Special: e.SpecialMark}
		if e.Quantity != nil {
			ref.Quantity = *e.Quantity
		}
		out = append(out, ref)
	}
	return out
}
