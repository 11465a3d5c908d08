package service

import (
	"fmt"

	"github.com/louisbranch/theater.planner/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTool adds one typed tool to server.
func registerTool[In, Out any](server *mcp.Server, tool *mcp.Tool, handler mcp.ToolHandlerFor[In, Out]) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	if handler == nil {
		return fmt.Errorf("handler for tool %q is nil", tool.Name)
	}
	mcp.AddTool(server, tool, handler)
	return nil
}

// registerLineupTools registers the placement tools.
func registerLineupTools(server *mcp.Server, planner domain.LineupPlanner) error {
	if err := registerTool(server, domain.LineupSetModeTool(), domain.LineupSetModeHandler(planner)); err != nil {
		return err
	}
	if err := registerTool(server, domain.LineupRosterTool(), domain.LineupRosterHandler(planner)); err != nil {
		return err
	}
	if err := registerTool(server, domain.LineupPlaceTool(), domain.LineupPlaceHandler(planner)); err != nil {
		return err
	}
	if err := registerTool(server, domain.LineupRemoveTool(), domain.LineupRemoveHandler(planner)); err != nil {
		return err
	}
	if err := registerTool(server, domain.LineupEnemyTool(), domain.LineupEnemyHandler(planner)); err != nil {
		return err
	}
	return registerTool(server, domain.LineupStatusTool(), domain.LineupStatusHandler(planner))
}

// registerSeasonTools registers the read-only season tool and resource.
func registerSeasonTools(server *mcp.Server, seasons domain.SeasonReader) error {
	if err := registerTool(server, domain.SeasonGetTool(), domain.SeasonGetHandler(seasons)); err != nil {
		return err
	}
	server.AddResource(domain.SeasonResource(), domain.SeasonResourceHandler(seasons))
	return nil
}
