package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/slidingpuzzle/game/engine"
	"github.com/wricardo/slidingpuzzle/protocol"
)

// GameClient is the command surface of a puzzle session
type GameClient interface {
	New(size int) (bool, error)
	Move(tile int) (bool, error)
	Load(name string) (bool, error)
	Save(name string) (bool, error)
	CheckWin() (bool, error)
	FetchBoard() (protocol.Board, error)
}

var _ GameClient = (*protocol.Client)(nil)

// Client is a thin MCP server that proxies tool calls to a session handler
type Client struct {
	game      GameClient
	mcpServer *server.MCPServer
}

// NewClient creates an MCP server whose tools drive game
func NewClient(game GameClient) *Client {
	c := &Client{game: game}
	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Sliding Puzzle",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Sliding Puzzle - MCP Interface

Tools forward to a puzzle session over the binary session protocol.

GAME OBJECTIVE:
Slide numbered tiles into the blank until they read 1, 2, 3, ... in
row-major order. The blank may end up anywhere.

AVAILABLE TOOLS:
- show_board: Print the current board
- move: Slide a tile that is next to the blank
- check_win: Check for a win; a solved board is replaced by a new one
- new_game: Start a new shuffled board (size 2 to 10)
- save_game: Save the board under a file name
- load_game: Load a saved board

Call check_win after every move that might finish the puzzle.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "show_board",
		Description: "Show the current board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleShowBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide a tile into the blank. Only tiles orthogonally adjacent to the blank can move.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tile": map[string]interface{}{
					"type":        "integer",
					"description": "Number of the tile to slide",
					"minimum":     1,
				},
			},
			Required: []string{"tile"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "check_win",
		Description: "Check whether the board is solved. A solved board is immediately replaced by a new shuffled board of the same size.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleCheckWin)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new shuffled game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"size": map[string]interface{}{
					"type":        "integer",
					"description": "Board dimension",
					"minimum":     engine.MinBoardSize,
					"maximum":     engine.MaxBoardSize,
				},
			},
			Required: []string{"size"},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "save_game",
		Description: "Save the current board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"filename": map[string]interface{}{
					"type":        "string",
					"description": fmt.Sprintf("Save name, at most %d bytes", protocol.MaxFilenameLen),
				},
			},
			Required: []string{"filename"},
		},
	}, c.handleSave)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "load_game",
		Description: "Replace the current board with a saved one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"filename": map[string]interface{}{
					"type":        "string",
					"description": "Save name",
				},
			},
			Required: []string{"filename"},
		},
	}, c.handleLoad)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeStdio serves MCP over stdin and stdout until stdin closes
func (c *Client) ServeStdio() error {
	return server.ServeStdio(c.mcpServer)
}

// HTTPHandler answers single JSON-RPC messages posted to it
func (c *Client) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
}

// Tool handlers

func (c *Client) handleShowBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	board, err := c.game.FetchBoard()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBoard(board)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tile, err := request.RequireInt("tile")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := c.game.Move(tile)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	board, err := c.game.FetchBoard()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	if ok {
		fmt.Fprintf(&sb, "Moved tile %d.\n\n", tile)
	} else {
		fmt.Fprintf(&sb, "Tile %d cannot move. Movable tiles: %s\n\n", tile, formatTiles(movableTiles(board)))
	}
	sb.WriteString(formatBoard(board))
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleCheckWin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	won, err := c.game.CheckWin()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !won {
		return mcp.NewToolResultText("Not solved yet."), nil
	}

	board, err := c.game.FetchBoard()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Solved! A new board was dealt.\n\n" + formatBoard(board)), nil
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	size, err := request.RequireInt("size")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := c.game.New(size)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid board size %d: must be %d to %d",
			size, engine.MinBoardSize, engine.MaxBoardSize)), nil
	}

	board, err := c.game.FetchBoard()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("New %dx%d game.\n\n%s", size, size, formatBoard(board))), nil
}

func (c *Client) handleSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := c.game.Save(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("could not save to %q", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved to %s.", name)), nil
}

func (c *Client) handleLoad(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, err := c.game.Load(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("could not load %q", name)), nil
	}

	board, err := c.game.FetchBoard()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Loaded %s.\n\n%s", name, formatBoard(board))), nil
}

// Formatting helpers

func formatBoard(board protocol.Board) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Board %dx%d:\n", board.Size, board.Size)
	sb.WriteString(board.String())
	fmt.Fprintf(&sb, "\nMovable tiles: %s\n", formatTiles(movableTiles(board)))
	return sb.String()
}

func formatTiles(tiles []int) string {
	if len(tiles) == 0 {
		return "none"
	}
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = fmt.Sprint(t)
	}
	return strings.Join(parts, ", ")
}

// movableTiles lists the tiles next to the blank of a fetched board
func movableTiles(board protocol.Board) []int {
	b, err := engine.FromCells(board.Size, board.Cells, false)
	if err != nil {
		return nil
	}
	return b.MovableTiles()
}
