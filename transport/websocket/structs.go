package websocket

import (
	"encoding/json"

	"github.com/mindgrid-games/tictactoe-bot/internal/entity"
	"github.com/mindgrid-games/tictactoe-bot/internal/game"
)

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool
	opCode  byte
	length  uint64
	payload []byte
}

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the request/response body shared by all actions.
type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *GameResponse  `json:"game,omitempty"`
	Cell   *int           `json:"cell,omitempty"`
	First  string         `json:"first,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// GameResponse is the wire shape of a controller snapshot.
type GameResponse struct {
	Board          entity.Board   `json:"board"`
	Status         game.Status    `json:"status"`
	Turn           entity.Mark    `json:"turn,omitempty"`
	Outcome        entity.Outcome `json:"outcome,omitempty"`
	WinningPattern []int          `json:"winning_pattern,omitempty"`
	BotThinking    bool           `json:"bot_thinking"`
	Stats          StatsResponse  `json:"stats"`
}

// StatsResponse carries the scoreboard counters plus the derived totals the
// client renders directly.
type StatsResponse struct {
	PlayerWins    int `json:"player_wins"`
	BotWins       int `json:"bot_wins"`
	Draws         int `json:"draws"`
	TotalGames    int `json:"total_games"`
	PlayerWinRate int `json:"player_win_rate"`
}

func newGameResponse(snapshot game.Snapshot) *GameResponse {
	return &GameResponse{
		Board:          snapshot.Board,
		Status:         snapshot.Status,
		Turn:           snapshot.Turn,
		Outcome:        snapshot.Outcome,
		WinningPattern: snapshot.WinningPattern,
		BotThinking:    snapshot.BotThinking,
		Stats: StatsResponse{
			PlayerWins:    snapshot.Stats.PlayerWins,
			BotWins:       snapshot.Stats.BotWins,
			Draws:         snapshot.Stats.Draws,
			TotalGames:    snapshot.Stats.TotalGames(),
			PlayerWinRate: snapshot.Stats.PlayerWinRate(),
		},
	}
}
