package entity

import "math"

// Outcome of a single finished game.
type Outcome string

const (
	OutcomePlayerWon Outcome = "player"
	OutcomeBotWon    Outcome = "bot"
	OutcomeDraw      Outcome = "draw"
)

// Scoreboard accumulates results across repeated games. It is owned by the
// game controller and survives individual game resets; only ResetStats
// zeroes it.
type Scoreboard struct {
	PlayerWins int `json:"player_wins"`
	BotWins    int `json:"bot_wins"`
	Draws      int `json:"draws"`
}

// Record - attributes one finished game to exactly one counter.
func (that *Scoreboard) Record(outcome Outcome) {
	switch outcome {
	case OutcomePlayerWon:
		that.PlayerWins++
	case OutcomeBotWon:
		that.BotWins++
	case OutcomeDraw:
		that.Draws++
	}
}

// Reset - zeroes all counters.
func (that *Scoreboard) Reset() {
	*that = Scoreboard{}
}

// TotalGames - number of games recorded so far.
func (that *Scoreboard) TotalGames() int {
	return that.PlayerWins + that.BotWins + that.Draws
}

// PlayerWinRate - percentage of recorded games won by the player, rounded
// to the nearest integer. Zero when no games were recorded.
func (that *Scoreboard) PlayerWinRate() int {
	total := that.TotalGames()
	if total == 0 {
		return 0
	}

	return int(math.Round(float64(that.PlayerWins) / float64(total) * 100))
}
