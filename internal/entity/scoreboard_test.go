package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreboard_Record(t *testing.T) {
	t.Run("Attributes each outcome to exactly one counter", func(t *testing.T) {
		// Given: an empty scoreboard
		var stats Scoreboard

		// When: recording one outcome of each kind
		stats.Record(OutcomePlayerWon)
		stats.Record(OutcomeBotWon)
		stats.Record(OutcomeDraw)
		stats.Record(OutcomeDraw)

		// Then: counters and total line up
		assert.Equal(t, 1, stats.PlayerWins)
		assert.Equal(t, 1, stats.BotWins)
		assert.Equal(t, 2, stats.Draws)
		assert.Equal(t, 4, stats.TotalGames())
	})
}

func TestScoreboard_PlayerWinRate(t *testing.T) {
	t.Run("Zero when no games were recorded", func(t *testing.T) {
		var stats Scoreboard

		assert.Equal(t, 0, stats.PlayerWinRate())
	})

	t.Run("Rounds to the nearest integer", func(t *testing.T) {
		// Given: 1 player win out of 3 games
		stats := Scoreboard{PlayerWins: 1, BotWins: 1, Draws: 1}

		// Then: 33.33% rounds down to 33
		assert.Equal(t, 33, stats.PlayerWinRate())

		// Given: 2 player wins out of 3 games
		stats = Scoreboard{PlayerWins: 2, Draws: 1}

		// Then: 66.67% rounds up to 67
		assert.Equal(t, 67, stats.PlayerWinRate())
	})
}

func TestScoreboard_Reset(t *testing.T) {
	// Given: a scoreboard with recorded games
	stats := Scoreboard{PlayerWins: 3, BotWins: 5, Draws: 2}

	// When: resetting
	stats.Reset()

	// Then: all counters are zero
	assert.Equal(t, 0, stats.TotalGames())
}
