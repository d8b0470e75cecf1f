package core

// RuntimeConfig is handed to a game at Reset.
type RuntimeConfig struct {
	ScreenW  int   // terminal width in characters
	ScreenH  int   // terminal height in characters
	TickRate int   // simulation ticks per second
	Seed     int64 // 0 means the platform picks one from the clock
}

// DefaultConfig returns an 80x24, 30 tick/s configuration.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// GameState is what the platform needs to know about a running game.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool
}

// StepResult is returned by every simulation tick.
type StepResult struct {
	State GameState
}
