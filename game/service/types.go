package service

import (
	"time"

	"github.com/wricardo/sliding-penguins/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           int64              `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// CreateOptions selects the ruleset and seed of a new session. An empty
// ConfigName uses the default ruleset; a nil Seed draws one from the clock.
type CreateOptions struct {
	ConfigName string `json:"config_name,omitempty"`
	Seed       *int64 `json:"seed,omitempty"`
}

// TurnRequest is the human player's move.
type TurnRequest struct {
	Direction  string `json:"direction"`
	UseAbility bool   `json:"use_ability"`
	// PreStep is the Royal's one-cell step before the slide. Empty lets the AI pick.
	PreStep string `json:"pre_step,omitempty"`
}

// TurnResult contains everything that happened between the request and the
// moment control returned to the player or the game ended.
type TurnResult struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	TurnsPlayed   int               `json:"turns_played"`
	Events        []engine.Event    `json:"events"`
	GameState     *engine.GameState `json:"game_state"`
	GameOver      bool              `json:"game_over"`
	StoppedReason string            `json:"stopped_reason,omitempty"` // awaiting_player|game_over|limit
}

// Stop reasons reported in TurnResult.StoppedReason.
const (
	StopAwaitingPlayer = "awaiting_player"
	StopGameOver       = "game_over"
	StopLimit          = "limit"
)

// StandingsResponse is the ranking of a session, final or provisional.
type StandingsResponse struct {
	Final     bool              `json:"final"`
	Round     int               `json:"round"`
	Standings []engine.Standing `json:"standings"`
}

// HistoryOptions configures event history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains a page of the event log
type HistoryResponse struct {
	Events      []engine.Event `json:"events"`
	TotalEvents int            `json:"total_events"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Actors      int    `json:"actors"`
	Rounds      int    `json:"rounds"`
	HumanPlayer bool   `json:"human_player"`
	FixedLayout bool   `json:"fixed_layout"`
}

// NewConfigInfo summarises config as stored in filename.
func NewConfigInfo(id, filename string, config *engine.GameConfig) *ConfigInfo {
	actors := config.ActorCount
	if len(config.Layout) > 0 {
		actors, _, _ = engine.CountLayout(config.Layout)
	}
	return &ConfigInfo{
		Filename:    filename,
		ConfigID:    id,
		Name:        config.Name,
		Description: config.Description,
		Width:       config.Width,
		Height:      config.Height,
		Actors:      actors,
		Rounds:      config.Rounds,
		HumanPlayer: config.HumanPlayer,
		FixedLayout: len(config.Layout) > 0,
	}
}
