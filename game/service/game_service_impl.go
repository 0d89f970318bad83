package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/sliding-penguins/game/engine"
	"github.com/wricardo/sliding-penguins/logging"
)

const (
	// DefaultHistoryLimit is the page size when HistoryOptions.Limit is unset.
	DefaultHistoryLimit = 50
	// MaxHistoryLimit caps a single history page.
	MaxHistoryLimit = 500
	// MaxAdvanceSlots caps one Advance call.
	MaxAdvanceSlots = 100
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	log      logrus.FieldLogger
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, log logrus.FieldLogger) GameService {
	if log == nil {
		log = logging.Discard()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		log:      log.WithField("component", "service"),
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession starts a new game from the named ruleset.
func (s *gameServiceImpl) CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error) {
	var config *engine.GameConfig
	configID := opts.ConfigName
	if configID != "" {
		var err error
		config, err = s.configs.LoadConfig(configID)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configID, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configID)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configID, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.configs.DefaultID()
	}

	game, err := engine.NewGame(config, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", game, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"config":     configID,
		"seed":       game.Seed(),
	}).Info("Session created")

	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	// Computer penguins seated before the human play straight away.
	if game.Controlled() != nil {
		s.autoPlay(ctx, game, &TurnResult{}, -1)
	}
	return s.sessionInfo(sess), nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	configID := sess.ConfigID
	if configID == "" {
		configID = s.getConfigID(sess.Game.Config().Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		Seed:           sess.Game.Seed(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Game.State(),
		GameConfig:     sess.Game.Config(),
	}
}

// lookup fetches a session and bumps its access time.
func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err := s.sessions.UpdateLastAccessed(sess.ID); err != nil {
		s.log.WithError(err).WithField("session_id", sess.ID).Debug("Failed to update last access")
	}
	return sess, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		sess.Mu.Lock()
		result = append(result, s.sessionInfo(sess))
		sess.Mu.Unlock()
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.log.WithField("session_id", sessionID).Info("Session deleted")
	return nil
}

// PlayTurn plays the human player's turn, then lets the computer play until
// the human is up again or the game ends.
func (s *gameServiceImpl) PlayTurn(ctx context.Context, sessionID string, req TurnRequest) (*TurnResult, error) {
	dir, err := engine.ParseDirection(req.Direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	decision := engine.Decision{UseAbility: req.UseAbility, Direction: dir}
	if req.PreStep != "" {
		pre, err := engine.ParseDirection(req.PreStep)
		if err != nil {
			return nil, fmt.Errorf("%w: pre_step: %v", ErrInvalidRequest, err)
		}
		decision.PreStep = &pre
	}

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	game := sess.Game
	human := game.Controlled()
	if human == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoHumanPlayer, sess.ID)
	}
	if err := game.CheckTurn(human.ID); err != nil {
		return nil, err
	}

	events, err := game.Step(scripted(decision))
	if err != nil {
		return nil, err
	}
	result := &TurnResult{Success: true, TurnsPlayed: 1, Events: events}

	s.autoPlay(ctx, game, result, -1)
	s.finish(sess, result)

	s.log.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"actor":      human.ID,
		"direction":  dir.String(),
		"ability":    req.UseAbility,
		"turns":      result.TurnsPlayed,
	}).Debug("Turn played")
	return result, nil
}

// Advance plays up to slots computer turns. slots <= 0 plays until the human
// is up or the game ends.
func (s *gameServiceImpl) Advance(ctx context.Context, sessionID string, slots int) (*TurnResult, error) {
	if slots > MaxAdvanceSlots {
		slots = MaxAdvanceSlots
	}
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	game := sess.Game
	if game.Over() {
		return nil, engine.ErrGameOver
	}
	if game.AwaitingPlayer() {
		return nil, fmt.Errorf("%w: %s", engine.ErrAwaitingPlayer, game.Current().ID)
	}

	result := &TurnResult{Success: true, Events: []engine.Event{}}
	limit := slots
	if limit <= 0 {
		limit = -1
	}
	s.autoPlay(ctx, game, result, limit)
	s.finish(sess, result)
	return result, nil
}

// autoPlay steps computer slots until the human is up, the game ends, the
// context is cancelled or limit slots have been played. A negative limit is unbounded.
func (s *gameServiceImpl) autoPlay(ctx context.Context, game *engine.Game, result *TurnResult, limit int) {
	played := 0
	for !game.Over() && !game.AwaitingPlayer() {
		if limit >= 0 && played >= limit {
			result.StoppedReason = StopLimit
			return
		}
		if ctx.Err() != nil {
			result.StoppedReason = StopLimit
			return
		}
		events, err := game.Step(game.Policy())
		if err != nil {
			// The policy never fails; an error here means the game ended under us.
			s.log.WithError(err).Warn("Auto-play stopped")
			return
		}
		result.Events = append(result.Events, events...)
		result.TurnsPlayed++
		played++
	}
}

func (s *gameServiceImpl) finish(sess *Session, result *TurnResult) {
	game := sess.Game
	result.GameState = game.State()
	result.GameOver = game.Over()
	switch {
	case game.Over():
		result.StoppedReason = StopGameOver
		if st := game.Standings(); len(st) > 0 {
			result.Message = fmt.Sprintf("Game over. %s wins with %d units", st[0].ActorID, st[0].TotalWeight)
		}
		s.log.WithFields(logrus.Fields{
			"session_id": sess.ID,
			"round":      game.Round(),
		}).Info("Game finished")
	case game.AwaitingPlayer():
		result.StoppedReason = StopAwaitingPlayer
		result.Message = fmt.Sprintf("Round %d: your move, %s", game.Round(), game.Current().ID)
	default:
		if result.StoppedReason == "" {
			result.StoppedReason = StopLimit
		}
		if cur := game.Current(); cur != nil {
			result.Message = fmt.Sprintf("Round %d: %s is next", game.Round(), cur.ID)
		}
	}
}

// GetGameState returns the current state of a session's game
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	return sess.Game.State(), nil
}

// GetStandings ranks the penguins of a session. Before the last round the
// ranking is provisional.
func (s *gameServiceImpl) GetStandings(ctx context.Context, sessionID string) (*StandingsResponse, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	defer sess.Mu.Unlock()
	return &StandingsResponse{
		Final:     sess.Game.Over(),
		Round:     sess.Game.Round(),
		Standings: sess.Game.Standings(),
	}, nil
}

// GetEventHistory returns a page of the event log
func (s *gameServiceImpl) GetEventHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Mu.Lock()
	events := sess.Game.Events()
	sess.Mu.Unlock()

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = DefaultHistoryLimit
	}
	if opts.Limit > MaxHistoryLimit {
		opts.Limit = MaxHistoryLimit
	}
	if strings.EqualFold(opts.Order, "desc") {
		for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
			events[i], events[j] = events[j], events[i]
		}
	}

	total := len(events)
	totalPages := (total + opts.Limit - 1) / opts.Limit
	// Pages past the end are empty. Page is bounded by totalPages before the offset is computed.
	start, end := total, total
	if opts.Page <= totalPages {
		start = (opts.Page - 1) * opts.Limit
		end = start + opts.Limit
		if end > total {
			end = total
		}
	}

	return &HistoryResponse{
		Events:      events[start:end],
		TotalEvents: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if strings.ContainsAny(configName, `/\`) || strings.Contains(configName, "..") || configName == "" {
		return fmt.Errorf("%w: invalid config name %q", ErrInvalidRequest, configName)
	}
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.log.WithField("config", configName).Info("Config saved")
	return nil
}

// scripted replays a fixed decision.
type scripted engine.Decision

func (d scripted) Decide(*engine.Game, *engine.Entity) (engine.Decision, error) {
	return engine.Decision(d), nil
}
