package engine

// ActorView is a read-only description of one penguin.
type ActorView struct {
	ID          string   `json:"id"`
	Kind        Kind     `json:"kind"`
	Ability     string   `json:"ability"`
	Position    Position `json:"position"`
	Eliminated  bool     `json:"eliminated"`
	Stunned     bool     `json:"stunned"`
	AbilityUsed bool     `json:"ability_used"`
	Controlled  bool     `json:"controlled,omitempty"`
	TotalWeight int      `json:"total_weight"`
	Carried     []Item   `json:"carried"`
}

// GameState is a serialisable snapshot of a game for clients.
type GameState struct {
	ConfigName     string      `json:"config_name"`
	Seed           int64       `json:"seed"`
	Width          int         `json:"width"`
	Height         int         `json:"height"`
	Round          int         `json:"round"`
	Rounds         int         `json:"rounds"`
	GameOver       bool        `json:"game_over"`
	Current        string      `json:"current,omitempty"`
	Controlled     string      `json:"controlled,omitempty"`
	AwaitingPlayer bool        `json:"awaiting_player"`
	Grid           [][]string  `json:"grid"`
	Board          string      `json:"board"`
	Actors         []ActorView `json:"actors"`
	Standings      []Standing  `json:"standings,omitempty"`
	Checksum       string      `json:"checksum"`
}

// Roster describes every penguin in turn order.
func (g *Game) Roster() []ActorView {
	out := make([]ActorView, 0, len(g.actors))
	for _, a := range g.actors {
		carried := make([]Item, len(a.Actor.Carried))
		copy(carried, a.Actor.Carried)
		out = append(out, ActorView{
			ID:          a.ID,
			Kind:        a.Kind,
			Ability:     a.Kind.AbilityDescription(),
			Position:    a.Pos,
			Eliminated:  a.Actor.Eliminated,
			Stunned:     a.Actor.Stunned,
			AbilityUsed: a.Actor.AbilityUsed,
			Controlled:  a.Actor.Controlled,
			TotalWeight: a.Actor.TotalWeight(),
			Carried:     carried,
		})
	}
	return out
}

// State captures the game for clients. Standings are included once the game is over.
func (g *Game) State() *GameState {
	s := &GameState{
		ConfigName:     g.config.Name,
		Seed:           g.seed,
		Width:          g.grid.Width(),
		Height:         g.grid.Height(),
		Round:          g.round,
		Rounds:         g.config.Rounds,
		GameOver:       g.over,
		AwaitingPlayer: g.AwaitingPlayer(),
		Grid:           g.grid.Snapshot(),
		Board:          g.grid.Render(),
		Actors:         g.Roster(),
		Checksum:       g.Checksum(),
	}
	if cur := g.Current(); cur != nil {
		s.Current = cur.ID
	}
	if c := g.Controlled(); c != nil {
		s.Controlled = c.ID
	}
	if g.over {
		s.Standings = g.Standings()
	}
	return s
}
