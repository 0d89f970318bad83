package engine

import "fmt"

const (
	// Unlimited is the step limit for slides that run until something stops them.
	Unlimited = -1

	// Validation constants
	MinGridSize      = 3
	MaxGridSize      = 40
	MaxActors        = 9
	MaxRounds        = 50
	MaxAbilityChance = 100
	MinItemWeight    = 1
	MaxItemWeight    = 5

	// Defaults match the classic board
	DefaultGridSize      = 10
	DefaultActorCount    = 3
	DefaultHazardCount   = 15
	DefaultFoodCount     = 20
	DefaultRounds        = 4
	DefaultAbilityChance = 30

	KingStepLimit    = 5
	EmperorStepLimit = 3
	RoyalPreSteps    = 1
	JumpDistance     = 2
)

// Position represents x,y coordinates. X grows to the right, Y grows downwards.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Step returns the position n cells away along d.
func (p Position) Step(d Direction, n int) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx*n, Y: p.Y + dy*n}
}

// Direction is one of the four slide directions.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// ScanOrder is the fixed order the AI inspects directions in.
var ScanOrder = [4]Direction{Up, Down, Left, Right}

func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	panic(fmt.Sprintf("engine: invalid direction %d", int(d)))
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "invalid"
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, ErrInvalidDirection
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Kind tags every entity subtype. The set is closed.
type Kind int

const (
	KindKing Kind = iota
	KindEmperor
	KindRoyal
	KindRockhopper
	KindHeavyBlock
	KindLightBlock
	KindSeaLion
	KindHole
	KindFood
)

// actorKinds and hazardKinds are indexed by the setup rng draw.
var (
	actorKinds  = [4]Kind{KindKing, KindEmperor, KindRoyal, KindRockhopper}
	hazardKinds = [4]Kind{KindLightBlock, KindHeavyBlock, KindSeaLion, KindHole}
)

func (k Kind) IsActor() bool    { return k >= KindKing && k <= KindRockhopper }
func (k Kind) IsObstacle() bool { return k >= KindHeavyBlock && k <= KindHole }
func (k Kind) IsItem() bool     { return k == KindFood }

// Slidable reports whether entities of this kind can be set in motion.
func (k Kind) Slidable() bool {
	switch k {
	case KindKing, KindEmperor, KindRoyal, KindRockhopper, KindLightBlock, KindSeaLion:
		return true
	}
	return false
}

// Collidable reports whether entities of this kind react when struck.
func (k Kind) Collidable() bool {
	return k != KindFood
}

func (k Kind) String() string {
	switch k {
	case KindKing:
		return "king"
	case KindEmperor:
		return "emperor"
	case KindRoyal:
		return "royal"
	case KindRockhopper:
		return "rockhopper"
	case KindHeavyBlock:
		return "heavy_block"
	case KindLightBlock:
		return "light_block"
	case KindSeaLion:
		return "sea_lion"
	case KindHole:
		return "hole"
	case KindFood:
		return "food"
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for c := KindKing; c <= KindFood; c++ {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", b)
}

// AbilityDescription is the one-line rule text shown to players.
func (k Kind) AbilityDescription() string {
	switch k {
	case KindKing:
		return "stop after at most 5 cells"
	case KindEmperor:
		return "stop after at most 3 cells"
	case KindRoyal:
		return "take one safe step before sliding"
	case KindRockhopper:
		return "jump over the next hazard"
	}
	return ""
}

// FoodKind is the species of a food item.
type FoodKind int

const (
	Krill FoodKind = iota
	Crustacean
	Anchovy
	Squid
	Mackerel
)

var foodSymbols = [5]string{"Kr", "Cr", "An", "Sq", "Ma"}
var foodNames = [5]string{"krill", "crustacean", "anchovy", "squid", "mackerel"}

func (f FoodKind) Symbol() string {
	if f < Krill || f > Mackerel {
		return "??"
	}
	return foodSymbols[f]
}

func (f FoodKind) String() string {
	if f < Krill || f > Mackerel {
		return "unknown"
	}
	return foodNames[f]
}

func (f FoodKind) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *FoodKind) UnmarshalText(b []byte) error {
	for i, name := range foodNames {
		if name == string(b) {
			*f = FoodKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown food %q", b)
}

// Item is a passive food item with a weight between 1 and 5.
type Item struct {
	Food   FoodKind `json:"food"`
	Weight int      `json:"weight"`
}

func (i Item) String() string {
	return fmt.Sprintf("%s (%d units)", i.Food.Symbol(), i.Weight)
}
