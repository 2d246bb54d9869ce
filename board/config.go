package board

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid board configuration")

// Config holds the values read once when the board is constructed
type Config struct {
	Rows     int `json:"rows"`
	Cols     int `json:"cols"`
	CellSize int `json:"cell_size"`

	// Objects ride on the two treadmill rows, from the rightmost column to the left edge
	UpperTreadmillRow int `json:"upper_treadmill_row"`
	LowerTreadmillRow int `json:"lower_treadmill_row"`
	// Column of both arm bases. The robot base is on the first row and the agent base on the last.
	ArmBaseCol int `json:"arm_base_col"`

	NewObjectProba     float64 `json:"new_object_proba"`
	NObjects           int     `json:"n_objects"`
	InitialObjects     int     `json:"initial_objects"`
	AllowStackedSpawns bool    `json:"allow_stacked_spawns"`
	// ManualSpawns lets objects enter only through AddObject, the cap is then
	// reached only if the caller adds enough objects
	ManualSpawns       bool    `json:"manual_spawns"`

	Colors []Color `json:"colors"`
	Shapes []Shape `json:"shapes"`

	RobotRewards RewardTable `json:"robot_rewards"`
	AgentRewards RewardTable `json:"agent_rewards"`

	TimePenalty      float64 `json:"time_penalty"`
	MovePenalty      float64 `json:"move_penalty"`
	CollisionPenalty float64 `json:"collision_penalty"`
	PickReward       float64 `json:"pick_reward"`

	RenderFPS int `json:"render_fps"`
	// Seed for the board random source, 0 seeds from the clock
	Seed int64 `json:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Rows:               4,
		Cols:               9,
		CellSize:           50,
		UpperTreadmillRow:  1,
		LowerTreadmillRow:  2,
		ArmBaseCol:         4,
		NewObjectProba:     0.1,
		NObjects:           10,
		InitialObjects:     0,
		AllowStackedSpawns: false,
		Colors:             Colors(),
		Shapes:             Shapes(),
		RobotRewards: RewardTable{
			Colors: map[Color]float64{Red: 5, Yellow: 1, Blue: -5},
			Shapes: map[Shape]float64{Square: 5, Triangle: 1, Circle: -5},
		},
		AgentRewards: RewardTable{
			Colors: map[Color]float64{Blue: 5, Yellow: 1, Red: -5},
			Shapes: map[Shape]float64{Circle: 5, Triangle: 1, Square: -5},
		},
		TimePenalty:      -0.1,
		MovePenalty:      -0.1,
		CollisionPenalty: -10,
		PickReward:       1,
		RenderFPS:        30,
	}
}

func (c *Config) Copy() *Config {
	out := *c
	out.Colors = append([]Color(nil), c.Colors...)
	out.Shapes = append([]Shape(nil), c.Shapes...)
	out.RobotRewards = c.RobotRewards.Copy()
	out.AgentRewards = c.AgentRewards.Copy()
	return &out
}

func (c *Config) RobotBase() Location {
	return Location{Row: 0, Col: c.ArmBaseCol}
}

func (c *Config) AgentBase() Location {
	return Location{Row: c.Rows - 1, Col: c.ArmBaseCol}
}

func (c *Config) TreadmillRows() []int {
	return []int{c.UpperTreadmillRow, c.LowerTreadmillRow}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidConfig)
}

// Validate checks that the configuration describes a playable board
func (c *Config) Validate() error {
	if c.Rows < 4 {
		return invalid("rows must be at least 4 to fit two treadmills between the bases, got %d", c.Rows)
	}
	if c.Cols < 1 {
		return invalid("cols must be positive, got %d", c.Cols)
	}
	if c.CellSize <= 0 {
		return invalid("cell size must be positive, got %d", c.CellSize)
	}
	if c.RenderFPS <= 0 {
		return invalid("render fps must be positive, got %d", c.RenderFPS)
	}
	for _, row := range c.TreadmillRows() {
		if row <= 0 || row >= c.Rows-1 {
			return invalid("treadmill row %d must lie strictly between the arm bases", row)
		}
	}
	if c.UpperTreadmillRow >= c.LowerTreadmillRow {
		return invalid("upper treadmill row %d must be above lower treadmill row %d", c.UpperTreadmillRow, c.LowerTreadmillRow)
	}
	if c.ArmBaseCol < 0 || c.ArmBaseCol >= c.Cols {
		return invalid("arm base column %d out of range", c.ArmBaseCol)
	}
	if c.NewObjectProba < 0 || c.NewObjectProba > 1 {
		return invalid("new object probability %f not in [0,1]", c.NewObjectProba)
	}
	if c.NObjects <= 0 {
		return invalid("object cap must be positive, got %d", c.NObjects)
	}
	if c.InitialObjects < 0 || c.InitialObjects > c.NObjects {
		return invalid("initial objects %d not in [0,%d]", c.InitialObjects, c.NObjects)
	}
	if c.NewObjectProba == 0 && c.InitialObjects < c.NObjects && !c.ManualSpawns {
		return invalid("object cap %d is never reached without spawns and with %d initial objects", c.NObjects, c.InitialObjects)
	}
	if !c.AllowStackedSpawns && c.InitialObjects > 2*c.Cols {
		return invalid("%d initial objects do not fit on %d treadmill cells", c.InitialObjects, 2*c.Cols)
	}
	if len(c.Colors) == 0 || len(c.Shapes) == 0 {
		return invalid("at least one color and one shape are required")
	}
	for _, color := range c.Colors {
		if color < Red || color > Yellow {
			return invalid("unknown color %d", int(color))
		}
	}
	for _, shape := range c.Shapes {
		if shape < Square || shape > Triangle {
			return invalid("unknown shape %d", int(shape))
		}
	}
	return nil
}
