package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/zeu5/collabsort/board"
	"gopkg.in/yaml.v3"
)

const Kind = "collabsort"

var ErrUnknownKind = errors.New("unknown config kind")

// OuterConfig is the envelope of a config file, the board definition lives under def
type OuterConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// BoardConfig is the file representation of board.Config, colors and shapes are named
type BoardConfig struct {
	Rows               int     `yaml:"rows"`
	Cols               int     `yaml:"cols"`
	CellSize           int     `yaml:"cell_size"`
	UpperTreadmillRow  int     `yaml:"upper_treadmill_row"`
	LowerTreadmillRow  int     `yaml:"lower_treadmill_row"`
	ArmBaseCol         int     `yaml:"arm_base_col"`
	NewObjectProba     float64 `yaml:"new_object_proba"`
	NObjects           int     `yaml:"n_objects"`
	InitialObjects     int     `yaml:"initial_objects"`
	AllowStackedSpawns bool    `yaml:"allow_stacked_spawns"`
	ManualSpawns       bool    `yaml:"manual_spawns"`

	Colors []string `yaml:"colors"`
	Shapes []string `yaml:"shapes"`

	RobotRewards RewardConfig `yaml:"robot_rewards"`
	AgentRewards RewardConfig `yaml:"agent_rewards"`

	TimePenalty      float64 `yaml:"time_penalty"`
	MovePenalty      float64 `yaml:"move_penalty"`
	CollisionPenalty float64 `yaml:"collision_penalty"`
	PickReward       float64 `yaml:"pick_reward"`

	RenderFPS int   `yaml:"render_fps"`
	Seed      int64 `yaml:"seed"`
}

type RewardConfig struct {
	Colors map[string]float64 `yaml:"colors"`
	Shapes map[string]float64 `yaml:"shapes"`
}

func fromRewards(r board.RewardTable) RewardConfig {
	out := RewardConfig{
		Colors: make(map[string]float64),
		Shapes: make(map[string]float64),
	}
	for c, v := range r.Colors {
		out.Colors[c.String()] = v
	}
	for s, v := range r.Shapes {
		out.Shapes[s.String()] = v
	}
	return out
}

func (r RewardConfig) toRewards() (board.RewardTable, error) {
	out := board.RewardTable{
		Colors: make(map[board.Color]float64),
		Shapes: make(map[board.Shape]float64),
	}
	for name, v := range r.Colors {
		c, err := board.ParseColor(name)
		if err != nil {
			return out, err
		}
		out.Colors[c] = v
	}
	for name, v := range r.Shapes {
		s, err := board.ParseShape(name)
		if err != nil {
			return out, err
		}
		out.Shapes[s] = v
	}
	return out, nil
}

// FromBoard converts a board configuration into its file representation
func FromBoard(c *board.Config) *BoardConfig {
	out := &BoardConfig{
		Rows:               c.Rows,
		Cols:               c.Cols,
		CellSize:           c.CellSize,
		UpperTreadmillRow:  c.UpperTreadmillRow,
		LowerTreadmillRow:  c.LowerTreadmillRow,
		ArmBaseCol:         c.ArmBaseCol,
		NewObjectProba:     c.NewObjectProba,
		NObjects:           c.NObjects,
		InitialObjects:     c.InitialObjects,
		AllowStackedSpawns: c.AllowStackedSpawns,
		ManualSpawns:       c.ManualSpawns,
		Colors:             make([]string, len(c.Colors)),
		Shapes:             make([]string, len(c.Shapes)),
		RobotRewards:       fromRewards(c.RobotRewards),
		AgentRewards:       fromRewards(c.AgentRewards),
		TimePenalty:        c.TimePenalty,
		MovePenalty:        c.MovePenalty,
		CollisionPenalty:   c.CollisionPenalty,
		PickReward:         c.PickReward,
		RenderFPS:          c.RenderFPS,
		Seed:               c.Seed,
	}
	for i, color := range c.Colors {
		out.Colors[i] = color.String()
	}
	for i, shape := range c.Shapes {
		out.Shapes[i] = shape.String()
	}
	return out
}

// Board converts the file representation back and validates it
func (b *BoardConfig) Board() (*board.Config, error) {
	c := &board.Config{
		Rows:               b.Rows,
		Cols:               b.Cols,
		CellSize:           b.CellSize,
		UpperTreadmillRow:  b.UpperTreadmillRow,
		LowerTreadmillRow:  b.LowerTreadmillRow,
		ArmBaseCol:         b.ArmBaseCol,
		NewObjectProba:     b.NewObjectProba,
		NObjects:           b.NObjects,
		InitialObjects:     b.InitialObjects,
		AllowStackedSpawns: b.AllowStackedSpawns,
		ManualSpawns:       b.ManualSpawns,
		Colors:             make([]board.Color, 0, len(b.Colors)),
		Shapes:             make([]board.Shape, 0, len(b.Shapes)),
		TimePenalty:        b.TimePenalty,
		MovePenalty:        b.MovePenalty,
		CollisionPenalty:   b.CollisionPenalty,
		PickReward:         b.PickReward,
		RenderFPS:          b.RenderFPS,
		Seed:               b.Seed,
	}
	for _, name := range b.Colors {
		color, err := board.ParseColor(name)
		if err != nil {
			return nil, err
		}
		c.Colors = append(c.Colors, color)
	}
	for _, name := range b.Shapes {
		shape, err := board.ParseShape(name)
		if err != nil {
			return nil, err
		}
		c.Shapes = append(c.Shapes, shape)
	}
	var err error
	if c.RobotRewards, err = b.RobotRewards.toRewards(); err != nil {
		return nil, err
	}
	if c.AgentRewards, err = b.AgentRewards.toRewards(); err != nil {
		return nil, err
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromYaml reads a board configuration file. Values missing from the file keep
// their defaults and the environment overrides are applied last.
func FromYaml(path string) (*board.Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	var err error
	if err = vp.ReadInConfig(); err != nil {
		return nil, err
	}

	outer := &OuterConfig{}
	if err = vp.Unmarshal(outer); err != nil {
		return nil, err
	}
	if outer.Kind != Kind {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, outer.Kind)
	}

	var def []byte
	if def, err = yaml.Marshal(outer.Def); err != nil {
		return nil, err
	}

	inner := FromBoard(board.DefaultConfig())
	if err = yaml.Unmarshal(def, inner); err != nil {
		return nil, err
	}
	c, err := inner.Board()
	if err != nil {
		return nil, err
	}
	return c, ApplyEnv(c)
}

// Load returns the configuration at path, or the defaults with environment
// overrides when path is empty.
func Load(path string) (*board.Config, error) {
	if path != "" {
		return FromYaml(path)
	}
	c := board.DefaultConfig()
	return c, ApplyEnv(c)
}

// Save writes the configuration in the format read by FromYaml
func Save(path string, c *board.Config) error {
	bs, err := yaml.Marshal(map[string]interface{}{
		"kind": Kind,
		"def":  FromBoard(c),
	})
	if err != nil {
		return err
	}
	return writeFile(path, bs)
}
