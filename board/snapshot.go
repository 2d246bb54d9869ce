package board

import "sort"

// ObjectView is what an arm can see of a free object
type ObjectView struct {
	Location Location `json:"location"`
	Color    Color    `json:"color"`
	Shape    Shape    `json:"shape"`
}

// Observation is the view of the board from one arm
type Observation struct {
	Gripper   Location     `json:"gripper"`
	Holding   bool         `json:"holding"`
	Penalized bool         `json:"penalized"`
	Other     Location     `json:"other"`
	Objects   []ObjectView `json:"objects"`
	Terminal  bool         `json:"terminal"`
}

// Observation builds the view of the arm. Objects are listed in spawn order.
func (b *Board) Observation(id ArmID) Observation {
	arm := b.Arm(id)
	objects := b.Objects()
	sort.Slice(objects, func(i, j int) bool { return objects[i].Seq < objects[j].Seq })
	views := make([]ObjectView, len(objects))
	for i, o := range objects {
		views[i] = o.view()
	}
	return Observation{
		Gripper:   arm.Gripper,
		Holding:   arm.Holding(),
		Penalized: arm.Penalty,
		Other:     b.other(arm).Gripper,
		Objects:   views,
		Terminal:  b.done,
	}
}

type ArmSnapshot struct {
	ID        ArmID    `json:"id"`
	Base      Location `json:"base"`
	Gripper   Location `json:"gripper"`
	Picked    *Object  `json:"picked,omitempty"`
	Penalized bool     `json:"penalized"`
	State     ArmState `json:"state"`
	Placed    []Object `json:"placed"`
}

type Stats struct {
	Added  int `json:"added"`
	Placed int `json:"placed"`
	Fallen int `json:"fallen"`
	Lost   int `json:"lost"`
}

// Snapshot is a detached copy of the board for renderers
type Snapshot struct {
	Rows          int         `json:"rows"`
	Cols          int         `json:"cols"`
	CellSize      int         `json:"cell_size"`
	TreadmillRows []int       `json:"treadmill_rows"`
	Tick          int         `json:"tick"`
	Objects       []Object    `json:"objects"`
	Robot         ArmSnapshot `json:"robot"`
	Agent         ArmSnapshot `json:"agent"`
	Stats         Stats       `json:"stats"`
	Done          bool        `json:"done"`
}

func (b *Board) Snapshot() *Snapshot {
	objects := make([]Object, len(b.objects))
	for i, o := range b.objects {
		objects[i] = *o
	}
	robot := b.robot.snapshot()
	robot.Placed = b.scores[Robot].Placed()
	agent := b.agent.snapshot()
	agent.Placed = b.scores[Agent].Placed()
	return &Snapshot{
		Rows:          b.config.Rows,
		Cols:          b.config.Cols,
		CellSize:      b.config.CellSize,
		TreadmillRows: b.config.TreadmillRows(),
		Tick:          b.ticks,
		Objects:       objects,
		Robot:         robot,
		Agent:         agent,
		Stats: Stats{
			Added:  b.added,
			Placed: b.Placed(),
			Fallen: b.fallen,
			Lost:   b.lost,
		},
		Done: b.done,
	}
}
