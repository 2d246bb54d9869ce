package board

import "fmt"

type ArmID int

const (
	Robot ArmID = iota
	Agent
)

func (id ArmID) String() string {
	switch id {
	case Robot:
		return "robot"
	case Agent:
		return "agent"
	}
	return fmt.Sprintf("arm(%d)", int(id))
}

func (id ArmID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

type ArmState int

const (
	Idle ArmState = iota
	Pursuing
	Holding
	Penalized
)

var armStateNames = []string{"idle", "pursuing", "holding", "penalized"}

func (s ArmState) String() string {
	if int(s) < 0 || int(s) >= len(armStateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return armStateNames[s]
}

func (s ArmState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Arm is anchored at Base and extends its gripper vertically, one row per tick.
// The arm body is the segment between the base and the gripper.
type Arm struct {
	ID      ArmID
	Base    Location
	Gripper Location
	Picked  *Object
	// Penalty is set on collision and cleared once the gripper is back at base
	Penalty bool

	// set when a collision involving this arm was registered in the current tick
	collided bool
}

func NewArm(id ArmID, base Location) *Arm {
	return &Arm{
		ID:      id,
		Base:    base,
		Gripper: base,
	}
}

func (a *Arm) reset() {
	a.Gripper = a.Base
	a.Picked = nil
	a.Penalty = false
	a.collided = false
}

// MovingBack is true while the arm ignores commands and retracts to its base
func (a *Arm) MovingBack() bool {
	return a.Picked != nil || a.Penalty
}

func (a *Arm) AtBase() bool {
	return a.Gripper == a.Base
}

func (a *Arm) Holding() bool {
	return a.Picked != nil
}

// Collided reports whether a collision involving this arm was registered during the last tick
func (a *Arm) Collided() bool {
	return a.collided
}

func (a *Arm) State() ArmState {
	switch {
	case a.Penalty:
		return Penalized
	case a.Picked != nil:
		return Holding
	case a.AtBase():
		return Idle
	}
	return Pursuing
}

// move shifts the gripper by one row, the held object follows
func (a *Arm) move(dRow int, bounds Bounds) {
	a.Gripper = bounds.Move(a.Gripper, dRow, 0)
	if a.Picked != nil {
		a.Picked.Location = a.Gripper
	}
}

func (a *Arm) retract(bounds Bounds) {
	a.move(a.Base.Row-a.Gripper.Row, bounds)
}

// span is the row interval covered by the arm body
func (a *Arm) span() (int, int) {
	if a.Base.Row < a.Gripper.Row {
		return a.Base.Row, a.Gripper.Row
	}
	return a.Gripper.Row, a.Base.Row
}

// Collides checks whether the two arm bodies overlap. Arms sharing a column collide
// when their row spans intersect, otherwise only the grippers can meet.
func (a *Arm) Collides(other *Arm) bool {
	if a.Gripper == other.Gripper {
		return true
	}
	if a.Base.Col != other.Base.Col || a.Gripper.Col != other.Gripper.Col {
		return false
	}
	lo, hi := a.span()
	oLo, oHi := other.span()
	return lo <= oHi && oLo <= hi
}

// Reachable checks if the gripper can still be aligned with the object before it passes
// the gripper column: the columns left to travel must cover the rows to travel.
func (a *Arm) Reachable(o *Object) bool {
	return reachable(a.Gripper, o.Location)
}

func reachable(from, to Location) bool {
	dCol := to.Col - from.Col
	return dCol >= 0 && dCol >= abs(to.Row-from.Row)
}

func (a *Arm) snapshot() ArmSnapshot {
	return ArmSnapshot{
		ID:        a.ID,
		Base:      a.Base,
		Gripper:   a.Gripper,
		Picked:    a.Picked.Copy(),
		Penalized: a.Penalty,
		State:     a.State(),
	}
}
