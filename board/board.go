package board

import (
	"math/rand"
	"time"
)

// ArmPolicy picks the action of a scripted arm for the coming tick
type ArmPolicy func(*Board, *Arm) Action

// Board owns the free objects riding on the treadmills and both arms.
// It is not safe for concurrent use, a tick runs to completion before the next one.
type Board struct {
	config *Config
	bounds Bounds
	rand   *rand.Rand

	objects []*Object
	robot   *Arm
	agent   *Arm

	robotPolicy ArmPolicy
	priorities  map[ArmID]Priorities
	scores      map[ArmID]*ScoreBar

	ticks  int
	added  int
	fallen int
	lost   int
	done   bool
}

// New validates the configuration and creates a board in its initial state
func New(config *Config) (*Board, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	c := config.Copy()
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	b := &Board{
		config:      c,
		bounds:      Bounds{Rows: c.Rows, Cols: c.Cols},
		rand:        rand.New(rand.NewSource(seed)),
		robot:       NewArm(Robot, c.RobotBase()),
		agent:       NewArm(Agent, c.AgentBase()),
		robotPolicy: ScriptedPolicy,
		priorities: map[ArmID]Priorities{
			Robot: c.RobotRewards.Priorities(c.Colors, c.Shapes),
			Agent: c.AgentRewards.Priorities(c.Colors, c.Shapes),
		},
	}
	b.Reset()
	return b, nil
}

// SetRobotPolicy replaces the scripted robot behaviour
func (b *Board) SetRobotPolicy(p ArmPolicy) {
	b.robotPolicy = p
}

// Reset clears the objects and counters, brings both arms back to base and
// places the initial objects.
func (b *Board) Reset() {
	b.objects = make([]*Object, 0)
	b.robot.reset()
	b.agent.reset()
	b.scores = map[ArmID]*ScoreBar{
		Robot: NewScoreBar(),
		Agent: NewScoreBar(),
	}
	b.ticks = 0
	b.added = 0
	b.fallen = 0
	b.lost = 0
	b.done = false
	b.populate()
}

func (b *Board) Config() *Config { return b.config }
func (b *Board) Bounds() Bounds { return b.bounds }
func (b *Board) Robot() *Arm { return b.robot }
func (b *Board) Agent() *Arm { return b.agent }
func (b *Board) Ticks() int { return b.ticks }
func (b *Board) Added() int { return b.added }
func (b *Board) Fallen() int { return b.fallen }
func (b *Board) Lost() int { return b.lost }
func (b *Board) Done() bool { return b.done }
func (b *Board) Score(id ArmID) *ScoreBar { return b.scores[id] }
func (b *Board) Priorities(id ArmID) Priorities { return b.priorities[id] }

func (b *Board) Arm(id ArmID) *Arm {
	if id == Robot {
		return b.robot
	}
	return b.agent
}

func (b *Board) other(a *Arm) *Arm {
	if a.ID == Robot {
		return b.agent
	}
	return b.robot
}

func (b *Board) rewards(id ArmID) RewardTable {
	if id == Robot {
		return b.config.RobotRewards
	}
	return b.config.AgentRewards
}

// Placed is the number of objects placed by both arms
func (b *Board) Placed() int {
	return b.scores[Robot].Len() + b.scores[Agent].Len()
}

// Objects returns the free objects ordered by spawn sequence
func (b *Board) Objects() []*Object {
	out := make([]*Object, len(b.objects))
	copy(out, b.objects)
	return out
}

// AddObject puts a new free object on the board, counting toward the object cap
func (b *Board) AddObject(loc Location, color Color, shape Shape) *Object {
	o := newObject(b.added, loc, color, shape)
	b.added++
	b.objects = append(b.objects, o)
	return o
}

func (b *Board) remove(o *Object) {
	for i, obj := range b.objects {
		if obj == o {
			b.objects = append(b.objects[:i], b.objects[i+1:]...)
			return
		}
	}
}

// ObjectsAt returns all free objects at the location
func (b *Board) ObjectsAt(loc Location) []*Object {
	out := make([]*Object, 0)
	for _, o := range b.objects {
		if o.Location == loc {
			out = append(out, o)
		}
	}
	return out
}

// ObjectAt returns the free object at the location, nil if there is none or several
func (b *Board) ObjectAt(loc Location) *Object {
	objs := b.ObjectsAt(loc)
	if len(objs) != 1 {
		return nil
	}
	return objs[0]
}

// CompatibleObjects lists the free objects that a gripper at from can still intercept
// and whose color and shape appear in the priority lists, best first.
func (b *Board) CompatibleObjects(from Location, p Priorities) []*Object {
	views := make([]ObjectView, len(b.objects))
	for i, o := range b.objects {
		views[i] = o.view()
	}
	out := make([]*Object, 0)
	for _, i := range p.Compatible(from, views) {
		out = append(out, b.objects[i])
	}
	return out
}

func (b *Board) occupied(loc Location) bool {
	return len(b.ObjectsAt(loc)) > 0
}

func (b *Board) randomObject(loc Location) *Object {
	color := b.config.Colors[b.rand.Intn(len(b.config.Colors))]
	shape := b.config.Shapes[b.rand.Intn(len(b.config.Shapes))]
	return b.AddObject(loc, color, shape)
}

// Spawn adds at most one object at the right end of a random treadmill
func (b *Board) Spawn() *Object {
	if b.added >= b.config.NObjects || b.rand.Float64() >= b.config.NewObjectProba {
		return nil
	}
	rows := b.config.TreadmillRows()
	loc := Location{Row: rows[b.rand.Intn(len(rows))], Col: b.config.Cols - 1}
	if !b.config.AllowStackedSpawns && b.occupied(loc) {
		return nil
	}
	return b.randomObject(loc)
}

func (b *Board) populate() {
	cells := make([]Location, 0)
	for _, row := range b.config.TreadmillRows() {
		for col := 0; col < b.config.Cols; col++ {
			cells = append(cells, Location{Row: row, Col: col})
		}
	}
	for i := 0; i < b.config.InitialObjects; i++ {
		j := b.rand.Intn(len(cells))
		b.randomObject(cells[j])
		if !b.config.AllowStackedSpawns {
			cells = append(cells[:j], cells[j+1:]...)
		}
	}
}

// Advance moves every free object one column left, drops the ones leaving the
// board and then spawns. Returns the number of fallen objects.
func (b *Board) Advance() int {
	fallen := 0
	remaining := b.objects[:0]
	for _, o := range b.objects {
		if o.Location.Col-1 < 0 {
			fallen++
			continue
		}
		o.Location.Col--
		remaining = append(remaining, o)
	}
	b.objects = remaining
	b.fallen += fallen
	b.Spawn()
	return fallen
}

// ArmResult describes what happened to one arm during a tick
type ArmResult struct {
	Action Action `json:"action"`
	// Applied is false when the action was overridden by retraction
	Applied   bool      `json:"applied"`
	Collision bool      `json:"collision"`
	Picked    *Object   `json:"picked,omitempty"`
	Placed    *Object   `json:"placed,omitempty"`
	Lost      []*Object `json:"lost,omitempty"`
	Reward    float64   `json:"reward"`
}

// TickResult is the outcome of one simulation step
type TickResult struct {
	Tick      int       `json:"tick"`
	Robot     ArmResult `json:"robot"`
	Agent     ArmResult `json:"agent"`
	Collision bool      `json:"collision"`
	Fallen    int       `json:"fallen"`
	Done      bool      `json:"done"`
}

func (t *TickResult) Arm(id ArmID) *ArmResult {
	if id == Robot {
		return &t.Robot
	}
	return &t.Agent
}

// Tick runs one step: the robot acts on its scripted action, then the agent acts on
// agentAction, rewards are computed and the treadmills advance.
func (b *Board) Tick(agentAction Action) *TickResult {
	b.robot.collided = false
	b.agent.collided = false

	robotAction := None
	if b.robotPolicy != nil {
		robotAction = b.robotPolicy(b, b.robot)
	}

	result := &TickResult{
		Robot: b.act(b.robot, robotAction),
		Agent: b.act(b.agent, agentAction),
	}
	result.Collision = b.robot.collided || b.agent.collided
	b.reward(b.robot, &result.Robot)
	b.reward(b.agent, &result.Agent)

	result.Fallen = b.Advance()
	b.ticks++
	result.Tick = b.ticks
	b.done = b.Placed()+b.fallen+b.lost >= b.config.NObjects && !b.robot.Holding() && !b.agent.Holding()
	result.Done = b.done
	return result
}

func (b *Board) act(arm *Arm, action Action) ArmResult {
	res := ArmResult{Action: action}
	other := b.other(arm)

	if arm.MovingBack() {
		arm.retract(b.bounds)
	} else {
		res.Applied = true
		switch action {
		case Up:
			arm.move(-1, b.bounds)
		case Down:
			arm.move(1, b.bounds)
		case Pick:
			if obj := b.ObjectAt(arm.Gripper); obj != nil {
				b.remove(obj)
				arm.Picked = obj
				res.Picked = obj.Copy()
			}
		}
	}

	if arm.Collides(other) && !(arm.Penalty && other.Penalty) {
		res.Collision = true
		for _, a := range []*Arm{arm, other} {
			a.Penalty = true
			a.collided = true
			if a.Picked != nil {
				res.Lost = append(res.Lost, a.Picked)
				a.Picked = nil
				b.lost++
			}
		}
	}

	if arm.AtBase() {
		if arm.Picked != nil {
			res.Placed = arm.Picked
			b.scores[arm.ID].Add(arm.Picked)
			arm.Picked = nil
		}
		if !arm.collided {
			arm.Penalty = false
		}
	}
	return res
}

// reward fills in the reward of the arm for the current tick. A collision
// replaces every other reward term.
func (b *Board) reward(arm *Arm, res *ArmResult) {
	if arm.collided {
		res.Reward = b.config.CollisionPenalty
		return
	}
	r := b.config.TimePenalty
	if res.Applied && (res.Action == Up || res.Action == Down) {
		r += b.config.MovePenalty
	}
	if res.Picked != nil {
		r += b.config.PickReward
	}
	if res.Placed != nil {
		r += b.rewards(arm.ID).Reward(res.Placed)
	}
	res.Reward = r
}
