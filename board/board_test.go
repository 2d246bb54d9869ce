package board

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func testConfig() *Config {
	c := DefaultConfig()
	c.NewObjectProba = 0
	c.ManualSpawns = true
	c.NObjects = 1
	c.TimePenalty = 0
	c.MovePenalty = 0
	c.PickReward = 0
	c.Seed = 7
	return c
}

func newTestBoard(t *testing.T, mod func(*Config)) *Board {
	c := testConfig()
	if mod != nil {
		mod(c)
	}
	b, err := New(c)
	if err != nil {
		t.Fatalf("creating board: %s", err)
	}
	return b
}

func fixedPolicy(a Action) ArmPolicy {
	return func(_ *Board, _ *Arm) Action { return a }
}

// conserved checks that every spawned object is accounted for exactly once
func conserved(b *Board) bool {
	held := 0
	for _, arm := range []*Arm{b.Robot(), b.Agent()} {
		if arm.Picked != nil {
			held++
			for _, o := range b.Objects() {
				if o == arm.Picked {
					return false
				}
			}
		}
	}
	return b.Added() == len(b.Objects())+held+b.Placed()+b.Fallen()+b.Lost()
}

func TestLocation(t *testing.T) {
	Convey("Moving a location", t, func() {
		bounds := Bounds{Rows: 4, Cols: 9}

		Convey("Takes a single step per axis", func() {
			So(bounds.Move(Location{1, 1}, 5, -3), ShouldResemble, Location{2, 0})
			So(bounds.Move(Location{1, 1}, 0, 0), ShouldResemble, Location{1, 1})
		})

		Convey("Clips to the board", func() {
			So(bounds.Move(Location{0, 0}, -1, -1), ShouldResemble, Location{0, 0})
			So(bounds.Move(Location{3, 8}, 1, 1), ShouldResemble, Location{3, 8})
			So(bounds.Contains(Location{3, 8}), ShouldBeTrue)
			So(bounds.Contains(Location{4, 0}), ShouldBeFalse)
		})
	})
}

func TestConfigValidation(t *testing.T) {
	Convey("Validating a configuration", t, func() {
		Convey("The defaults are valid", func() {
			So(DefaultConfig().Validate(), ShouldBeNil)
		})

		Convey("No spawns are valid when the initial objects fill the cap or spawns are manual", func() {
			c := DefaultConfig()
			c.NewObjectProba = 0
			c.InitialObjects = c.NObjects
			So(c.Validate(), ShouldBeNil)
			c.InitialObjects = 0
			c.ManualSpawns = true
			So(c.Validate(), ShouldBeNil)
		})

		cases := map[string]func(*Config){
			"too few rows":          func(c *Config) { c.Rows = 3 },
			"cap never reached":     func(c *Config) { c.NewObjectProba = 0; c.InitialObjects = 3 },
			"treadmill on a base":   func(c *Config) { c.UpperTreadmillRow = 0 },
			"treadmills swapped":    func(c *Config) { c.UpperTreadmillRow, c.LowerTreadmillRow = 2, 1 },
			"base column outside":   func(c *Config) { c.ArmBaseCol = 9 },
			"probability above one": func(c *Config) { c.NewObjectProba = 1.5 },
			"no objects":            func(c *Config) { c.NObjects = 0 },
			"too many initial":      func(c *Config) { c.InitialObjects = 11 },
			"initial do not fit":    func(c *Config) { c.NObjects = 30; c.InitialObjects = 19 },
			"no colors":             func(c *Config) { c.Colors = nil },
		}
		for name, mod := range cases {
			name, mod := name, mod
			Convey("Rejects "+name, func() {
				c := DefaultConfig()
				mod(c)
				_, err := New(c)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
			})
		}
	})
}

func TestPriorities(t *testing.T) {
	Convey("Deriving priorities from a reward table", t, func() {
		p := DefaultConfig().RobotRewards.Priorities(Colors(), Shapes())

		Convey("Orders by descending reward and drops negative entries", func() {
			So(p.Colors, ShouldResemble, []Color{Red, Yellow})
			So(p.Shapes, ShouldResemble, []Shape{Square, Triangle})
		})
	})
}

func TestCompatibleObjects(t *testing.T) {
	Convey("Given a robot at its base", t, func() {
		b := newTestBoard(t, func(c *Config) { c.NObjects = 10 })
		from := b.Robot().Gripper

		redTriangle := b.AddObject(Location{1, 8}, Red, Triangle)
		yellowSquare := b.AddObject(Location{2, 7}, Yellow, Square)
		redSquare := b.AddObject(Location{1, 6}, Red, Square)
		b.AddObject(Location{2, 2}, Red, Square)
		b.AddObject(Location{1, 7}, Blue, Square)

		Convey("Only wanted reachable objects are listed, shape first then color", func() {
			objs := b.CompatibleObjects(from, b.Priorities(Robot))
			So(objs, ShouldResemble, []*Object{redSquare, yellowSquare, redTriangle})
		})

		Convey("Reachability compares columns left against rows to travel", func() {
			arm := b.Robot()
			So(arm.Reachable(&Object{Location: Location{1, 5}}), ShouldBeTrue)
			So(arm.Reachable(&Object{Location: Location{2, 5}}), ShouldBeFalse)
			So(arm.Reachable(&Object{Location: Location{1, 3}}), ShouldBeFalse)
			So(arm.Reachable(&Object{Location: Location{0, 4}}), ShouldBeTrue)
		})
	})
}

func TestRobotPicksReachableObject(t *testing.T) {
	Convey("Given one red square reachable by the robot", t, func() {
		b := newTestBoard(t, nil)
		obj := b.AddObject(Location{1, 8}, Red, Square)

		Convey("The robot picks it, retracts and earns the table reward", func() {
			total := 0.0
			picked := false
			for i := 0; i < 20 && !b.Done(); i++ {
				res := b.Tick(None)
				total += res.Robot.Reward
				if res.Robot.Picked != nil {
					picked = true
					So(res.Robot.Picked.ID, ShouldEqual, obj.ID)
				}
				So(conserved(b), ShouldBeTrue)
			}
			So(picked, ShouldBeTrue)
			So(b.Done(), ShouldBeTrue)
			So(b.Ticks(), ShouldEqual, 6)
			So(total, ShouldEqual, 10)
			So(b.Objects(), ShouldBeEmpty)
			So(b.Robot().State(), ShouldEqual, Idle)
			So(b.Score(Robot).Count(Red, Square), ShouldEqual, 1)
			So(b.Score(Agent).Len(), ShouldEqual, 0)
		})
	})
}

func TestCollision(t *testing.T) {
	Convey("Given both grippers about to meet while the agent holds an object", t, func() {
		b := newTestBoard(t, func(c *Config) { c.CollisionPenalty = -10 })
		b.SetRobotPolicy(fixedPolicy(Down))
		b.Robot().Gripper = Location{1, 4}
		b.Agent().Gripper = Location{2, 4}
		held := b.AddObject(Location{2, 4}, Blue, Circle)
		b.remove(held)
		b.Agent().Picked = held

		res := b.Tick(None)

		Convey("Both arms are penalized and the held object is destroyed", func() {
			So(res.Collision, ShouldBeTrue)
			So(b.Robot().Penalty, ShouldBeTrue)
			So(b.Agent().Penalty, ShouldBeTrue)
			So(b.Agent().Picked, ShouldBeNil)
			So(b.Lost(), ShouldEqual, 1)
			So(b.Objects(), ShouldBeEmpty)
			So(b.Placed(), ShouldEqual, 0)
			So(conserved(b), ShouldBeTrue)
		})

		Convey("The collision penalty replaces other rewards", func() {
			So(res.Robot.Reward, ShouldEqual, -10)
			So(res.Agent.Reward, ShouldEqual, -10)
		})

		Convey("Penalties clear once each arm is back at base", func() {
			So(b.Agent().AtBase(), ShouldBeTrue)
			b.Tick(Up)
			So(b.Agent().Penalty, ShouldBeFalse)
			So(b.Agent().AtBase(), ShouldBeTrue)
			So(b.Robot().Penalty, ShouldBeTrue)
			So(b.Robot().Gripper, ShouldResemble, Location{1, 4})
			b.Tick(None)
			So(b.Robot().Penalty, ShouldBeFalse)
			So(b.Robot().AtBase(), ShouldBeTrue)
			So(b.Done(), ShouldBeTrue)
		})
	})

	Convey("Given the robot retracting with an object and the agent moving into its span", t, func() {
		b := newTestBoard(t, nil)
		b.SetRobotPolicy(IdlePolicy)
		b.Robot().Gripper = Location{2, 4}
		held := b.AddObject(Location{2, 4}, Red, Square)
		b.remove(held)
		b.Robot().Picked = held
		b.Agent().Gripper = Location{2, 4}

		res := b.Tick(Up)

		Convey("The robot object is destroyed and reported by the agent move", func() {
			So(res.Collision, ShouldBeTrue)
			So(res.Robot.Collision, ShouldBeFalse)
			So(res.Robot.Lost, ShouldBeEmpty)
			So(res.Agent.Collision, ShouldBeTrue)
			So(res.Agent.Lost, ShouldHaveLength, 1)
			So(res.Agent.Lost[0].ID, ShouldEqual, held.ID)
			So(b.Robot().Picked, ShouldBeNil)
			So(b.Robot().Gripper, ShouldResemble, Location{1, 4})
			So(b.Agent().Gripper, ShouldResemble, Location{1, 4})
			So(b.Robot().Penalty, ShouldBeTrue)
			So(b.Agent().Penalty, ShouldBeTrue)
			So(res.Robot.Reward, ShouldEqual, b.Config().CollisionPenalty)
			So(b.Lost(), ShouldEqual, 1)
			So(b.Score(Robot).Len(), ShouldEqual, 0)
			So(conserved(b), ShouldBeTrue)
		})
	})

	Convey("Given grippers forced into the same cell", t, func() {
		b := newTestBoard(t, nil)
		b.SetRobotPolicy(IdlePolicy)
		b.Robot().Gripper = Location{1, 4}
		b.Agent().Gripper = Location{2, 4}

		res := b.Tick(Up)

		So(res.Collision, ShouldBeTrue)
		So(res.Agent.Collision, ShouldBeTrue)
		So(b.Robot().State(), ShouldEqual, Penalized)
		So(b.Agent().State(), ShouldEqual, Penalized)
	})
}

func TestSpawnCap(t *testing.T) {
	Convey("Given a spawn probability of one and a cap of one", t, func() {
		b := newTestBoard(t, func(c *Config) { c.NewObjectProba = 1 })
		b.SetRobotPolicy(IdlePolicy)

		Convey("Exactly one object ever exists", func() {
			first := b.Tick(None)
			So(b.Objects(), ShouldHaveLength, 1)
			So(b.Objects()[0].Location.Col, ShouldEqual, 8)
			So(first.Done, ShouldBeFalse)
			for i := 0; i < 30; i++ {
				b.Tick(None)
				So(len(b.Objects()), ShouldBeLessThanOrEqualTo, 1)
				So(b.Added(), ShouldEqual, 1)
			}
			So(b.Fallen(), ShouldEqual, 1)
			So(b.Done(), ShouldBeTrue)
		})
	})
}

func TestPick(t *testing.T) {
	Convey("Given the agent gripper on a treadmill", t, func() {
		b := newTestBoard(t, func(c *Config) { c.NObjects = 10 })
		b.SetRobotPolicy(IdlePolicy)
		b.Agent().Gripper = Location{2, 4}

		Convey("Picking among stacked objects does nothing", func() {
			b.AddObject(Location{2, 4}, Blue, Circle)
			b.AddObject(Location{2, 4}, Red, Square)
			res := b.Tick(Pick)
			So(res.Agent.Picked, ShouldBeNil)
			So(b.Agent().Holding(), ShouldBeFalse)
			So(b.ObjectsAt(Location{2, 3}), ShouldHaveLength, 2)
		})

		Convey("Picking a single object hands it to the arm", func() {
			obj := b.AddObject(Location{2, 4}, Blue, Circle)
			res := b.Tick(Pick)
			So(res.Agent.Picked, ShouldNotBeNil)
			So(b.Agent().Picked, ShouldEqual, obj)
			So(b.Objects(), ShouldBeEmpty)
			So(b.Agent().State(), ShouldEqual, Holding)

			Convey("Commands are ignored while retracting and the object is placed at base", func() {
				res := b.Tick(Up)
				So(res.Agent.Applied, ShouldBeFalse)
				So(res.Agent.Placed, ShouldEqual, obj)
				So(res.Agent.Reward, ShouldEqual, 10)
				So(b.Agent().AtBase(), ShouldBeTrue)
				So(b.Score(Agent).Count(Blue, Circle), ShouldEqual, 1)
			})
		})
	})
}

func TestRewards(t *testing.T) {
	Convey("Given time and movement penalties", t, func() {
		b := newTestBoard(t, func(c *Config) {
			c.TimePenalty = -1
			c.MovePenalty = -2
			c.PickReward = 3
		})
		b.SetRobotPolicy(IdlePolicy)

		Convey("A clipped move is still charged", func() {
			res := b.Tick(Down)
			So(b.Agent().AtBase(), ShouldBeTrue)
			So(res.Agent.Reward, ShouldEqual, -3)
			So(res.Robot.Reward, ShouldEqual, -1)
		})

		Convey("A pick earns the partial reward", func() {
			b.Agent().Gripper = Location{2, 4}
			b.AddObject(Location{2, 4}, Yellow, Triangle)
			res := b.Tick(Pick)
			So(res.Agent.Reward, ShouldEqual, 2)
		})
	})
}

func TestIdleTicks(t *testing.T) {
	Convey("Given an empty board", t, func() {
		b := newTestBoard(t, nil)
		before := b.Snapshot()

		Convey("Ticking with no command only advances the tick count", func() {
			for i := 0; i < 5; i++ {
				b.Tick(None)
			}
			after := b.Snapshot()
			So(after.Tick, ShouldEqual, 5)
			after.Tick = before.Tick
			So(after, ShouldResemble, before)
		})
	})
}

func TestAdvance(t *testing.T) {
	Convey("Given objects on the treadmills", t, func() {
		b := newTestBoard(t, func(c *Config) { c.NObjects = 10 })
		edge := b.AddObject(Location{1, 0}, Red, Circle)
		other := b.AddObject(Location{2, 5}, Blue, Circle)

		Convey("Objects move left and fall off the edge", func() {
			So(b.Advance(), ShouldEqual, 1)
			So(b.Fallen(), ShouldEqual, 1)
			So(b.Objects(), ShouldResemble, []*Object{other})
			So(other.Location, ShouldResemble, Location{2, 4})
			So(edge.Location.Col, ShouldEqual, 0)
		})
	})

	Convey("Initial objects never share a cell unless stacking is allowed", t, func() {
		b := newTestBoard(t, func(c *Config) {
			c.NObjects = 18
			c.InitialObjects = 18
		})
		seen := make(map[Location]bool)
		for _, o := range b.Objects() {
			So(seen[o.Location], ShouldBeFalse)
			seen[o.Location] = true
		}
		So(seen, ShouldHaveLength, 18)
	})
}

func TestRandomEpisodes(t *testing.T) {
	Convey("Running random agent commands against the scripted robot", t, func() {
		r := rand.New(rand.NewSource(3))
		c := DefaultConfig()
		c.Seed = 11
		c.NewObjectProba = 0.5
		c.AllowStackedSpawns = true
		b, err := New(c)
		So(err, ShouldBeNil)

		bounds := b.Bounds()
		actions := Actions()
		for i := 0; i < 500 && !b.Done(); i++ {
			res := b.Tick(actions[r.Intn(len(actions))])
			So(conserved(b), ShouldBeTrue)
			So(bounds.Contains(b.Robot().Gripper), ShouldBeTrue)
			So(bounds.Contains(b.Agent().Gripper), ShouldBeTrue)
			if res.Collision {
				So(b.Robot().Penalty && b.Agent().Penalty, ShouldBeTrue)
			}
		}
		So(b.Done(), ShouldBeTrue)
		So(conserved(b), ShouldBeTrue)
	})
}

func TestRender(t *testing.T) {
	Convey("Rendering a snapshot without colors", t, func() {
		b := newTestBoard(t, nil)
		b.AddObject(Location{1, 6}, Red, Square)
		out := b.Snapshot().Render(false)

		So(out, ShouldContainSubstring, "[R]")
		So(out, ShouldContainSubstring, "[A]")
		So(out, ShouldContainSubstring, "r#")
		So(strings.Count(out, "\n"), ShouldEqual, 6)
	})
}

func TestScriptedAction(t *testing.T) {
	Convey("Deciding from an observation of the agent arm", t, func() {
		c := DefaultConfig()
		p := c.AgentRewards.Priorities(c.Colors, c.Shapes)
		obs := Observation{Gripper: c.AgentBase(), Other: c.RobotBase()}

		Convey("With nothing to pursue the arm does nothing", func() {
			So(ScriptedAction(obs, p), ShouldEqual, None)
			obs.Gripper = Location{1, 4}
			So(ScriptedAction(obs, p), ShouldEqual, None)
		})

		Convey("It heads for the row of a wanted object", func() {
			obs.Objects = []ObjectView{
				{Location: Location{1, 8}, Color: Red, Shape: Square},
				{Location: Location{1, 7}, Color: Blue, Shape: Circle},
			}
			So(ScriptedAction(obs, p), ShouldEqual, Up)

			obs.Gripper = Location{1, 4}
			So(ScriptedAction(obs, p), ShouldEqual, None)
		})

		Convey("It picks a wanted object at the gripper", func() {
			obs.Gripper = Location{2, 4}
			obs.Objects = []ObjectView{{Location: Location{2, 4}, Color: Yellow, Shape: Triangle}}
			So(ScriptedAction(obs, p), ShouldEqual, Pick)

			obs.Objects[0].Shape = Square
			So(ScriptedAction(obs, p), ShouldEqual, None)
		})

		Convey("It waits while retracting", func() {
			obs.Gripper = Location{2, 4}
			obs.Penalized = true
			So(ScriptedAction(obs, p), ShouldEqual, None)
		})
	})

	Convey("Given the robot off base on an empty board", t, func() {
		b := newTestBoard(t, nil)
		b.Robot().Gripper = Location{1, 4}

		res := b.Tick(None)

		So(res.Robot.Action, ShouldEqual, None)
		So(b.Robot().Gripper, ShouldResemble, Location{1, 4})
		So(b.Robot().State(), ShouldEqual, Pursuing)
	})
}
