package board

import "fmt"

// Action is the discrete command given to an arm for one tick
type Action int

const (
	None Action = iota
	Up
	Down
	Pick
)

var actionNames = []string{"none", "up", "down", "pick"}

// Actions returns all actions an arm accepts
func Actions() []Action {
	return []Action{None, Up, Down, Pick}
}

func (a Action) String() string {
	if int(a) < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

func (a Action) Hash() string {
	return a.String()
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return None, fmt.Errorf("unknown action %q", s)
}
