package board

import "sort"

// RewardTable gives the value of a placed object to one arm. The placement reward
// is the sum of the color and shape entries, missing entries count as zero.
type RewardTable struct {
	Colors map[Color]float64 `json:"colors"`
	Shapes map[Shape]float64 `json:"shapes"`
}

func (r RewardTable) Copy() RewardTable {
	out := RewardTable{
		Colors: make(map[Color]float64, len(r.Colors)),
		Shapes: make(map[Shape]float64, len(r.Shapes)),
	}
	for k, v := range r.Colors {
		out.Colors[k] = v
	}
	for k, v := range r.Shapes {
		out.Shapes[k] = v
	}
	return out
}

func (r RewardTable) Reward(o *Object) float64 {
	return r.Colors[o.Color] + r.Shapes[o.Shape]
}

// Priorities orders the configured colors and shapes by descending reward,
// leaving out the ones with a negative reward.
func (r RewardTable) Priorities(colors []Color, shapes []Shape) Priorities {
	p := Priorities{
		Colors: make([]Color, 0, len(colors)),
		Shapes: make([]Shape, 0, len(shapes)),
	}
	for _, c := range colors {
		if r.Colors[c] >= 0 {
			p.Colors = append(p.Colors, c)
		}
	}
	for _, s := range shapes {
		if r.Shapes[s] >= 0 {
			p.Shapes = append(p.Shapes, s)
		}
	}
	sort.SliceStable(p.Colors, func(i, j int) bool {
		return r.Colors[p.Colors[i]] > r.Colors[p.Colors[j]]
	})
	sort.SliceStable(p.Shapes, func(i, j int) bool {
		return r.Shapes[p.Shapes[i]] > r.Shapes[p.Shapes[j]]
	})
	return p
}

// Priorities lists the wanted colors and shapes, best first
type Priorities struct {
	Colors []Color `json:"colors"`
	Shapes []Shape `json:"shapes"`
}

func (p Priorities) colorRank(c Color) int {
	for i, pc := range p.Colors {
		if pc == c {
			return i
		}
	}
	return -1
}

func (p Priorities) shapeRank(s Shape) int {
	for i, ps := range p.Shapes {
		if ps == s {
			return i
		}
	}
	return -1
}

// Accepts is true when both the color and the shape of the object are wanted
func (p Priorities) Accepts(o ObjectView) bool {
	return p.colorRank(o.Color) >= 0 && p.shapeRank(o.Shape) >= 0
}

// Compatible returns the indices of the wanted objects a gripper at from can still
// intercept. Shape priority orders first, then color priority, then the object closest
// to the gripper column. Remaining ties keep the order of objects.
func (p Priorities) Compatible(from Location, objects []ObjectView) []int {
	out := make([]int, 0)
	for i, o := range objects {
		if p.Accepts(o) && reachable(from, o.Location) {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := objects[out[i]], objects[out[j]]
		if si, sj := p.shapeRank(oi.Shape), p.shapeRank(oj.Shape); si != sj {
			return si < sj
		}
		if ci, cj := p.colorRank(oi.Color), p.colorRank(oj.Color); ci != cj {
			return ci < cj
		}
		return oi.Location.Col < oj.Location.Col
	})
	return out
}
