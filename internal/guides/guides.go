// Package guides computes alignment guide lines between elements being moved and the
// stationary elements around them, and the snap correction toward those lines.
//
// The search is pairwise, O(moving x stationary) per call. That is fine for the tens
// of elements on an editing surface; bucketing stationary edges into an interval
// structure is the first thing to reach for if scenes grow to hundreds.
package guides

import (
	"math"
	"slices"

	"github.com/inamate/canvas-editor/backend-go/internal/geometry"
	"github.com/inamate/canvas-editor/backend-go/internal/scene"
)

// BaseTolerance is the snap distance in view pixels.
const BaseTolerance = 5.0

const dedupeEpsilon = 1e-9

// Set holds the active guide lines: x positions of vertical lines and y positions of
// horizontal lines, both sorted ascending without duplicates.
type Set struct {
	Vertical   []float64 `json:"vertical"`
	Horizontal []float64 `json:"horizontal"`
}

// IsEmpty reports whether there are no guide lines.
func (s Set) IsEmpty() bool {
	return len(s.Vertical) == 0 && len(s.Horizontal) == 0
}

// Tolerance converts the pixel tolerance into scene units for the given view scale,
// so the on-screen distance stays constant at any zoom.
func Tolerance(viewScale float64) float64 {
	if !(viewScale > 0) {
		viewScale = 1
	}
	return BaseTolerance / viewScale
}

// Compute compares every moving rect against every stationary rect. Each of the
// seven x-alignments (left, right vs left/right/center; center vs center) and the
// seven matching y-alignments that fall within tolerance contributes the stationary
// coordinate as a guide line.
func Compute(moving, stationary []geometry.Rect, tolerance float64) Set {
	var set Set
	eachMatch(moving, stationary, tolerance,
		func(_, target float64) { set.Vertical = append(set.Vertical, target) },
		func(_, target float64) { set.Horizontal = append(set.Horizontal, target) })
	set.Vertical = sortUnique(set.Vertical)
	set.Horizontal = sortUnique(set.Horizontal)
	return set
}

// ForElements runs Compute over element rectangles.
func ForElements(moving, stationary []scene.Element, tolerance float64) Set {
	return Compute(rects(moving), rects(stationary), tolerance)
}

// Snap returns the translation that lands the group on the nearest alignment within
// tolerance, independently per axis. Only the coordinate pairs Compute turns into
// guides are candidates, and the single smallest correction wins so the group stays
// rigid. An axis with nothing in reach gets 0.
func Snap(moving, stationary []geometry.Rect, tolerance float64) (dx, dy float64) {
	var bestX, bestY correction
	eachMatch(moving, stationary, tolerance, bestX.offer, bestY.offer)
	return bestX.delta, bestY.delta
}

// eachMatch calls onX and onY with the moving coordinate and stationary target of
// every alignment within tolerance.
func eachMatch(moving, stationary []geometry.Rect, tolerance float64, onX, onY func(coord, target float64)) {
	for _, m := range moving {
		for _, s := range stationary {
			matchAxis(tolerance, [2]float64{m.Left(), m.Right()}, m.CenterX(),
				[3]float64{s.Left(), s.Right(), s.CenterX()}, onX)
			matchAxis(tolerance, [2]float64{m.Top(), m.Bottom()}, m.CenterY(),
				[3]float64{s.Top(), s.Bottom(), s.CenterY()}, onY)
		}
	}
}

// edges are the moving near/far edges, center is the moving center, targets are the
// stationary near edge, far edge and center.
func matchAxis(tolerance float64, edges [2]float64, center float64, targets [3]float64, fn func(coord, target float64)) {
	for _, e := range edges {
		for _, t := range targets {
			if math.Abs(e-t) <= tolerance {
				fn(e, t)
			}
		}
	}
	if math.Abs(center-targets[2]) <= tolerance {
		fn(center, targets[2])
	}
}

// correction keeps the smallest offset offered to it.
type correction struct {
	delta float64
	dist  float64
	found bool
}

func (c *correction) offer(coord, target float64) {
	d := target - coord
	if !c.found || math.Abs(d) < c.dist {
		c.delta, c.dist, c.found = d, math.Abs(d), true
	}
}

func sortUnique(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	slices.Sort(values)
	out := values[:1]
	for _, v := range values[1:] {
		if v-out[len(out)-1] > dedupeEpsilon {
			out = append(out, v)
		}
	}
	return out
}

func rects(elements []scene.Element) []geometry.Rect {
	result := make([]geometry.Rect, len(elements))
	for i, el := range elements {
		result[i] = el.Rect()
	}
	return result
}
