package bsp

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	inf = math.Inf(1)
	nan = math.NaN()
)

type box struct {
	Slot
	name string
	bb   Rect
}

func newBox(name string, x, y, w, h float64) *box {
	return &box{name: name, bb: Rect{x, y, w, h}}
}

func (b *box) Bounds() Rect {
	return b.bb
}

func (b *box) moveTo(x, y float64) {
	b.bb.X = x
	b.bb.Y = y
}

func (b *box) resize(w, h float64) {
	b.bb.W = w
	b.bb.H = h
}

// sensor is a second object class for class filters.
type sensor struct {
	box
}

func newSensor(name string, x, y, w, h float64) *sensor {
	return &sensor{box{name: name, bb: Rect{x, y, w, h}}}
}

func newTestIndex() *Index {
	return New(WithInvariantChecks(true), WithPoolChunk(8))
}

func names(objs []Object) []string {
	res := make([]string, 0, len(objs))
	for _, o := range objs {
		switch o := o.(type) {
		case *box:
			res = append(res, o.name)
		case *sensor:
			res = append(res, o.name)
		case *marker:
			res = append(res, o.name)
		}
	}
	sort.Strings(res)
	return res
}

func requireNames(t *testing.T, want []string, got []Object) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	require.Equal(t, want, names(got))
}
