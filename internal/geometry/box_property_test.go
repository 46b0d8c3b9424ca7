package geometry

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genBox generates a random normalized box that stays within the page.
func genBox() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(0, 0.8),
		gen.Float64Range(0, 0.8),
		gen.Float64Range(0, 0.2),
		gen.Float64Range(0, 0.2),
	).Map(func(vals []interface{}) Box {
		left, ok := vals[0].(float64)
		if !ok {
			panic("expected float64")
		}
		top, ok := vals[1].(float64)
		if !ok {
			panic("expected float64")
		}
		width, ok := vals[2].(float64)
		if !ok {
			panic("expected float64")
		}
		height, ok := vals[3].(float64)
		if !ok {
			panic("expected float64")
		}
		return NewBox(left, top, width, height)
	})
}

func TestIoU_Symmetric(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("IoU(a,b) == IoU(b,a)", prop.ForAll(
		func(a, b Box) bool {
			return math.Abs(IoU(a, b)-IoU(b, a)) < 1e-12
		},
		genBox(),
		genBox(),
	))

	properties.TestingRun(t)
}

func TestIoU_Bounded(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("IoU is within [0,1]", prop.ForAll(
		func(a, b Box) bool {
			v := IoU(a, b)
			return v >= 0 && v <= 1+1e-12
		},
		genBox(),
		genBox(),
	))

	properties.Property("IoU of a box with itself is 1 for positive area", prop.ForAll(
		func(b Box) bool {
			if b.Area() == 0 {
				return IoU(b, b) == 0
			}
			return math.Abs(IoU(b, b)-1.0) < 1e-12
		},
		genBox(),
	))

	properties.TestingRun(t)
}

func TestPercentRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("FromPercent(ToPercent(b)) reproduces b", prop.ForAll(
		func(b Box) bool {
			got := FromPercent(b.ToPercent())
			return math.Abs(got.Left-b.Left) < 1e-9 &&
				math.Abs(got.Top-b.Top) < 1e-9 &&
				math.Abs(got.Width-b.Width) < 1e-9 &&
				math.Abs(got.Height-b.Height) < 1e-9
		},
		genBox(),
	))

	properties.TestingRun(t)
}

func TestUnionBox_CoversInputs(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("union box contains every input box", prop.ForAll(
		func(boxes []Box) bool {
			u, ok := UnionBox(boxes)
			if !ok {
				return len(boxes) == 0
			}
			for _, b := range boxes {
				if b.Left < u.Left-1e-12 || b.Top < u.Top-1e-12 ||
					b.Right() > u.Right()+1e-12 || b.Bottom() > u.Bottom()+1e-12 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genBox()),
	))

	properties.TestingRun(t)
}
