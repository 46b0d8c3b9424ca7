package geometry

// Percent is a box in annotation-tool coordinates: percentages of the page
// size in [0, 100]. The source coordinate systems carry no rotation, so
// Rotation is always 0.
type Percent struct {
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
}

// ToPercent converts a normalized box to percent coordinates.
func (b Box) ToPercent() Percent {
	return Percent{
		X:        b.Left * 100.0,
		Y:        b.Top * 100.0,
		Width:    b.Width * 100.0,
		Height:   b.Height * 100.0,
		Rotation: 0,
	}
}

// FromPercent converts percent coordinates back to a normalized box.
func FromPercent(p Percent) Box {
	return Box{
		Left:   p.X / 100.0,
		Top:    p.Y / 100.0,
		Width:  p.Width / 100.0,
		Height: p.Height / 100.0,
	}
}
