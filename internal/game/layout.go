package game

// Vec2 is a point on the battlefield. The playfield is 800x600 with the
// castle on the right edge.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// defaultPath is the enemy route from the left edge to the castle.
func defaultPath() []Vec2 {
	return []Vec2{
		{X: -30, Y: 300},
		{X: 100, Y: 300},
		{X: 100, Y: 200},
		{X: 250, Y: 200},
		{X: 250, Y: 350},
		{X: 400, Y: 350},
		{X: 400, Y: 150},
		{X: 550, Y: 150},
		{X: 550, Y: 400},
		{X: 700, Y: 400},
		{X: 700, Y: 300},
		{X: 850, Y: 300},
	}
}

// defaultPlots returns the buildable plots, positioned clear of the path.
func defaultPlots() []*Plot {
	positions := []Vec2{
		{X: 50, Y: 180}, {X: 50, Y: 420},
		{X: 170, Y: 120}, {X: 170, Y: 420}, {X: 170, Y: 520},
		{X: 320, Y: 280}, {X: 320, Y: 480},
		{X: 480, Y: 80}, {X: 620, Y: 80},
		{X: 480, Y: 280}, {X: 620, Y: 320},
		{X: 480, Y: 520}, {X: 620, Y: 520},
		{X: 780, Y: 180}, {X: 780, Y: 480},
		{X: 200, Y: 280}, {X: 680, Y: 200},
	}
	plots := make([]*Plot, len(positions))
	for i, pos := range positions {
		plots[i] = &Plot{ID: i, X: pos.X, Y: pos.Y}
	}
	return plots
}
