package components

// Body holds physical properties of an entity.
type Body struct {
	Diameter float64
}

// Radius returns the collision radius.
func (b Body) Radius() float64 { return b.Diameter / 2 }

// Motion holds the kinematic limits and perception radii of a movable agent.
type Motion struct {
	MaxSpeed     float64 `inspect:"label,fmt:%.3f"`
	Orientation  float64 `inspect:"angle"` // radians, wrapped to [-pi, pi]
	AwareRadius  float64 // distance within which the agent reacts to its target
	ArriveRadius float64 // distance within which seeking decelerates
}
