package core

// ParamType tells a front-end how to parse and adjust a parameter value.
type ParamType string

const (
	ParamTypeInt   ParamType = "int"
	ParamTypeFloat ParamType = "float"
	// ParamTypeString values are read-only labels such as a preset name.
	ParamTypeString ParamType = "string"
)

// Parameter is one value a simulation reports, already formatted.
type Parameter struct {
	Key   string
	Label string
	Type  ParamType
	Value string
}

// ParameterGroup is a titled block of parameters.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot is everything a simulation reports at one instant.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// Lookup finds a parameter by key across all groups.
func (s ParameterSnapshot) Lookup(key string) (Parameter, bool) {
	for _, g := range s.Groups {
		for _, p := range g.Params {
			if p.Key == key {
				return p, true
			}
		}
	}
	return Parameter{}, false
}

// ParameterControl describes a parameter a HUD may step up and down. Bounds
// only apply when the matching Has flag is set.
type ParameterControl struct {
	Key   string
	Label string
	Type  ParamType
	Step  float64

	Min, Max       float64
	HasMin, HasMax bool
}

// ParameterControlsProvider lists the adjustable parameters.
type ParameterControlsProvider interface {
	ParameterControls() []ParameterControl
}

// IntParameterSetter applies an integer control change. It reports whether
// the value was accepted.
type IntParameterSetter interface {
	SetIntParameter(key string, value int) bool
}

// FloatParameterSetter applies a float control change. It reports whether
// the value was accepted.
type FloatParameterSetter interface {
	SetFloatParameter(key string, value float64) bool
}
