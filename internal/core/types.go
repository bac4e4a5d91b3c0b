package core

// Size describes the dimensions of a raster.
type Size struct {
	W int
	H int
}

// Sim is the contract front-ends drive: a variable-step simulation that can
// present itself as a palette-indexed raster.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step(dt float64)
	Cells() []uint8
}
