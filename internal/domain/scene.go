package domain

// SceneKind classifies a scene by the Manim base class it declares.
type SceneKind string

const (
	KindPlanar       SceneKind = "planar"
	KindThreeD       SceneKind = "3d"
	KindMovingCamera SceneKind = "moving-camera"
	KindVector       SceneKind = "vector"
)

// Scene describes one renderable unit discovered in the scenes directory.
// Descriptors are built once per discovery pass and never mutated.
type Scene struct {
	Name       string    // class name, unique across the registry
	SourcePath string    // file the class is declared in
	Kind       SceneKind // which recognized base category it extends
}
