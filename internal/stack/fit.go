package stack

import (
	"cogentcore.org/core/math32"

	"burgerstack/internal/mesh"
)

// Height is the vertical extent of node's bounds in its parent's space, 0 when empty.
func Height(node *mesh.Node) float32 {
	b := node.Bounds()
	if b.IsEmpty() {
		return 0
	}
	return b.Size().Y
}

// NormalizeScale scales group uniformly so its height becomes target.
// Groups without height keep scale 1.
func NormalizeScale(group *mesh.Node, target float32) {
	group.Scale = math32.Vec3(1, 1, 1)
	h := Height(group)
	if h <= 0 {
		return
	}
	s := target / h
	group.Scale = math32.Vec3(s, s, s)
}

// Camera is a perspective camera. FOV is the vertical field of view in degrees.
type Camera struct {
	Position math32.Vector3
	Target   math32.Vector3
	Up       math32.Vector3
	FOV      float32
	Near     float32
	Far      float32
}

// NewCamera returns a camera at (0, 0.8, 6) looking at the origin.
func NewCamera(fov float32) Camera {
	return Camera{
		Position: math32.Vec3(0, 0.8, 6),
		Up:       math32.Vec3(0, 1, 0),
		FOV:      fov,
		Near:     0.1,
		Far:      1000,
	}
}

// FitDistance is how far back a camera with the given vertical FOV (degrees) must sit
// for an object whose largest dimension is maxDim to fill the view, times zoom.
func FitDistance(maxDim, fov, zoom float32) float32 {
	half := math32.DegToRad(fov) / 2
	return math32.Abs((maxDim/2)/math32.Tan(half)) * zoom
}

// Fit centers obj on the origin and moves cam back along +z so obj fits in view.
// cam ends at (0, verticalOffset, distance) looking at the origin, with near/far planes
// scaled to the distance. An object without bounds is left alone and the camera is not moved.
func Fit(cam *Camera, obj *mesh.Node, zoom, verticalOffset float32) {
	b := obj.Bounds()
	if b.IsEmpty() {
		return
	}
	center := b.Center()
	obj.Position = obj.Position.Sub(center)

	size := b.Size()
	maxDim := math32.Max(size.X, math32.Max(size.Y, size.Z))
	d := FitDistance(maxDim, cam.FOV, zoom)

	cam.Position = math32.Vec3(0, verticalOffset, d)
	cam.Target = math32.Vector3{}
	cam.Up = math32.Vec3(0, 1, 0)
	if d > 0 {
		cam.Near = d / 100
		cam.Far = d * 100
	}
}
