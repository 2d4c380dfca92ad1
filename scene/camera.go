package scene

import "github.com/milk9111/gameframe/common"

const (
	// viewHeight is the number of world units visible vertically at zoom 1.
	viewHeight = 40.0

	minCameraZoom = 0.1
	maxCameraZoom = 10.0
)

// Camera maps world coordinates (y up) to screen pixels (y down).
type Camera struct {
	X, Y   float64
	Zoom   float64
	Aspect float64

	// Smoothness is the fraction of the distance to the target covered per
	// Follow call; 1 snaps.
	Smoothness float64
}

func NewCamera(x, y float64) *Camera {
	return &Camera{X: x, Y: y, Zoom: 1, Aspect: 16.0 / 9.0, Smoothness: 1}
}

// SetAspectRatio applies a new viewport aspect ratio. Degenerate values are
// ignored.
func (c *Camera) SetAspectRatio(aspect float64) {
	if aspect <= 0 {
		return
	}
	c.Aspect = aspect
}

// Follow moves the camera toward (x, y).
func (c *Camera) Follow(x, y float64) {
	t := common.Clamp(c.Smoothness, 0, 1)
	c.X = common.Lerp(c.X, x, t)
	c.Y = common.Lerp(c.Y, y, t)
}

func (c *Camera) Pan(dx, dy float64) {
	c.X += dx
	c.Y += dy
}

// SetZoom sets the zoom, clamped to a sane range.
func (c *Camera) SetZoom(z float64) {
	c.Zoom = common.Clamp(z, minCameraZoom, maxCameraZoom)
}

// View returns the visible world width and height.
func (c *Camera) View() (float64, float64) {
	h := viewHeight / c.Zoom
	return h * c.Aspect, h
}

// WorldToScreen converts a world point to pixel coordinates on a screen of
// the given size.
func (c *Camera) WorldToScreen(x, y float64, screenW, screenH int) (float64, float64) {
	_, viewH := c.View()
	scale := float64(screenH) / viewH
	sx := (x-c.X)*scale + float64(screenW)/2
	sy := (c.Y-y)*scale + float64(screenH)/2
	return sx, sy
}

// Scale returns pixels per world unit for a screen of the given height.
func (c *Camera) Scale(screenH int) float64 {
	_, viewH := c.View()
	return float64(screenH) / viewH
}
