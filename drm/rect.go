package drm

// Rect is an axis-aligned pixel rectangle within a buffer, used to scope a
// lock to the region the caller actually touches.
type Rect struct {
	X, Y          uint32
	Width, Height uint32
}
