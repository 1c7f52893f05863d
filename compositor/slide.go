package compositor

import "image"

// Slide moves the layer's top-left corner to (x, y).
func (c *Compositor) Slide(id LayerID, x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slide(id, x, y)
}

func (c *Compositor) slide(id LayerID, x, y int) {
	l := c.mustActive(id)
	old := l.rect()
	l.x, l.y = x, y
	if l.z == Hidden {
		return
	}

	// Vacating old may expose any lower layer; the new spot can only be
	// covered by layers above the mover.
	moved := l.rect()
	c.refreshMap(old, 0)
	c.refreshMap(moved, l.z)
	c.refreshPart(old, 0, l.z-1)
	c.refreshPart(moved, l.z, l.z)
}

// SlideByDiff moves the layer by (dx, dy), keeping a width x height extent
// on screen.
func (c *Compositor) SlideByDiff(id LayerID, dx, dy, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.mustActive(id)
	x := clamp(l.x+dx, c.screen.Dx()-width)
	y := clamp(l.y+dy, c.screen.Dy()-height)
	c.slide(id, x, y)
}

func clamp(v, hi int) int {
	if v > hi {
		v = hi
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Refresh repaints r, given in the layer's own coordinates, after the layer
// changed its pixels. Ownership is not recomputed, so pixels must not change
// to or from the layer's transparent color; use SetBuf for that.
func (c *Compositor) Refresh(id LayerID, r image.Rectangle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.mustActive(id)
	if l.z == Hidden {
		return
	}
	r = r.Add(image.Pt(l.x, l.y)).Intersect(l.rect())
	c.refreshPart(r, l.z, l.z)
}

// Redraw recomputes ownership and repaints the whole screen.
func (c *Compositor) Redraw() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshMap(c.screen, 0)
	c.refreshPart(c.screen, 0, c.zMax)
}
