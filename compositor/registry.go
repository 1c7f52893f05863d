package compositor

import (
	"fmt"

	"strata/vga"
)

// Alloc reserves the first free layer slot. The new layer is not displayed.
func (c *Compositor) Alloc() (LayerID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.layers {
		l := &c.layers[i]
		if l.active {
			continue
		}
		*l = Layer{active: true, z: Hidden}
		c.log.Debug("layer allocated", "layer", i)
		return LayerID(i), nil
	}
	return 0, ErrNoFreeLayer
}

// Free removes the layer from the stack if needed and releases its slot.
func (c *Compositor) Free(id LayerID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.mustActive(id)
	if l.z != Hidden {
		c.upDown(id, Hidden)
	}
	*l = Layer{}
	c.log.Debug("layer freed", "layer", id)
}

// SetBuf attaches a width x height pixel buffer and its transparent key.
// Position and stacking index are kept. The caller keeps ownership of buf
// and must not resize it while the layer is allocated.
func (c *Compositor) SetBuf(id LayerID, buf []vga.Color, width, height int, key ColorKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.mustActive(id)
	if width < 0 || height < 0 || len(buf) < width*height {
		panic(fmt.Errorf("%w: layer %d has %d pixels for %dx%d", ErrBadBuffer, id, len(buf), width, height))
	}

	old := l.rect()
	l.buf = buf
	l.w = width
	l.h = height
	l.key = key

	if l.z != Hidden {
		damage := old.Union(l.rect())
		c.refreshMap(damage, 0)
		c.refreshPart(damage, 0, c.zMax)
	}
}
