package compositor

import (
	"fmt"
	"image"
)

// RefreshMap recomputes pixel ownership inside r for the layers at stacking
// indices zFrom and above. Lower layers keep their claims unless zFrom is 0,
// in which case the region is rebuilt from scratch.
func (c *Compositor) RefreshMap(r image.Rectangle, zFrom int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if zFrom < 0 {
		panic(fmt.Errorf("%w: refresh from %d", ErrLayerRange, zFrom))
	}
	c.refreshMap(r, zFrom)
}

func (c *Compositor) refreshMap(r image.Rectangle, zFrom int) {
	r = r.Intersect(c.screen)
	if r.Empty() {
		return
	}
	stride := c.screen.Dx()

	if zFrom <= 0 {
		zFrom = 0
		for sy := r.Min.Y; sy < r.Max.Y; sy++ {
			row := c.owners[sy*stride+r.Min.X : sy*stride+r.Max.X]
			for i := range row {
				row[i] = noOwner
			}
		}
	}

	// Low to high: a higher opaque pixel overwrites a lower claim.
	for z := zFrom; z <= c.zMax; z++ {
		id := c.order[z]
		l := &c.layers[id]
		part := r.Intersect(l.rect())
		if part.Empty() {
			continue
		}
		for sy := part.Min.Y; sy < part.Max.Y; sy++ {
			src := l.buf[(sy-l.y)*l.w:]
			dst := c.owners[sy*stride:]
			for sx := part.Min.X; sx < part.Max.X; sx++ {
				if l.key.Matches(src[sx-l.x]) {
					continue
				}
				dst[sx] = uint16(id)
			}
		}
	}
}
