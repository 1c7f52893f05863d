package compositor

import (
	"fmt"
	"image"
)

// RefreshPart paints the pixels inside r owned by the layers at stacking
// indices zFrom..zTo. Each pixel is written at most once.
func (c *Compositor) RefreshPart(r image.Rectangle, zFrom, zTo int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if zFrom < 0 || zTo > c.zMax {
		panic(fmt.Errorf("%w: refresh %d..%d with top %d", ErrLayerRange, zFrom, zTo, c.zMax))
	}
	c.refreshPart(r, zFrom, zTo)
}

func (c *Compositor) refreshPart(r image.Rectangle, zFrom, zTo int) {
	r = r.Intersect(c.screen)
	if r.Empty() {
		return
	}
	stride := c.screen.Dx()

	if zFrom <= 0 {
		zFrom = 0
		for sy := r.Min.Y; sy < r.Max.Y; sy++ {
			row := c.owners[sy*stride:]
			for sx := r.Min.X; sx < r.Max.X; sx++ {
				if row[sx] == noOwner {
					c.sink.SetPixel(sx, sy, c.backdrop)
				}
			}
		}
	}
	if zTo > c.zMax {
		zTo = c.zMax
	}

	for z := zFrom; z <= zTo; z++ {
		id := c.order[z]
		l := &c.layers[id]
		part := r.Intersect(l.rect())
		if part.Empty() {
			continue
		}
		for sy := part.Min.Y; sy < part.Max.Y; sy++ {
			src := l.buf[(sy-l.y)*l.w:]
			row := c.owners[sy*stride:]
			for sx := part.Min.X; sx < part.Max.X; sx++ {
				if row[sx] == uint16(id) {
					c.sink.SetPixel(sx, sy, src[sx-l.x])
				}
			}
		}
	}
}
