package compositor

// UpDown moves the layer to stacking index z, or removes it from the stack
// when z is negative (Hidden).
//
// A hidden layer may be inserted anywhere in [0, ZMax+1]; a displayed layer
// moves within [0, ZMax]. Larger values are clamped. Layers between the old
// and new index shift by one to keep the stack dense.
func (c *Compositor) UpDown(id LayerID, z int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.upDown(id, z)
}

func (c *Compositor) upDown(id LayerID, z int) {
	l := c.mustActive(id)
	old := l.z

	top := c.zMax
	if old == Hidden {
		top++
	}
	if z > top {
		z = top
	}
	if z < 0 {
		z = Hidden
	}
	if z == old {
		return
	}

	rect := l.rect()
	switch {
	case old == Hidden:
		for h := c.zMax; h >= z; h-- {
			c.order[h+1] = c.order[h]
			c.layers[c.order[h+1]].z = h + 1
		}
		c.order[z] = id
		l.z = z
		c.zMax++
		c.refreshMap(rect, z)
		c.refreshPart(rect, z, z)

	case z == Hidden:
		for h := old; h < c.zMax; h++ {
			c.order[h] = c.order[h+1]
			c.layers[c.order[h]].z = h
		}
		c.zMax--
		l.z = Hidden
		c.refreshMap(rect, 0)
		c.refreshPart(rect, 0, old-1)

	case old < z:
		for h := old; h < z; h++ {
			c.order[h] = c.order[h+1]
			c.layers[c.order[h]].z = h
		}
		c.order[z] = id
		l.z = z
		c.refreshMap(rect, z)
		c.refreshPart(rect, z, z)

	default:
		for h := old; h > z; h-- {
			c.order[h] = c.order[h-1]
			c.layers[c.order[h]].z = h
		}
		c.order[z] = id
		l.z = z
		c.refreshMap(rect, z+1)
		c.refreshPart(rect, z+1, old)
	}
	c.log.Debug("layer restacked", "layer", id, "from", old, "to", z, "zmax", c.zMax)
}
