package compositor

import (
	"errors"
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strata/vga"
)

// recordingSink is a framebuffer that counts and bounds its writes.
type recordingSink struct {
	w, h   int
	pix    []vga.Color
	writes int
	hits   image.Rectangle
}

func newRecordingSink(w, h int) *recordingSink {
	s := &recordingSink{w: w, h: h, pix: make([]vga.Color, w*h)}
	for i := range s.pix {
		s.pix[i] = 0xFF
	}
	return s
}

func (s *recordingSink) SetPixel(x, y int, c vga.Color) {
	s.pix[y*s.w+x] = c
	s.writes++
	s.hits = s.hits.Union(image.Rect(x, y, x+1, y+1))
}

func (s *recordingSink) reset() {
	s.writes = 0
	s.hits = image.Rectangle{}
}

func solid(w, h int, c vga.Color) []vga.Color {
	buf := make([]vga.Color, w*h)
	for i := range buf {
		buf[i] = c
	}
	return buf
}

func newLayer(t *testing.T, c *Compositor, buf []vga.Color, w, h int, key ColorKey) LayerID {
	t.Helper()
	id, err := c.Alloc()
	require.NoError(t, err)
	c.SetBuf(id, buf, w, h, key)
	return id
}

func recoverErr(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = errors.New("non-error panic")
		}
	}()
	fn()
	return nil
}

// referenceOwner scans the stack from the top, ignoring the ownership map.
func referenceOwner(c *Compositor, x, y int) (LayerID, bool) {
	for z := c.zMax; z >= 0; z-- {
		id := c.order[z]
		l := &c.layers[id]
		if !image.Pt(x, y).In(l.rect()) {
			continue
		}
		if l.key.Matches(l.buf[(y-l.y)*l.w+x-l.x]) {
			continue
		}
		return id, true
	}
	return 0, false
}

func checkConsistent(t *testing.T, c *Compositor, sink *recordingSink) {
	t.Helper()

	displayed := 0
	for i := range c.layers {
		l := &c.layers[i]
		if l.active && l.z != Hidden {
			displayed++
		}
	}
	require.Equal(t, c.zMax+1, displayed, "zmax does not match displayed layers")
	for z := 0; z <= c.zMax; z++ {
		l := &c.layers[c.order[z]]
		require.True(t, l.active, "inactive layer at z=%d", z)
		require.Equal(t, z, l.z, "back-reference broken at z=%d", z)
	}

	for y := 0; y < c.screen.Dy(); y++ {
		for x := 0; x < c.screen.Dx(); x++ {
			wantID, wantOK := referenceOwner(c, x, y)
			gotID, gotOK := c.Owner(x, y)
			require.Equal(t, wantOK, gotOK, "owner presence at (%d,%d)", x, y)
			want := c.backdrop
			if wantOK {
				require.Equal(t, wantID, gotID, "owner at (%d,%d)", x, y)
				l := &c.layers[wantID]
				want = l.buf[(y-l.y)*l.w+x-l.x]
			}
			require.Equal(t, want, sink.pix[y*sink.w+x], "screen at (%d,%d)", x, y)
		}
	}
}

func TestAllocExhaustion(t *testing.T) {
	c := New(8, 8, newRecordingSink(8, 8))
	for i := 0; i < MaxLayers; i++ {
		id, err := c.Alloc()
		require.NoError(t, err)
		assert.Equal(t, LayerID(i), id)
		assert.Equal(t, Hidden, c.Layer(id).Z)
	}

	_, err := c.Alloc()
	assert.ErrorIs(t, err, ErrNoFreeLayer)

	c.Free(17)
	assert.False(t, c.Layer(17).Active)
	id, err := c.Alloc()
	require.NoError(t, err)
	assert.Equal(t, LayerID(17), id)
}

func TestContractViolationsPanic(t *testing.T) {
	sink := newRecordingSink(8, 8)
	c := New(8, 8, sink)
	id := newLayer(t, c, solid(4, 4, vga.Red), 4, 4, NoKey)

	tests := []struct {
		name string
		fn   func()
		want error
	}{
		{"updown inactive", func() { c.UpDown(id+1, 0) }, ErrInactiveLayer},
		{"slide inactive", func() { c.Slide(200, 1, 1) }, ErrInactiveLayer},
		{"free inactive", func() { c.Free(9) }, ErrInactiveLayer},
		{"refresh inactive", func() { c.Refresh(3, image.Rect(0, 0, 1, 1)) }, ErrInactiveLayer},
		{"short buffer", func() { c.SetBuf(id, make([]vga.Color, 3), 2, 2, NoKey) }, ErrBadBuffer},
		{"negative size", func() { c.SetBuf(id, nil, -1, 2, NoKey) }, ErrBadBuffer},
		{"refresh past top", func() { c.RefreshPart(c.Screen(), 0, 0) }, ErrLayerRange},
		{"map below zero", func() { c.RefreshMap(c.Screen(), -1) }, ErrLayerRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := recoverErr(tt.fn)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// The lock is released by a panicking operation.
	c.UpDown(id, 0)
	assert.Equal(t, 0, c.ZMax())
}

func TestUpDownInsertAndClamp(t *testing.T) {
	sink := newRecordingSink(16, 16)
	c := New(16, 16, sink)
	a := newLayer(t, c, solid(4, 4, vga.Red), 4, 4, NoKey)
	b := newLayer(t, c, solid(4, 4, vga.Green), 4, 4, NoKey)
	d := newLayer(t, c, solid(4, 4, vga.Blue), 4, 4, NoKey)

	assert.Equal(t, Hidden, c.ZMax())
	c.UpDown(a, 100)
	assert.Equal(t, 0, c.Layer(a).Z, "insert into empty stack clamps to 0")
	c.UpDown(b, 100)
	assert.Equal(t, 1, c.Layer(b).Z)
	c.UpDown(d, 0)
	assert.Equal(t, []LayerID{d, a, b}, c.Order())
	assert.Equal(t, 2, c.ZMax())

	c.UpDown(d, 100)
	assert.Equal(t, []LayerID{a, b, d}, c.Order(), "displayed layer clamps to top")
	assert.Equal(t, 2, c.ZMax())

	c.UpDown(d, -5)
	assert.Equal(t, []LayerID{a, b}, c.Order())
	assert.Equal(t, Hidden, c.Layer(d).Z)
	assert.Equal(t, 1, c.ZMax())

	c.UpDown(a, Hidden)
	c.UpDown(b, Hidden)
	assert.Equal(t, Hidden, c.ZMax())
	assert.Empty(t, c.Order())
}

func TestUpDownIdempotent(t *testing.T) {
	sink := newRecordingSink(16, 16)
	c := New(16, 16, sink)
	a := newLayer(t, c, solid(16, 16, vga.Red), 16, 16, NoKey)
	b := newLayer(t, c, solid(4, 4, vga.Green), 4, 4, NoKey)
	c.UpDown(a, 0)
	c.UpDown(b, 1)

	before := c.Order()
	sink.reset()
	c.UpDown(b, 1)
	c.UpDown(a, 0)
	assert.Equal(t, before, c.Order())
	assert.Zero(t, sink.writes, "no-op restack must not redraw")

	hidden := newLayer(t, c, solid(2, 2, vga.Blue), 2, 2, NoKey)
	c.UpDown(hidden, Hidden)
	assert.Zero(t, sink.writes)
}

func TestRestackScenario(t *testing.T) {
	sink := newRecordingSink(vga.ScreenWidth, vga.ScreenHeight)
	c := New(vga.ScreenWidth, vga.ScreenHeight, sink)

	cursorBuf := solid(16, 16, vga.Cyan)
	for i := 0; i < 16; i++ {
		cursorBuf[i*16+i] = vga.Black
		cursorBuf[i*16] = vga.White
	}

	bg := newLayer(t, c, solid(vga.ScreenWidth, vga.ScreenHeight, vga.LightGrey), vga.ScreenWidth, vga.ScreenHeight, NoKey)
	cursor := newLayer(t, c, cursorBuf, 16, 16, Key(vga.Cyan))
	win := newLayer(t, c, solid(160, 52, vga.Blue), 160, 52, NoKey)

	c.Slide(win, 100, 100)
	c.Slide(cursor, 150, 120)
	c.UpDown(bg, 0)
	c.UpDown(win, 1)
	c.UpDown(cursor, 2)
	c.Redraw()

	owner, ok := c.Owner(150, 120)
	require.True(t, ok)
	assert.Equal(t, cursor, owner, "opaque cursor pixel over the window")
	owner, _ = c.Owner(151, 120)
	assert.Equal(t, win, owner, "cyan cursor pixel shows the window")

	c.UpDown(win, 2)
	assert.Equal(t, 2, c.Layer(win).Z)
	assert.Equal(t, 1, c.Layer(cursor).Z)
	assert.Equal(t, 0, c.Layer(bg).Z)

	wr := c.Layer(win).Rect()
	c.RefreshMap(wr, 0)
	for y := wr.Min.Y; y < wr.Max.Y; y++ {
		for x := wr.Min.X; x < wr.Max.X; x++ {
			owner, ok := c.Owner(x, y)
			require.True(t, ok)
			require.Equal(t, win, owner, "pixel (%d,%d)", x, y)
		}
	}
	assert.Equal(t, vga.Blue, sink.pix[120*vga.ScreenWidth+150])
}

func TestFreeMidStackClosesGap(t *testing.T) {
	sink := newRecordingSink(16, 16)
	c := New(16, 16, sink)
	var ids []LayerID
	for i := 0; i < 5; i++ {
		id := newLayer(t, c, solid(4, 4, vga.Color(i+1)), 4, 4, NoKey)
		c.Slide(id, i, i)
		c.UpDown(id, i)
		ids = append(ids, id)
	}
	c.Redraw()
	require.Equal(t, 4, c.ZMax())

	c.Free(ids[2])
	assert.Equal(t, 3, c.ZMax())
	assert.Equal(t, []LayerID{ids[0], ids[1], ids[3], ids[4]}, c.Order())
	assert.Equal(t, 2, c.Layer(ids[3]).Z)
	assert.Equal(t, 3, c.Layer(ids[4]).Z)
	assert.False(t, c.Layer(ids[2]).Active)
	checkConsistent(t, c, sink)
}

func TestSlideByDiffClamps(t *testing.T) {
	sink := newRecordingSink(64, 48)
	c := New(64, 48, sink)
	c.Redraw()
	id := newLayer(t, c, solid(16, 16, vga.White), 16, 16, NoKey)
	c.Slide(id, 50, 20)
	c.UpDown(id, 0)

	c.SlideByDiff(id, -10000, 0, 16, 16)
	assert.Equal(t, 0, c.Layer(id).X)
	assert.Equal(t, 20, c.Layer(id).Y)

	c.SlideByDiff(id, 10000, 10000, 16, 16)
	assert.Equal(t, 64-16, c.Layer(id).X)
	assert.Equal(t, 48-16, c.Layer(id).Y)

	c.SlideByDiff(id, -3, -2, 16, 16)
	assert.Equal(t, 64-19, c.Layer(id).X)
	assert.Equal(t, 48-18, c.Layer(id).Y)
	checkConsistent(t, c, sink)
}

func TestDamageBound(t *testing.T) {
	sink := newRecordingSink(64, 48)
	c := New(64, 48, sink)
	bg := newLayer(t, c, solid(64, 48, vga.Green), 64, 48, NoKey)
	win := newLayer(t, c, solid(20, 10, vga.Red), 20, 10, NoKey)
	c.UpDown(bg, 0)
	c.Slide(win, 30, 30)
	c.UpDown(win, 1)
	c.Redraw()

	t.Run("refresh part", func(t *testing.T) {
		sink.reset()
		r := image.Rect(25, 25, 35, 35)
		c.RefreshPart(r, 1, 1)
		assert.Equal(t, 25, sink.writes)
		assert.Equal(t, r.Intersect(c.Layer(win).Rect()), sink.hits)
	})

	t.Run("layer local refresh", func(t *testing.T) {
		sink.reset()
		c.Refresh(win, image.Rect(2, 3, 5, 4))
		assert.Equal(t, 3, sink.writes)
		assert.Equal(t, image.Rect(32, 33, 35, 34), sink.hits)
	})

	t.Run("restack stays in footprint", func(t *testing.T) {
		sink.reset()
		c.UpDown(win, Hidden)
		assert.Equal(t, c.Layer(win).Rect(), sink.hits)
		sink.reset()
		c.UpDown(win, 1)
		assert.Equal(t, c.Layer(win).Rect(), sink.hits)
	})

	t.Run("map stays in rect", func(t *testing.T) {
		before := append([]uint16(nil), c.owners...)
		c.layers[win].buf[0] = vga.Blue
		c.layers[win].key = Key(vga.Blue)
		r := image.Rect(0, 0, 31, 31)
		c.RefreshMap(r, 0)
		for i := range c.owners {
			p := image.Pt(i%64, i/64)
			if !p.In(r) {
				require.Equal(t, before[i], c.owners[i], "pixel %v outside rect changed", p)
			}
		}
		owner, _ := c.Owner(30, 30)
		assert.Equal(t, bg, owner)
	})

	t.Run("degenerate rects", func(t *testing.T) {
		sink.reset()
		c.RefreshPart(image.Rect(10, 10, 10, 20), 0, 1)
		c.RefreshPart(image.Rect(-50, -50, -1, -1), 0, 1)
		c.RefreshMap(image.Rect(100, 100, 200, 200), 0)
		c.Refresh(win, image.Rect(40, 40, 50, 50))
		assert.Zero(t, sink.writes)
	})
}

func TestSlideOffScreen(t *testing.T) {
	sink := newRecordingSink(32, 32)
	c := New(32, 32, sink, WithBackdrop(vga.Blue))
	c.Redraw()
	id := newLayer(t, c, solid(8, 8, vga.Yellow), 8, 8, NoKey)
	c.UpDown(id, 0)
	c.Slide(id, -4, 28)
	checkConsistent(t, c, sink)
	c.Slide(id, 100, 100)
	checkConsistent(t, c, sink)
	assert.Equal(t, vga.Blue, sink.pix[0])
}

func TestSetBufOnDisplayedLayer(t *testing.T) {
	sink := newRecordingSink(32, 32)
	c := New(32, 32, sink)
	c.Redraw()
	bg := newLayer(t, c, solid(32, 32, vga.Green), 32, 32, NoKey)
	win := newLayer(t, c, solid(10, 10, vga.Red), 10, 10, NoKey)
	c.UpDown(bg, 0)
	c.Slide(win, 5, 5)
	c.UpDown(win, 1)

	c.SetBuf(win, solid(4, 4, vga.White), 4, 4, NoKey)
	info := c.Layer(win)
	assert.Equal(t, 5, info.X)
	assert.Equal(t, 1, info.Z)
	checkConsistent(t, c, sink)
}

func TestRandomOperationsStayConsistent(t *testing.T) {
	const (
		w, h = 40, 30
		ops  = 1500
	)
	rng := rand.New(rand.NewSource(1))
	sink := newRecordingSink(w, h)
	c := New(w, h, sink, WithBackdrop(vga.DarkGrey))
	c.Redraw()

	colors := []vga.Color{vga.Black, vga.Cyan, vga.White, vga.Red}
	var live []LayerID

	randomBuf := func(lw, lh int) []vga.Color {
		buf := make([]vga.Color, lw*lh)
		for i := range buf {
			buf[i] = colors[rng.Intn(len(colors))]
		}
		return buf
	}

	for i := 0; i < ops; i++ {
		switch op := rng.Intn(8); {
		case op == 0 || len(live) == 0:
			id, err := c.Alloc()
			if err != nil {
				continue
			}
			lw, lh := rng.Intn(20), rng.Intn(15)
			key := NoKey
			if rng.Intn(2) == 0 {
				key = Key(vga.Cyan)
			}
			c.SetBuf(id, randomBuf(lw, lh), lw, lh, key)
			c.Slide(id, rng.Intn(w+10)-5, rng.Intn(h+10)-5)
			live = append(live, id)
		case op == 1:
			idx := rng.Intn(len(live))
			c.Free(live[idx])
			live = append(live[:idx], live[idx+1:]...)
		case op <= 3:
			c.UpDown(live[rng.Intn(len(live))], rng.Intn(c.ZMax()+4)-1)
		case op == 4:
			c.Slide(live[rng.Intn(len(live))], rng.Intn(w+10)-5, rng.Intn(h+10)-5)
		case op == 5:
			id := live[rng.Intn(len(live))]
			c.SlideByDiff(id, rng.Intn(21)-10, rng.Intn(21)-10, c.Layer(id).Width, c.Layer(id).Height)
		case op == 6:
			id := live[rng.Intn(len(live))]
			l := &c.layers[id]
			if l.w == 0 || l.h == 0 {
				continue
			}
			x, y := rng.Intn(l.w), rng.Intn(l.h)
			cur := l.buf[y*l.w+x]
			if l.key.Matches(cur) {
				continue
			}
			next := vga.Red
			if cur == vga.Red {
				next = vga.White
			}
			l.buf[y*l.w+x] = next
			c.Refresh(id, image.Rect(x, y, x+1, y+1))
		default:
			id := live[rng.Intn(len(live))]
			lw, lh := rng.Intn(20), rng.Intn(15)
			c.SetBuf(id, randomBuf(lw, lh), lw, lh, c.Layer(id).Key)
		}
		checkConsistent(t, c, sink)
	}
}
