package tui

// brailleBits maps a micro pixel (column, row) inside a cell to its dot in
// the U+2800 block.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// brailleBuf is a w x h cell canvas with 2x4 micro pixels per cell.
type brailleBuf struct {
	w, h int
	mask []uint8
}

func newBrailleBuf(w, h int) *brailleBuf {
	return &brailleBuf{w: w, h: h, mask: make([]uint8, w*h)}
}

func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= b.w || cy >= b.h {
		return
	}
	b.mask[cy*b.w+cx] |= brailleBits[mx%2][my%4]
}

// dot draws a 2x2 micro pixel marker anchored at mx, my.
func (b *brailleBuf) dot(mx, my int) {
	b.setPixel(mx, my)
	b.setPixel(mx+1, my)
	b.setPixel(mx, my+1)
	b.setPixel(mx+1, my+1)
}

// at returns the braille rune for a cell, or 0 when the cell is blank.
func (b *brailleBuf) at(cx, cy int) rune {
	m := b.mask[cy*b.w+cx]
	if m == 0 {
		return 0
	}
	return rune(0x2800 + int(m))
}
