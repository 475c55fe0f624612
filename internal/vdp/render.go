package vdp

const (
	spritesPerLineH32 = 16
	spritesPerLineH40 = 20
	pixelsPerLineH32  = 256
	pixelsPerLineH40  = 320

	spriteTableEntries = 80
)

type nametableEntry struct {
	priority bool
	palette  uint8
	vflip    bool
	hflip    bool
	tile     uint16
}

func decodeNametableEntry(word uint16) nametableEntry {
	return nametableEntry{
		priority: word&0x8000 != 0,
		palette:  uint8((word >> 13) & 0x3),
		vflip:    word&0x1000 != 0,
		hflip:    word&0x0800 != 0,
		tile:     word & 0x07FF,
	}
}

// tilePixel returns the 4-bit color index for column col (0-7), row row
// (0-7) of tile, honoring flip.
func (v *VDP) tilePixel(e nametableEntry, col, row int) uint8 {
	if e.hflip {
		col = 7 - col
	}
	if e.vflip {
		row = 7 - row
	}
	base := int(e.tile)*32 + row*4 + col/2
	b := v.VRAM[base&(vramSize-1)]
	if col&1 == 0 {
		return b >> 4
	}
	return b & 0xF
}

// planePixel samples a scrollable 16-color-per-palette plane (A or B) at
// screen column x on scanline y, returning the color index and whether
// it is non-transparent, plus priority/palette for priority resolution.
func (v *VDP) planePixel(nameTableBase uint16, hScroll, vScroll int, x, y int) (idx uint8, e nametableEntry) {
	w, h := v.PlaneDimensions()
	px := (x - hScroll) & (w*8 - 1)
	py := (y + vScroll) & (h*8 - 1)
	tileX, tileY := px/8, py/8
	addr := nameTableBase + uint16((tileY*w+tileX)*2)
	word := uint16(v.VRAM[addr&(vramSize-1)])<<8 | uint16(v.VRAM[(addr+1)&(vramSize-1)])
	e = decodeNametableEntry(word)
	idx = v.tilePixel(e, px&7, py&7)
	return
}

func (v *VDP) scrollFor(plane int, line int) int {
	// Horizontal scroll table: 2 words per line (plane A, plane B) at
	// HScrollBase, interpreted in full-screen mode as a single entry at
	// line 0 when Mode3's scroll-mode bits select that mode.
	mode := v.Get(RegMode3) & 0x3
	row := 0
	if mode == 0x2 || mode == 0x3 {
		row = line
	}
	base := v.HScrollBase() + uint16(row*4) + uint16(plane*2)
	word := uint16(v.VRAM[base&(vramSize-1)])<<8 | uint16(v.VRAM[(base+1)&(vramSize-1)])
	return -int(int16(word<<6) >> 6) // 10-bit scroll value, sign-extended
}

func (v *VDP) vscrollFor(plane int) int {
	a := plane * 2
	word := uint16(v.VSRAM[a%vsramSize])<<8 | uint16(v.VSRAM[(a+1)%vsramSize])
	return int(word & 0x3FF)
}

func (v *VDP) inWindow(x, y int) bool {
	wh := v.WindowX()
	wv := v.WindowY()
	rightHalf := wh&0x80 != 0
	bottomHalf := wv&0x80 != 0
	wx := int(wh&0x1F) * 16
	wy := int(wv&0x1F) * 8

	if wx > 0 {
		if rightHalf && x >= wx {
			return true
		}
		if !rightHalf && x < wx {
			return true
		}
	}
	if wy > 0 {
		if bottomHalf && y >= wy {
			return true
		}
		if !bottomHalf && y < wy {
			return true
		}
	}
	return false
}

type spritePixel struct {
	idx      uint8
	priority bool
	palette  uint8
	present  bool
}

// shadeMode is the per-pixel shadow/highlight resolution.
type shadeMode uint8

const (
	shadeNormal shadeMode = iota
	shadeShadow
	shadeHighlight
)

// renderScanline composites one scanline into v.frame: plane B under
// plane A (replaced by the window inside the window region) under
// sprites, with per-layer priority bits promoting a layer above
// higher-stacked ones, then shadow/highlight modulation when Mode4
// enables it.
func (v *VDP) renderScanline(line int) {
	if line < 0 || line >= len(v.frame) {
		return
	}

	width := pixelsPerLineH32
	spriteLimit := spritesPerLineH32
	if v.H40Mode() {
		width = pixelsPerLineH40
		spriteLimit = spritesPerLineH40
	}

	bg := v.decodeColor(v.BackgroundPalette())
	var row [320]Color
	for i := 0; i < width; i++ {
		row[i] = bg
	}

	if !v.DisplayEnabled() {
		copy(v.frame[line][:width], row[:width])
		v.disabledPixelsThisLine += width
		return
	}

	hScrollA := v.scrollFor(0, line)
	hScrollB := v.scrollFor(1, line)
	vScrollA := v.vscrollFor(0)
	vScrollB := v.vscrollFor(1)

	sprites := v.scanSprites(line, spriteLimit, width)
	shadowHighlight := v.ShadowHighlightEnabled()

	for x := 0; x < width; x++ {
		var aIdx uint8
		var aEnt nametableEntry
		if v.inWindow(x, line) {
			aIdx, aEnt = v.planePixel(v.WindowNameTableBase(), 0, 0, x, line)
		} else {
			aIdx, aEnt = v.planePixel(v.PlaneANameTableBase(), hScrollA, vScrollA, x, line)
		}
		bIdx, bEnt := v.planePixel(v.PlaneBNameTableBase(), hScrollB, vScrollB, x, line)
		sp := sprites[x]

		shade := shadeNormal
		if shadowHighlight && !aEnt.priority && !bEnt.priority {
			shade = shadeShadow
		}

		spritePresent := sp.present && sp.idx != 0
		if shadowHighlight && spritePresent && sp.palette == 3 {
			// Palette-3 colors 14/15 are operators, not pixels: they
			// modulate whatever lies beneath instead of drawing.
			switch sp.idx {
			case 14:
				shade = shadeHighlight
				spritePresent = false
			case 15:
				shade = shadeShadow
				spritePresent = false
			}
		}

		type layer struct {
			idx      uint8
			pal      uint8
			priority bool
			present  bool
		}
		layers := []layer{
			{sp.idx, sp.palette, sp.priority, spritePresent},
			{aIdx, aEnt.palette, aEnt.priority, aIdx != 0},
			{bIdx, bEnt.palette, bEnt.priority, bIdx != 0},
		}

		var chosen *layer
		for p := 1; p >= 0; p-- {
			for i := range layers {
				if layers[i].present && boolToInt(layers[i].priority) == p {
					chosen = &layers[i]
					break
				}
			}
			if chosen != nil {
				break
			}
		}

		if chosen == nil {
			row[x] = v.shadeColor(v.BackgroundPalette(), shade)
			continue
		}
		// A winning high-priority sprite pixel is exempt from shadowing.
		if shadowHighlight && chosen == &layers[0] && chosen.priority {
			shade = shadeNormal
		}
		row[x] = v.shadeColor(chosen.pal*16+chosen.idx, shade)
	}

	copy(v.frame[line][:width], row[:width])
}

func (v *VDP) shadeColor(index uint8, shade shadeMode) Color {
	switch shade {
	case shadeShadow:
		return v.shadowColor(index)
	case shadeHighlight:
		return v.highlightColor(index)
	default:
		return v.decodeColor(index)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// scanSprites builds the per-pixel sprite layer for one scanline, walking
// the sprite attribute table's link chain and honoring the per-line
// sprite and pixel budgets, the X=0 masking rule, and the overflow and
// collision status bits.
func (v *VDP) scanSprites(line int, spriteLimit, width int) [320]spritePixel {
	var out [320]spritePixel
	base := v.SpriteTableBase()

	link := uint16(0)
	walked := 0
	onLine := 0
	pixelBudget := width
	// sprite-disable quirk: mid-line display disabling shortens the
	// following line's sprite-fetch window roughly proportionally. The +8
	// is an empirical correction.
	if v.disabledPixelsLastLine > 0 {
		pixelBudget -= (v.disabledPixelsLastLine + 8) / 2
		if pixelBudget < 0 {
			pixelBudget = 0
		}
	}

	masked := false
	for walked < spriteTableEntries {
		walked++

		addr := base + link*8
		y := (uint16(v.VRAM[addr&(vramSize-1)])<<8 | uint16(v.VRAM[(addr+1)&(vramSize-1)])) & 0x3FF
		sizeByte := v.VRAM[(addr+2)&(vramSize-1)]
		nextLink := uint16(v.VRAM[(addr+3)&(vramSize-1)]) & 0x7F
		attrWord := uint16(v.VRAM[(addr+4)&(vramSize-1)])<<8 | uint16(v.VRAM[(addr+5)&(vramSize-1)])
		xWord := (uint16(v.VRAM[(addr+6)&(vramSize-1)])<<8 | uint16(v.VRAM[(addr+7)&(vramSize-1)])) & 0x1FF

		hTiles := int((sizeByte>>2)&0x3) + 1
		vTiles := int(sizeByte&0x3) + 1
		spriteY := int(y) - 128
		spriteX := int(xWord) - 128

		if line >= spriteY && line < spriteY+vTiles*8 {
			onLine++
			if onLine > spriteLimit {
				v.status |= statusSpriteOvf
				break
			}

			// An X=0 sprite masks every lower-priority (later-linked)
			// sprite on the line, unless it is itself the first sprite
			// found on the line.
			if xWord == 0 {
				if onLine > 1 {
					masked = true
				}
			} else if !masked {
				v.drawSpriteLine(&out, line, spriteY, spriteX, hTiles, vTiles, attrWord, width, &pixelBudget)
			}
		}

		if nextLink == 0 {
			break
		}
		link = nextLink
	}

	return out
}

func (v *VDP) drawSpriteLine(out *[320]spritePixel, line, spriteY, spriteX, hTiles, vTiles int, attrWord uint16, width int, pixelBudget *int) {
	ent := decodeNametableEntry(attrWord)
	rowInSprite := line - spriteY
	if ent.vflip {
		rowInSprite = vTiles*8 - 1 - rowInSprite
	}
	tileRow := rowInSprite / 8
	pxRow := rowInSprite % 8

	for tc := 0; tc < hTiles; tc++ {
		col := tc
		if ent.hflip {
			col = hTiles - 1 - tc
		}
		tileIdx := ent.tile + uint16(col)*uint16(vTiles) + uint16(tileRow)
		tileEnt := nametableEntry{hflip: ent.hflip, tile: tileIdx}
		for px := 0; px < 8; px++ {
			sx := spriteX + tc*8 + px
			if sx < 0 || sx >= width {
				continue
			}
			if *pixelBudget <= 0 {
				return
			}
			*pixelBudget--
			colorIdx := v.tilePixel(tileEnt, px, pxRow)
			if colorIdx == 0 {
				continue
			}
			if out[sx].present && out[sx].idx != 0 {
				v.status |= statusCollision
				continue
			}
			out[sx] = spritePixel{idx: colorIdx, priority: ent.priority, palette: ent.palette, present: true}
		}
	}
}
