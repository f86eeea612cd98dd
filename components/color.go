package components

// Color is an exact 8-bit RGB value. Palette colors are compared with ==,
// so a Color must never be recomputed through floating point.
type Color struct {
	R, G, B uint8
}

// White is pure white.
var White = Color{R: 0xFF, G: 0xFF, B: 0xFF}

// Hex returns the packed 0xRRGGBB value.
func (c Color) Hex() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Floats returns the color as normalized float components.
func (c Color) Floats() (r, g, b float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
}

// Palette holds the named colors the contrast rules compare against.
type Palette struct {
	RedVelvet    Color
	GoldMetallic Color
	GoldBright   Color
	EmeraldDeep  Color
	SilverMist   Color
	RoyalBlue    Color
	CandyWhite   Color
	CandyRed     Color
	RibbonRed    Color
	WhiteGlow    Color
	SnowWhite    Color

	byName map[string]Color
}

// NewPalette builds a palette from named colors. Well-known names fill the
// typed fields; every name stays available through Lookup.
func NewPalette(named map[string]Color) Palette {
	p := Palette{byName: make(map[string]Color, len(named))}
	for name, c := range named {
		p.byName[name] = c
	}
	p.RedVelvet = named["red_velvet"]
	p.GoldMetallic = named["gold_metallic"]
	p.GoldBright = named["gold_bright"]
	p.EmeraldDeep = named["emerald_deep"]
	p.SilverMist = named["silver_mist"]
	p.RoyalBlue = named["royal_blue"]
	p.CandyWhite = named["candy_white"]
	p.CandyRed = named["candy_red"]
	p.RibbonRed = named["ribbon_red"]
	p.WhiteGlow = named["white_glow"]
	p.SnowWhite = named["snow_white"]
	return p
}

// Lookup returns the named color.
func (p Palette) Lookup(name string) (Color, bool) {
	c, ok := p.byName[name]
	return c, ok
}
