package randomizer

// BoxScatter places points uniformly inside a box centred on the given point
type BoxScatter struct {
	src   Source
	halfW float64
	halfH float64
}

// NewBoxScatter creates a uniform scatter of the given full width and height
func NewBoxScatter(src Source, width, height float64) *BoxScatter {
	return &BoxScatter{
		src:   src,
		halfW: width / 2,
		halfH: height / 2,
	}
}

// Around implements Scatter
func (b *BoxScatter) Around(cx, cy float64) (float64, float64) {
	x := Uniform(b.src, cx-b.halfW, cx+b.halfW)
	y := Uniform(b.src, cy-b.halfH, cy+b.halfH)
	return clampUnit(x), clampUnit(y)
}
