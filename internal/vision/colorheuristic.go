package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sort"

	"stylist-ai/internal/domain"
	"stylist-ai/internal/scoring"
)

// ColorHeuristic es la fuente local: cuantiza pixeles a una paleta con
// nombre y deriva color dominante y patron. No llama a ningun servicio.
type ColorHeuristic struct {
	// minShare es la fraccion minima de pixeles para reportar un color.
	minShare float64
}

// NewColorHeuristic crea la fuente con el share minimo default del 5%.
func NewColorHeuristic() *ColorHeuristic {
	return &ColorHeuristic{minShare: 0.05}
}

func (h *ColorHeuristic) Name() domain.SourceName {
	return domain.SourceColorHeuristic
}

// Analyze decodifica la imagen, muestrea pixeles en una grilla y reporta
// features color:* con confianza = share de pixeles, mas un feature
// pattern:* segun cuantos colores componen la prenda. El color de fondo
// (mayoria de las esquinas) se suprime del conteo.
func (h *ColorHeuristic) Analyze(ctx context.Context, imageData []byte) (domain.FeatureBag, error) {
	if err := ctx.Err(); err != nil {
		return domain.FeatureBag{}, err
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return domain.FeatureBag{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return domain.FeatureBag{}, fmt.Errorf("empty image")
	}

	background := cornerColor(img)

	// Grilla de muestreo: a lo sumo ~96x96 muestras por imagen.
	stepX := bounds.Dx()/96 + 1
	stepY := bounds.Dy()/96 + 1

	counts := make(map[string]int)
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			name := colorName(img.At(x, y).RGBA())
			if name == "unknown" || name == background {
				continue
			}
			counts[name]++
			total++
		}
	}

	features := make(map[string]float64)
	if total == 0 {
		// Imagen de un solo color (o todo fondo): reporta el fondo como
		// color dominante antes que no reportar nada.
		if background != "unknown" {
			features[domain.NamespaceColor+":"+background] = 0.6
		}
		return domain.FeatureBag{Source: domain.SourceColorHeuristic, Features: features}, nil
	}

	type share struct {
		name string
		frac float64
	}
	var shares []share
	for name, count := range counts {
		frac := float64(count) / float64(total)
		if frac >= h.minShare {
			shares = append(shares, share{name: name, frac: frac})
		}
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].frac != shares[j].frac {
			return shares[i].frac > shares[j].frac
		}
		return shares[i].name < shares[j].name
	})

	for _, s := range shares {
		features[domain.NamespaceColor+":"+s.name] = scoring.Clamp01(s.frac)
	}

	if len(shares) > 0 {
		switch {
		case shares[0].frac > 0.75:
			features[domain.NamespacePattern+":monochrome"] = scoring.Clamp01(shares[0].frac)
		case len(shares) >= 4:
			features[domain.NamespacePattern+":multicolor"] = 0.7
		}
	}

	return domain.FeatureBag{
		Source:   domain.SourceColorHeuristic,
		Features: features,
	}, nil
}

// cornerColor devuelve el color con mayoria entre las cuatro esquinas; es la
// mejor apuesta barata para el fondo de una foto de prenda.
func cornerColor(img image.Image) string {
	b := img.Bounds()
	corners := []image.Point{
		{b.Min.X, b.Min.Y},
		{b.Max.X - 1, b.Min.Y},
		{b.Min.X, b.Max.Y - 1},
		{b.Max.X - 1, b.Max.Y - 1},
	}
	counts := make(map[string]int)
	for _, p := range corners {
		counts[colorName(img.At(p.X, p.Y).RGBA())]++
	}
	best, bestCount := "unknown", 0
	for name, count := range counts {
		if count > bestCount || (count == bestCount && name < best) {
			best, bestCount = name, count
		}
	}
	if bestCount < 3 {
		return "unknown"
	}
	return best
}

// colorName clasifica un pixel RGBA de 16 bits por canal a un nombre de la
// paleta estandar del sistema.
func colorName(r16, g16, b16, _ uint32) string {
	r := int(r16 >> 8)
	g := int(g16 >> 8)
	b := int(b16 >> 8)

	total := r + g + b
	switch {
	case total < 50:
		return "black"
	case total > 650:
		return "white"
	}

	if abs(r-g) < 30 && abs(g-b) < 30 && abs(r-b) < 30 {
		if total < 300 {
			return "gray"
		}
		return "light-gray"
	}

	maxVal := max3(r, g, b)
	switch {
	case maxVal == r && r > g+50 && r > b+50:
		if g > 100 {
			if g > b {
				return "orange"
			}
			return "pink"
		}
		if b > 100 {
			return "purple"
		}
		return "red"
	case maxVal == g && g > r+50 && g > b+50:
		if r > 100 {
			if r > b {
				return "yellow"
			}
			return "lime"
		}
		return "green"
	case maxVal == b && b > r+50 && b > g+50:
		if r > 100 {
			return "purple"
		}
		if g > 100 {
			return "teal"
		}
		if total < 400 {
			return "navy"
		}
		return "blue"
	}

	switch {
	case r > 150 && g > 150 && b < 100:
		return "yellow"
	case r > 150 && b > 150 && g < 100:
		return "magenta"
	case g > 150 && b > 150 && r < 100:
		return "cyan"
	case r > 100 && g > 50 && b < 50:
		if g < 100 {
			return "orange"
		}
		return "yellow"
	case r > 50 && g > 100 && b < 50:
		return "lime"
	case r < 50 && g > 100 && b > 50:
		return "teal"
	case r < 100 && g < 100 && b > 150:
		if total < 400 {
			return "navy"
		}
		return "blue"
	case r > 100 && g < 100 && b < 100:
		if total < 300 {
			return "maroon"
		}
		return "red"
	case r > 100 && g > 70 && b > 70 && total < 400:
		return "brown"
	}

	return "unknown"
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max3(a, b, c int) int {
	if a >= b && a >= c {
		return a
	}
	if b >= c {
		return b
	}
	return c
}
