// Package scoring agrupa las primitivas numericas compartidas por el motor
// de fusion y el matcher de outfits. Todo es puro, sin I/O.
package scoring

import "math"

// Clamp01 fuerza un valor al rango [0,1]. NaN e infinitos colapsan a 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, -1) {
		return 0
	}
	if math.IsInf(v, 1) || v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// CosineSim calcula similitud coseno entre dos vectores y la mapea a [0,1]
// con (cos+1)/2. Vectores vacios, de largo distinto o de norma cero dan 0.
func CosineSim(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return Clamp01((cos + 1) / 2)
}

// Jaccard calcula el overlap entre dos conjuntos de features expresados como
// mapas nombre->peso. Usa solo las llaves; ambos vacios devuelve 0.
func Jaccard(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for name := range a {
		if _, ok := b[name]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return Clamp01(float64(inter) / float64(union))
}

// SetOverlap calcula la fraccion de llaves de target presentes en have.
// Es el score asimetrico que usa el matcher cuando no hay embedding.
func SetOverlap(have map[string]float64, target []string) float64 {
	if len(target) == 0 {
		return 0
	}
	hits := 0
	for _, name := range target {
		if _, ok := have[name]; ok {
			hits++
		}
	}
	return Clamp01(float64(hits) / float64(len(target)))
}

// WeightedSum combina componentes con sus pesos y normaliza por la suma de
// pesos usados. Componentes y pesos deben alinearse por indice; pesos <= 0
// se ignoran. Sin pesos validos devuelve 0.
func WeightedSum(values, weights []float64) float64 {
	if len(values) != len(weights) {
		return 0
	}
	var sum, wsum float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		sum += values[i] * w
		wsum += w
	}
	if wsum == 0 {
		return 0
	}
	return Clamp01(sum / wsum)
}

// PropagateConfidence combina confianzas independientes de varias fuentes:
// 1 - prod(1 - c_i). Mas fuentes de acuerdo suben la confianza final sin
// salirse de [0,1].
func PropagateConfidence(confidences ...float64) float64 {
	if len(confidences) == 0 {
		return 0
	}
	rest := 1.0
	for _, c := range confidences {
		rest *= 1 - Clamp01(c)
	}
	return Clamp01(1 - rest)
}
