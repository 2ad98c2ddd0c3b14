package domain

// Role es un slot del outfit a llenar con un garment del inventario.
type Role string

const (
	RoleTop       Role = "top"
	RoleOuterwear Role = "outerwear"
	RoleBottom    Role = "bottom"
	RoleShoes     Role = "shoes"
	RoleAccessory Role = "accessory"
)

// MatchOrder es el orden fijo de scoring por rol. El color harmony de roles
// posteriores depende de los colores ya comprometidos por roles anteriores,
// asi que el orden no es negociable.
var MatchOrder = []Role{RoleTop, RoleOuterwear, RoleBottom, RoleShoes, RoleAccessory}

// OutfitTarget describe el item deseado para un rol, segun el generador.
type OutfitTarget struct {
	Type              string    `json:"type"`
	Color             string    `json:"color,omitempty"`
	ColorAlternatives []string  `json:"color_alternatives,omitempty"`
	Features          []string  `json:"features"`
	Embedding         []float32 `json:"embedding,omitempty"`
}

// OutfitRequestSpec es el target estructurado parseado de la respuesta del
// generador. Accessories es lista; el resto singular o ausente.
type OutfitRequestSpec struct {
	Top         *OutfitTarget  `json:"top,omitempty"`
	Bottom      *OutfitTarget  `json:"bottom,omitempty"`
	Shoes       *OutfitTarget  `json:"shoes,omitempty"`
	Outerwear   *OutfitTarget  `json:"outerwear,omitempty"`
	Accessories []OutfitTarget `json:"accessories,omitempty"`
	Occasion    string         `json:"occasion,omitempty"`
	Description string         `json:"description,omitempty"`
}

// TargetsFor devuelve los targets del rol dado; vacio si el rol no se pidio.
func (s *OutfitRequestSpec) TargetsFor(role Role) []OutfitTarget {
	switch role {
	case RoleTop:
		if s.Top != nil {
			return []OutfitTarget{*s.Top}
		}
	case RoleBottom:
		if s.Bottom != nil {
			return []OutfitTarget{*s.Bottom}
		}
	case RoleShoes:
		if s.Shoes != nil {
			return []OutfitTarget{*s.Shoes}
		}
	case RoleOuterwear:
		if s.Outerwear != nil {
			return []OutfitTarget{*s.Outerwear}
		}
	case RoleAccessory:
		return s.Accessories
	}
	return nil
}

// ScoreBreakdown expone los cuatro componentes y el score combinado,
// todos en [0,1].
type ScoreBreakdown struct {
	Semantic                float64 `json:"semantic"`
	StyleConsistency        float64 `json:"style_consistency"`
	CategoryAppropriateness float64 `json:"category_appropriateness"`
	ColorHarmony            float64 `json:"color_harmony"`
	Overall                 float64 `json:"overall"`
}

// RoleMatch es la eleccion para un rol. Garment nil significa rol sin match,
// que es un resultado valido (closet incompleto), no un error.
type RoleMatch struct {
	Role      Role           `json:"role"`
	Garment   *GarmentRecord `json:"garment,omitempty"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// Matched indica si el rol quedo cubierto.
func (m RoleMatch) Matched() bool {
	return m.Garment != nil
}

// MatchResult es el resultado efimero de un pase completo de matching.
// OverallScore promedia solo los roles con match; los faltantes se reportan
// aparte para que el caller pueda sugerir compras o sustituciones.
type MatchResult struct {
	Matches      []RoleMatch `json:"matches"`
	MissingRoles []Role      `json:"missing_roles,omitempty"`
	OverallScore float64     `json:"overall_score"`
}
