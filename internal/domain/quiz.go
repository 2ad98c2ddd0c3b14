package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuizQuestionCount es el largo fijo de una submission completa.
const QuizQuestionCount = 5

// StyleCategories es el set configurado de categorias de estilo, en orden de
// creacion. El orden importa: es la llave secundaria del desempate
// determinista en el builder de perfiles.
var StyleCategories = []string{
	"Bohemian",
	"Streetwear",
	"Classic",
	"Feminine",
	"Edgy",
	"Athleisure",
	"Vintage",
	"Glamorous",
	"Eclectic",
	"Minimalist",
}

// QuizItem es un item seleccionable del catalogo, pre-etiquetado con su
// categoria de estilo. Solo lectura desde el core.
type QuizItem struct {
	ID            uuid.UUID `json:"id"`
	QuestionID    string    `json:"question_id"`
	Label         string    `json:"label"`
	StyleCategory string    `json:"style_category"`
	ImageURL      string    `json:"image_url,omitempty"`
}

// QuizSelection es una eleccion del usuario: una por pregunta, con la
// categoria que traia el item elegido. El orden de la secuencia no afecta
// el scoring.
type QuizSelection struct {
	QuestionID    string    `json:"question_id"`
	ChosenItemID  uuid.UUID `json:"chosen_item_id"`
	StyleCategory string    `json:"style_category"`
}

// StyleProfile es la distribucion ponderada de estilos derivada de una
// submission. Se crea una por submission; el usuario conserva historial y el
// mas reciente es el perfil vigente.
type StyleProfile struct {
	ID             uuid.UUID          `json:"id"`
	UserID         uuid.UUID          `json:"user_id"`
	Scores         map[string]float64 `json:"scores"`
	PrimaryStyle   string             `json:"primary_style"`
	SecondaryStyle *string            `json:"secondary_style,omitempty"`
	Confidence     float64            `json:"confidence"`
	IsHybrid       bool               `json:"is_hybrid"`
	StyleMessage   string             `json:"style_message"`
	CreatedAt      time.Time          `json:"created_at"`
}
