package fusion

import (
	"crypto/sha256"
	"encoding/hex"
)

// ImageHash calcula el hash de contenido de los bytes crudos de la imagen.
// Es la llave del cache de consenso: misma imagen, misma llave.
func ImageHash(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}
