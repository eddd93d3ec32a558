// Package textnorm normaliza nombres para búsqueda y deduplicación.
//
// Los nombres de empresa llegan escritos de formas distintas según el origen:
// el chat acepta caracteres de ancho completo (ＡＢＣ工程) y variantes de
// composición Unicode. Sin normalizar, el get-or-create crearía duplicados.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize devuelve la forma canónica de un nombre: NFKC, plegado de ancho
// (ＡＢＣ -> ABC), espacios colapsados y minúsculas.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = width.Fold.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}
