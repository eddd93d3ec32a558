// Package numbering implementa la numeración de trabajos, cotizaciones y
// facturas, y el contador de revisiones de cotización.
//
// Formatos:
//
//	Trabajo:    {PREFIJO}-{CODIGO-EMPRESA}-{YY}-{MM}-{INDICE}   ej. JCP-CLC-25-08-3
//	Cotización: {JOB-NO}-R{REVISION}                            ej. JCP-CLC-25-08-3-R1.1
//	Factura:    INV-{JOB-NO}                                    ej. INV-JCP-CLC-25-08-3
package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// Revision es un contador de revisión en décimas enteras: 10 = "1.0", 11 = "1.1".
// Se evita a propósito la aritmética en coma flotante: sumar 0.1 repetidamente
// sobre float64 acumula error binario y termina produciendo etiquetas como "1.2999...".
type Revision int

// RevisionInitial es la primera revisión de toda cotización nueva ("1.0").
const RevisionInitial Revision = 10

// Bump devuelve la revisión siguiente (+0.1 exacto).
func (r Revision) Bump() Revision { return r + 1 }

// Label formatea la revisión con un decimal: 10 -> "1.0", 23 -> "2.3".
func (r Revision) Label() string {
	return fmt.Sprintf("%d.%d", int(r)/10, int(r)%10)
}

// ParseRevision interpreta una etiqueta "N.D" y devuelve la revisión en décimas.
// Acepta también enteros sin decimal ("2" -> 20).
func ParseRevision(label string) (Revision, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, fmt.Errorf("revisión vacía")
	}
	whole, frac, ok := strings.Cut(label, ".")
	n, err := strconv.Atoi(whole)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("revisión inválida: %q", label)
	}
	if !ok {
		return Revision(n * 10), nil
	}
	if len(frac) != 1 {
		return 0, fmt.Errorf("revisión inválida (se espera un solo decimal): %q", label)
	}
	d, err := strconv.Atoi(frac)
	if err != nil {
		return 0, fmt.Errorf("revisión inválida: %q", label)
	}
	return Revision(n*10 + d), nil
}

// Triple identifica una cotización a efectos de revisión: número, cliente y
// proyecto. La comparación es igualdad exacta de strings (sensible a mayúsculas).
type Triple struct {
	QuoNo       string
	ClientName  string
	ProjectName string
}

// Equal compara los tres campos con igualdad exacta.
func (t Triple) Equal(o Triple) bool {
	return t.QuoNo == o.QuoNo && t.ClientName == o.ClientName && t.ProjectName == o.ProjectName
}

// NextRevision decide la revisión del payload entrante. Si el triple coincide
// exactamente con el anterior, la cotización es "la misma, editada" y la revisión
// sube una décima; cualquier diferencia la convierte en cotización nueva y la
// revisión vuelve a 1.0. prev == nil significa que no hay cotización anterior.
func NextRevision(prev *Triple, prevRev Revision, incoming Triple) Revision {
	if prev != nil && prev.Equal(incoming) {
		return prevRev.Bump()
	}
	return RevisionInitial
}
