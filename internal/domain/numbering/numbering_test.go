package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Números de trabajo
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatJobNo_Design(t *testing.T) {
	fecha := time.Date(2025, time.August, 30, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "JCP-CLC-25-08-3", FormatJobNo("DESIGN", "CLC", fecha, 3))
}

func TestFormatJobNo_InspectionPorDefecto(t *testing.T) {
	fecha := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	// Cualquier tipo que no sea DESIGN usa el prefijo de inspección
	assert.Equal(t, "JICP-ABC-25-01-1", FormatJobNo("inspection", "ABC", fecha, 1))
	assert.Equal(t, "JICP-ABC-25-01-1", FormatJobNo("", "ABC", fecha, 1))
}

func TestPrefixFor_IgnoraMayusculasYEspacios(t *testing.T) {
	assert.Equal(t, PrefixDesign, PrefixFor(" design "))
	assert.Equal(t, PrefixInspection, PrefixFor("INSPECTION"))
}

func TestQuotationNo(t *testing.T) {
	assert.Equal(t, "JCP-CLC-25-08-3-R1.0", QuotationNo("JCP-CLC-25-08-3", RevisionInitial))
	assert.Equal(t, "JCP-CLC-25-08-3-R1.1", QuotationNo("JCP-CLC-25-08-3", RevisionInitial.Bump()))
}

func TestInvoiceNo(t *testing.T) {
	assert.Equal(t, "INV-JICP-ABC-25-01-1", InvoiceNo("JICP-ABC-25-01-1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Revisiones
// ──────────────────────────────────────────────────────────────────────────────

func TestRevision_LabelYBump(t *testing.T) {
	r := RevisionInitial
	assert.Equal(t, "1.0", r.Label())
	r = r.Bump()
	assert.Equal(t, "1.1", r.Label())

	// Tras muchas subidas no hay deriva: 1.0 + 25×0.1 = 3.5 exacto
	r = RevisionInitial
	for i := 0; i < 25; i++ {
		r = r.Bump()
	}
	assert.Equal(t, "3.5", r.Label())
}

func TestParseRevision(t *testing.T) {
	r, err := ParseRevision("1.1")
	require.NoError(t, err)
	assert.Equal(t, Revision(11), r)

	r, err = ParseRevision("2")
	require.NoError(t, err)
	assert.Equal(t, Revision(20), r)

	_, err = ParseRevision("")
	assert.Error(t, err)
	_, err = ParseRevision("1.25")
	assert.Error(t, err)
	_, err = ParseRevision("abc")
	assert.Error(t, err)
}

func TestNextRevision_TripleIgualIncrementa(t *testing.T) {
	prev := Triple{QuoNo: "JCP-CLC-25-08-1-R1.0", ClientName: "ACME", ProjectName: "Roof"}
	got := NextRevision(&prev, Revision(10), prev)
	assert.Equal(t, "1.1", got.Label())
}

func TestNextRevision_TripleDistintoReinicia(t *testing.T) {
	prev := Triple{QuoNo: "JCP-CLC-25-08-1-R1.0", ClientName: "ACME", ProjectName: "Roof"}

	// Cambia el proyecto → nueva cotización en 1.0
	in := Triple{QuoNo: prev.QuoNo, ClientName: "ACME", ProjectName: "Wall"}
	assert.Equal(t, RevisionInitial, NextRevision(&prev, Revision(13), in))

	// La comparación es sensible a mayúsculas
	in = Triple{QuoNo: prev.QuoNo, ClientName: "acme", ProjectName: "Roof"}
	assert.Equal(t, RevisionInitial, NextRevision(&prev, Revision(13), in))
}

func TestNextRevision_SinAnteriorEmpiezaEnUnoPuntoCero(t *testing.T) {
	in := Triple{QuoNo: "X", ClientName: "ACME", ProjectName: "Roof"}
	assert.Equal(t, RevisionInitial, NextRevision(nil, 0, in))
}
