package quotation

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// QuotationTxRunner ejecuta una función dentro de una transacción que incluye
// repos de cotizaciones y trabajos: crear una revisión y marcar el estado de
// cotización del trabajo deben confirmar o deshacerse juntos.
type QuotationTxRunner interface {
	RunQuotation(ctx context.Context, fn func(
		quoRepo repository.QuotationRepository,
		jobRepo repository.JobRepository,
	) error) error
}

// PDFGenerator genera la representación PDF de una cotización.
type PDFGenerator interface {
	GenerateQuotationPDF(ctx context.Context, quo *entity.Quotation, client *entity.Company) ([]byte, error)
}
