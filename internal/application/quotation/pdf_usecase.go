package quotation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// PDFUseCase genera el PDF de una cotización persistida.
type PDFUseCase struct {
	quoRepo     repository.QuotationRepository
	companyRepo repository.CompanyRepository
	generator   PDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(quoRepo repository.QuotationRepository, companyRepo repository.CompanyRepository, generator PDFGenerator) *PDFUseCase {
	return &PDFUseCase{quoRepo: quoRepo, companyRepo: companyRepo, generator: generator}
}

// Generate produce los bytes del PDF y el nombre de archivo sugerido
// ({quo_no}_{cliente}_{yyyymmdd}.pdf, con el nombre del cliente saneado).
func (uc *PDFUseCase) Generate(ctx context.Context, id string) ([]byte, string, error) {
	quo, err := uc.quoRepo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if quo == nil {
		return nil, "", domain.ErrNotFound
	}
	client, err := uc.companyRepo.GetByID(quo.ClientID)
	if err != nil {
		return nil, "", err
	}
	if client == nil {
		return nil, "", domain.ErrNotFound
	}

	pdfBytes, err := uc.generator.GenerateQuotationPDF(ctx, quo, client)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_%s_%s.pdf",
		quo.QuoNo,
		sanitizeFilename(client.Name),
		quo.DateIssued.Format("20060102"),
	)
	return pdfBytes, filename, nil
}

// sanitizeFilename sustituye separadores y caracteres problemáticos por guiones bajos.
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(
		" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	return replacer.Replace(s)
}
