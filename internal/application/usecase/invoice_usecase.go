package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/numbering"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn dentro de una transacción con el repositorio de
// facturas. La verificación de duplicado y las inserciones de todas las
// líneas deben confirmarse o deshacerse juntas.
type InvoiceTxRunner interface {
	RunInvoice(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// InvoiceUseCase casos de uso de facturación. Una factura se materializa como
// una fila por línea facturable; todas las filas de un trabajo comparten el
// número INV-{job_no}.
type InvoiceUseCase struct {
	txRunner    InvoiceTxRunner
	invoiceRepo repository.InvoiceRepository
	quoRepo     repository.QuotationRepository
	jobRepo     repository.JobRepository
}

// NewInvoiceUseCase construye el caso de uso. invoiceRepo atiende las
// lecturas; las escrituras pasan por txRunner.
func NewInvoiceUseCase(txRunner InvoiceTxRunner, invoiceRepo repository.InvoiceRepository, quoRepo repository.QuotationRepository, jobRepo repository.JobRepository) *InvoiceUseCase {
	return &InvoiceUseCase{txRunner: txRunner, invoiceRepo: invoiceRepo, quoRepo: quoRepo, jobRepo: jobRepo}
}

// Create factura un trabajo. Si la petición no trae líneas, se copian de la
// cotización indicada (o de la última revisión del trabajo). El número de
// factura deriva del trabajo, así que un trabajo ya facturado devuelve
// ErrDuplicate en lugar de duplicar filas. La verificación y todas las
// inserciones van en una sola transacción: un fallo a mitad no deja líneas
// sueltas que bloqueen el reintento.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceListResponse, error) {
	jobNo := strings.TrimSpace(in.JobNo)
	if jobNo == "" {
		return nil, domain.ErrInvalidInput
	}
	job, err := uc.jobRepo.GetByJobNo(jobNo)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}

	lines, quoNo, err := uc.resolveLines(in, jobNo)
	if err != nil {
		return nil, err
	}

	invoiceNo := numbering.InvoiceNo(jobNo)
	now := time.Now()
	out := &dto.InvoiceListResponse{Items: make([]dto.InvoiceResponse, 0, len(lines))}
	total := decimal.Zero

	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		exists, err := invoiceRepo.ExistsByInvoiceNo(invoiceNo)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicate
		}
		for _, ln := range lines {
			inv := &entity.Invoice{
				ID:         uuid.New().String(),
				InvoiceNo:  invoiceNo,
				ClientID:   job.CompanyID,
				JobNo:      jobNo,
				QuoNo:      quoNo,
				ItemDesc:   ln.ItemDesc,
				Quantity:   ln.Quantity,
				Unit:       ln.Unit,
				UnitPrice:  ln.UnitPrice,
				Amount:     ln.Quantity.Mul(ln.UnitPrice).Round(2),
				Status:     entity.InvoiceStatusDraft,
				DateIssued: now,
				CreatedAt:  now,
			}
			if err := invoiceRepo.Create(inv); err != nil {
				return err
			}
			total = total.Add(inv.Amount)
			out.Items = append(out.Items, *toInvoiceResponse(inv))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out.Total = total.Round(2)
	out.Count = len(out.Items)
	return out, nil
}

// resolveLines decide de dónde salen las líneas: de la petición o de la cotización.
func (uc *InvoiceUseCase) resolveLines(in dto.CreateInvoiceRequest, jobNo string) ([]dto.InvoiceItemRequest, string, error) {
	if len(in.Items) > 0 {
		for _, it := range in.Items {
			if strings.TrimSpace(it.ItemDesc) == "" || !it.Quantity.IsPositive() || it.UnitPrice.IsNegative() {
				return nil, "", domain.ErrInvalidInput
			}
			if !entity.ValidUnit(it.Unit) {
				return nil, "", domain.ErrInvalidInput
			}
		}
		return in.Items, strings.TrimSpace(in.QuoNo), nil
	}

	var (
		quo *entity.Quotation
		err error
	)
	if q := strings.TrimSpace(in.QuoNo); q != "" {
		quo, err = uc.quoRepo.GetByQuoNo(q)
	} else {
		quo, err = uc.quoRepo.LatestByJobNo(jobNo)
	}
	if err != nil {
		return nil, "", err
	}
	if quo == nil || len(quo.Items) == 0 {
		return nil, "", domain.ErrNotFound
	}
	if quo.JobNo != jobNo {
		return nil, "", domain.ErrConflict
	}
	lines := make([]dto.InvoiceItemRequest, 0, len(quo.Items))
	for _, it := range quo.Items {
		lines = append(lines, dto.InvoiceItemRequest{
			ItemDesc:  it.ItemDesc,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
		})
	}
	return lines, quo.QuoNo, nil
}

// GetByID obtiene una línea de factura.
func (uc *InvoiceUseCase) GetByID(id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv), nil
}

// ListByJobNo devuelve las líneas facturadas de un trabajo con su total.
func (uc *InvoiceUseCase) ListByJobNo(jobNo string) (*dto.InvoiceListResponse, error) {
	invoices, err := uc.invoiceRepo.ListByJobNo(jobNo)
	if err != nil {
		return nil, err
	}
	return toInvoiceList(invoices), nil
}

// ListByClient devuelve las líneas facturadas a un cliente con su total.
func (uc *InvoiceUseCase) ListByClient(clientID string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.ListByClient(clientID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toInvoiceList(invoices), nil
}

func toInvoiceList(invoices []*entity.Invoice) *dto.InvoiceListResponse {
	out := &dto.InvoiceListResponse{Items: make([]dto.InvoiceResponse, 0, len(invoices))}
	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.Amount)
		out.Items = append(out.Items, *toInvoiceResponse(inv))
	}
	out.Total = total.Round(2)
	out.Count = len(out.Items)
	return out
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:         inv.ID,
		InvoiceNo:  inv.InvoiceNo,
		ClientID:   inv.ClientID,
		JobNo:      inv.JobNo,
		QuoNo:      inv.QuoNo,
		ItemDesc:   inv.ItemDesc,
		Quantity:   inv.Quantity,
		Unit:       inv.Unit,
		UnitPrice:  inv.UnitPrice,
		Amount:     inv.Amount,
		Status:     inv.Status,
		DateIssued: inv.DateIssued,
	}
}
