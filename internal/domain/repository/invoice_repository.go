package repository

import "github.com/jhoicas/Cotizador-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice (una fila por línea facturable).
type InvoiceRepository interface {
	Create(inv *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	ListByJobNo(jobNo string) ([]*entity.Invoice, error)
	ListByClient(clientID string, limit, offset int) ([]*entity.Invoice, error)
	ExistsByInvoiceNo(invoiceNo string) (bool, error)
}
