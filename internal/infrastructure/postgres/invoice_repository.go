package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste una línea facturable.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, invoice_no, client_id, job_no, quo_no, item_desc, quantity, unit, unit_price, amount, status, date_issued, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.InvoiceNo, inv.ClientID, inv.JobNo, nullIfEmpty(inv.QuoNo),
		inv.ItemDesc, inv.Quantity, inv.Unit, inv.UnitPrice, inv.Amount,
		inv.Status, inv.DateIssued, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

const invoiceColumns = `id, invoice_no, client_id, job_no, COALESCE(quo_no,''), item_desc, quantity, unit, unit_price, amount, status, date_issued, created_at`

func scanInvoice(row interface{ Scan(...any) error }) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNo, &inv.ClientID, &inv.JobNo, &inv.QuoNo,
		&inv.ItemDesc, &inv.Quantity, &inv.Unit, &inv.UnitPrice, &inv.Amount,
		&inv.Status, &inv.DateIssued, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByID obtiene una línea de factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ListByJobNo lista las líneas de factura de un trabajo.
func (r *InvoiceRepo) ListByJobNo(jobNo string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE job_no = $1 ORDER BY created_at, id`
	return r.queryInvoices(query, jobNo)
}

// ListByClient lista las líneas de factura de un cliente con paginación.
func (r *InvoiceRepo) ListByClient(clientID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices WHERE client_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryInvoices(query, clientID, limit, offset)
}

func (r *InvoiceRepo) queryInvoices(query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// ExistsByInvoiceNo indica si ya hay líneas con ese número de factura.
func (r *InvoiceRepo) ExistsByInvoiceNo(invoiceNo string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM invoices WHERE invoice_no = $1)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, invoiceNo).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists invoice_no: %w", err)
	}
	return exists, nil
}
