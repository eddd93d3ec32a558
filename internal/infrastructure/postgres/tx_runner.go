package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Cotizador-api/internal/application/quotation"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// Ensure TxRunner implementa los runners de jobs, cotizaciones y facturas.
var _ usecase.JobTxRunner = (*TxRunner)(nil)
var _ usecase.InvoiceTxRunner = (*TxRunner)(nil)
var _ quotation.QuotationTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunJob inicia una transacción para crear un trabajo numerado.
//
// Antes de invocar fn toma un advisory lock transaccional sobre seqKey
// (empresa+tipo+periodo). Eso serializa el read-then-write del índice: dos
// creaciones concurrentes contra la misma secuencia quedan una detrás de otra
// y max(seq)+1 nunca se duplica. El lock se libera solo con el commit/rollback.
func (r *TxRunner) RunJob(ctx context.Context, seqKey string, fn func(
	jobRepo repository.JobRepository,
	companyRepo repository.CompanyRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, seqKey); err != nil {
		return fmt.Errorf("advisory lock %q: %w", seqKey, err)
	}

	jobRepo := NewJobRepository(tx)
	companyRepo := NewCompanyRepository(tx)

	if err := fn(jobRepo, companyRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunInvoice inicia una transacción para facturar un trabajo: la verificación
// de duplicado y las inserciones de todas las líneas se confirman juntas, así
// que un fallo a mitad no deja una factura parcial que bloquee el reintento.
func (r *TxRunner) RunInvoice(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInvoiceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunQuotation inicia una transacción con repos de cotizaciones y trabajos
// (crear/actualizar la cotización y marcar el estado del trabajo van juntos).
func (r *TxRunner) RunQuotation(ctx context.Context, fn func(
	quoRepo repository.QuotationRepository,
	jobRepo repository.JobRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	quoRepo := NewQuotationRepository(tx)
	jobRepo := NewJobRepository(tx)

	if err := fn(quoRepo, jobRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
