package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/agent"
	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/quotation"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CompanyUC    *usecase.CompanyUseCase
	JobUC        *usecase.JobUseCase
	InvoiceUC    *usecase.InvoiceUseCase
	QuotationUC  *quotation.QuotationUseCase
	QuotationPDF *quotation.PDFUseCase
	DraftUC      *quotation.DraftUseCase
	Orchestrator *agent.Orchestrator
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Companies
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/search", companyHandler.Search)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)

	// Jobs
	jobs := protected.Group("/jobs")
	jobHandler := NewJobHandler(deps.JobUC)
	jobs.Post("/", jobHandler.Create)
	jobs.Get("/", jobHandler.List)
	jobs.Get("/no/:job_no", jobHandler.GetByJobNo)
	jobs.Get("/:id", jobHandler.GetByID)
	jobs.Put("/:id", jobHandler.Update)

	// Quotations
	quotations := protected.Group("/quotations")
	quotationHandler := NewQuotationHandler(deps.QuotationUC, deps.QuotationPDF)
	quotations.Post("/", quotationHandler.Create)
	quotations.Get("/", quotationHandler.List)
	quotations.Get("/no/:quo_no", quotationHandler.GetByQuoNo)
	quotations.Get("/:id/pdf", quotationHandler.GetPDF)
	quotations.Get("/:id", quotationHandler.GetByID)
	quotations.Put("/:id", quotationHandler.Update)

	// Chat: borrador de cotización por conversación
	draftHandler := NewDraftHandler(deps.DraftUC)
	protected.Post("/chat/quotation", draftHandler.Draft)

	// Drafts guardados
	drafts := protected.Group("/drafts")
	drafts.Post("/", draftHandler.Save)
	drafts.Get("/", draftHandler.List)
	drafts.Get("/search", draftHandler.Search)
	drafts.Get("/:id", draftHandler.Get)
	drafts.Delete("/:id", draftHandler.Delete)

	// Invoices
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.ListByClient)
	invoices.Get("/job/:job_no", invoiceHandler.ListByJobNo)
	invoices.Get("/:id", invoiceHandler.GetByID)

	// Orquestador de agentes
	agentHandler := NewAgentHandler(deps.Orchestrator)
	protected.Post("/agent", agentHandler.Handle)
	protected.Get("/agent/history/:session_id", agentHandler.History)
}
