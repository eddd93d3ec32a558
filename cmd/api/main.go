package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/application/agent"
	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/quotation"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
	infraai "github.com/jhoicas/Cotizador-api/internal/infrastructure/ai"
	infrapdf "github.com/jhoicas/Cotizador-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Cotizador-api/internal/interfaces/http"
	"github.com/jhoicas/Cotizador-api/pkg/config"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	quotationRepo := postgres.NewQuotationRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	draftRepo := postgres.NewDraftRepository(pool)
	flowRepo := postgres.NewFlowRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	jobUC := usecase.NewJobUseCase(txRunner, jobRepo, companyRepo)
	invoiceUC := usecase.NewInvoiceUseCase(txRunner, invoiceRepo, quotationRepo, jobRepo)
	quotationUC := quotation.NewQuotationUseCase(txRunner, quotationRepo, companyRepo)

	llmSvc := infraai.NewOpenAIService(
		cfg.AI.Endpoint, cfg.AI.APIKey, cfg.AI.Model,
		cfg.AI.Temperature, cfg.AI.MaxTokens, cfg.AI.TimeoutSec,
	)

	// Presupuesto por defecto de los borradores IA (vacío o inválido = sin tope).
	budget := decimal.Zero
	if cfg.AI.Budget != "" {
		if b, err := decimal.NewFromString(cfg.AI.Budget); err == nil {
			budget = b
		} else {
			log.Warn().Str("valor", cfg.AI.Budget).Msg("AI_QUOTATION_BUDGET inválido, se ignora")
		}
	}
	draftUC := quotation.NewDraftUseCase(llmSvc, draftRepo, budget)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(
		cfg.PDF.CompanyName, cfg.PDF.CompanyLine, cfg.PDF.SignaturePath,
	)
	quotationPDFUC := quotation.NewPDFUseCase(quotationRepo, companyRepo, pdfGenerator)

	orchestrator := agent.NewOrchestrator(
		llmSvc, flowRepo, draftUC, jobUC, invoiceUC, companyUC, log,
	)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cotizador API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CompanyUC:    companyUC,
		JobUC:        jobUC,
		InvoiceUC:    invoiceUC,
		QuotationUC:  quotationUC,
		QuotationPDF: quotationPDFUC,
		DraftUC:      draftUC,
		Orchestrator: orchestrator,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
