// Package agent implementa el orquestador de agentes financieros: clasifica la
// petición de texto libre, despacha a los casos de uso correspondientes y
// devuelve una envolvente uniforme (success | interrupt | fail). Cada ejecución
// queda registrada como traza auditable por sesión.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/ports"
	"github.com/jhoicas/Cotizador-api/internal/application/quotation"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

// Intenciones que atiende la capa de servicios financieros.
const (
	IntentJobCRUD       = "job_crud"
	IntentQuotationCRUD = "quotation_crud"
	IntentInvoiceCRUD   = "invoice_crud"
	IntentCompanyQuery  = "company_query"
)

// Orchestrator coordina clasificador, agentes y traza de flujos.
type Orchestrator struct {
	llm       ports.LLMService
	flowRepo  repository.FlowRepository
	draftUC   *quotation.DraftUseCase
	jobUC     *usecase.JobUseCase
	invoiceUC *usecase.InvoiceUseCase
	companyUC *usecase.CompanyUseCase
	log       *logger.Logger
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(
	llm ports.LLMService,
	flowRepo repository.FlowRepository,
	draftUC *quotation.DraftUseCase,
	jobUC *usecase.JobUseCase,
	invoiceUC *usecase.InvoiceUseCase,
	companyUC *usecase.CompanyUseCase,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		llm:       llm,
		flowRepo:  flowRepo,
		draftUC:   draftUC,
		jobUC:     jobUC,
		invoiceUC: invoiceUC,
		companyUC: companyUC,
		log:       log,
	}
}

// Handle procesa una petición de texto libre. Nunca devuelve error al caller:
// toda condición termina en una envolvente con status success, interrupt o
// fail, y el HTTP status es siempre 200 (el cliente decide por el campo status).
func (o *Orchestrator) Handle(ctx context.Context, in dto.OrchestratorRequest) *dto.OrchestratorResponse {
	flowUUID := uuid.New().String()
	resp := &dto.OrchestratorResponse{
		SessionID: in.SessionID,
		FlowUUID:  flowUUID,
	}

	classification, err := o.llm.ClassifyIntents(ctx, in.Message)
	if err != nil {
		o.log.Error().Err(err).Str("flow_uuid", flowUUID).Msg("orquestador: clasificación fallida")
		resp.Status = entity.FlowStatusFail
		resp.Result = dto.AggregatedResult{Message: "No se pudo interpretar la petición. Inténtalo de nuevo."}
		o.recordFlow(in, flowUUID, nil, resp)
		return resp
	}

	if len(classification.Intents) == 0 {
		resp.Status = entity.FlowStatusSuccess
		resp.Result = dto.AggregatedResult{
			Message: "La petición no corresponde a una operación financiera. Puedo ayudarte con trabajos, cotizaciones, facturas y empresas cliente.",
		}
		o.recordFlow(in, flowUUID, nil, resp)
		return resp
	}

	// quotation_crud interrumpe el flujo: el borrador debe pasar por el
	// formulario de revisión antes de persistirse como cotización.
	if contains(classification.Intents, IntentQuotationCRUD) {
		o.handleQuotationIntent(ctx, in, resp)
		o.recordFlow(in, flowUUID, classification.Intents, resp)
		return resp
	}

	agents := make([]dto.AgentResult, 0, len(classification.Intents))
	for _, intent := range classification.Intents {
		agents = append(agents, o.dispatch(intent, in.Message))
	}
	resp.Status = entity.FlowStatusSuccess
	resp.Result = dto.AggregatedResult{Message: classification.Message, Agents: agents}
	o.recordFlow(in, flowUUID, classification.Intents, resp)
	return resp
}

// handleQuotationIntent genera el borrador y deja el flujo en interrupt.
func (o *Orchestrator) handleQuotationIntent(ctx context.Context, in dto.OrchestratorRequest, resp *dto.OrchestratorResponse) {
	draft, err := o.draftUC.Draft(ctx, dto.DraftRequest{
		SessionID: in.SessionID,
		Messages:  []dto.ChatMessage{{Role: "user", Content: in.Message}},
	})
	if err != nil {
		resp.Status = entity.FlowStatusFail
		msg := "No se pudo generar el borrador de cotización."
		if errors.Is(err, domain.ErrBudgetExceeded) {
			msg = "El total propuesto excede el presupuesto configurado."
		}
		o.log.Error().Err(err).Str("session_id", in.SessionID).Msg("orquestador: borrador fallido")
		resp.Result = dto.AggregatedResult{Message: msg}
		return
	}
	resp.Status = entity.FlowStatusInterrupt
	resp.Result = dto.InterruptResult{
		Message:       "Revisa el borrador de cotización antes de confirmarlo.",
		ShowQuoteForm: true,
		QuotationData: &draft.Quotation,
		NextStep:      "confirm_quotation",
	}
}

// dispatch ejecuta el agente de consulta para una intención no interruptora.
func (o *Orchestrator) dispatch(intent, message string) dto.AgentResult {
	switch intent {
	case IntentJobCRUD:
		jobs, err := o.jobUC.List("", dto.PageRequest{Limit: 10})
		if err != nil {
			return dto.AgentResult{Intent: intent, Message: "No se pudieron consultar los trabajos."}
		}
		return dto.AgentResult{Intent: intent, Message: "Trabajos recientes.", Data: jobs}

	case IntentCompanyQuery:
		companies, err := o.companyUC.Search(message, 10)
		if err != nil || companies.Count == 0 {
			// Sin coincidencias con el texto completo: devolver las más recientes.
			companies, err = o.companyUC.List(dto.PageRequest{Limit: 10})
			if err != nil {
				return dto.AgentResult{Intent: intent, Message: "No se pudieron consultar las empresas."}
			}
		}
		return dto.AgentResult{Intent: intent, Message: "Empresas encontradas.", Data: companies}

	case IntentInvoiceCRUD:
		return dto.AgentResult{Intent: intent, Message: "Indica el número de trabajo a facturar (POST /api/v1/invoices con job_no)."}

	default:
		return dto.AgentResult{Intent: intent, Message: "Intención no soportada."}
	}
}

// recordFlow persiste la traza de la ejecución. Un fallo al escribir la traza
// no altera la respuesta al usuario; solo se registra en el log.
func (o *Orchestrator) recordFlow(in dto.OrchestratorRequest, flowUUID string, intents []string, resp *dto.OrchestratorResponse) {
	raw, err := json.Marshal(resp.Result)
	if err != nil {
		raw = []byte("{}")
	}
	flow := &entity.Flow{
		FlowUUID:  flowUUID,
		SessionID: in.SessionID,
		UserInput: in.Message,
		Intents:   intents,
		Status:    resp.Status,
		Result:    string(raw),
		CreatedAt: time.Now(),
	}
	if err := o.flowRepo.Create(flow); err != nil {
		o.log.Error().Err(err).Str("flow_uuid", flowUUID).Msg("orquestador: no se pudo registrar el flujo")
	}
}

// History devuelve las trazas de una sesión, las más recientes primero.
func (o *Orchestrator) History(sessionID string, limit int) ([]dto.FlowResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	flows, err := o.flowRepo.ListBySession(sessionID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FlowResponse, 0, len(flows))
	for _, f := range flows {
		out = append(out, dto.FlowResponse{
			FlowUUID:  f.FlowUUID,
			SessionID: f.SessionID,
			UserInput: f.UserInput,
			Intents:   f.Intents,
			Status:    f.Status,
			Result:    f.Result,
			CreatedAt: f.CreatedAt,
		})
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
