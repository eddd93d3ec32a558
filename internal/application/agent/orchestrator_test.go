package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/quotation"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeLLM struct {
	intents     []string
	classifyErr error
	payload     *dto.QuotationPayload
	draftErr    error
}

func (f *fakeLLM) ClassifyIntents(_ context.Context, _ string) (*dto.IntentClassification, error) {
	if f.classifyErr != nil {
		return nil, f.classifyErr
	}
	return &dto.IntentClassification{Intents: f.intents, Message: "petición clasificada"}, nil
}

func (f *fakeLLM) DraftQuotation(_ context.Context, _ []dto.ChatMessage) (*dto.QuotationPayload, error) {
	if f.draftErr != nil {
		return nil, f.draftErr
	}
	cp := *f.payload
	return &cp, nil
}

type fakeFlowRepo struct {
	mu    sync.Mutex
	flows []*entity.Flow
}

func (r *fakeFlowRepo) Create(f *entity.Flow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	r.flows = append(r.flows, &cp)
	return nil
}

func (r *fakeFlowRepo) ListBySession(sessionID string, limit int) ([]*entity.Flow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Flow
	for _, f := range r.flows {
		if f.SessionID == sessionID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeDraftRepo struct{}

func (fakeDraftRepo) Save(*entity.QuotationDraft) error                    { return nil }
func (fakeDraftRepo) GetByID(string) (*entity.QuotationDraft, error)       { return nil, nil }
func (fakeDraftRepo) List(int, int) ([]*entity.QuotationDraft, error)      { return nil, nil }
func (fakeDraftRepo) Search(string, int) ([]*entity.QuotationDraft, error) { return nil, nil }
func (fakeDraftRepo) Delete(string) error                                  { return nil }

type fakeCompanyRepo struct {
	companies []*entity.Company
}

func (r *fakeCompanyRepo) Create(*entity.Company) error { return nil }
func (r *fakeCompanyRepo) GetByID(string) (*entity.Company, error) {
	return nil, nil
}
func (r *fakeCompanyRepo) GetByNormalizedName(string) (*entity.Company, error) {
	return nil, nil
}
func (r *fakeCompanyRepo) List(int, int) ([]*entity.Company, error) {
	return r.companies, nil
}
func (r *fakeCompanyRepo) Search(query string, _ int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range r.companies {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) {
			out = append(out, c)
		}
	}
	return out, nil
}
func (r *fakeCompanyRepo) Update(*entity.Company) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func testPayload() *dto.QuotationPayload {
	q, _ := decimal.NewFromString("2")
	p, _ := decimal.NewFromString("500")
	return &dto.QuotationPayload{
		CompanyName: "ACME Corp",
		ProjectName: "Roof Inspection",
		Currency:    "MOP",
		Items: []dto.QuotationPayloadItem{
			{ItemDesc: "Site survey", Quantity: q, Unit: "day", UnitPrice: p},
		},
	}
}

func newOrchestrator(llm *fakeLLM, flowRepo *fakeFlowRepo) *Orchestrator {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	draftUC := quotation.NewDraftUseCase(llm, fakeDraftRepo{}, decimal.Zero)
	companyUC := usecase.NewCompanyUseCase(&fakeCompanyRepo{
		companies: []*entity.Company{{ID: "c1", Name: "ACME Corp", Code: "ACM"}},
	})
	return NewOrchestrator(llm, flowRepo, draftUC, nil, nil, companyUC, log)
}

// Petición no financiera → success con mensaje orientativo.
func TestHandle_SinIntencionesEsSuccess(t *testing.T) {
	flowRepo := &fakeFlowRepo{}
	o := newOrchestrator(&fakeLLM{intents: nil}, flowRepo)

	resp := o.Handle(context.Background(), dto.OrchestratorRequest{SessionID: "s1", Message: "¿qué hora es?"})

	assert.Equal(t, entity.FlowStatusSuccess, resp.Status)
	assert.NotEmpty(t, resp.FlowUUID)
	require.Len(t, flowRepo.flows, 1, "toda ejecución deja traza")
	assert.Equal(t, entity.FlowStatusSuccess, flowRepo.flows[0].Status)
}

// Clasificación fallida → fail, nunca error HTTP.
func TestHandle_ClasificacionFallidaEsFail(t *testing.T) {
	flowRepo := &fakeFlowRepo{}
	o := newOrchestrator(&fakeLLM{classifyErr: errors.New("timeout del proveedor")}, flowRepo)

	resp := o.Handle(context.Background(), dto.OrchestratorRequest{SessionID: "s1", Message: "cotiza algo"})

	assert.Equal(t, entity.FlowStatusFail, resp.Status)
	require.Len(t, flowRepo.flows, 1)
	assert.Equal(t, entity.FlowStatusFail, flowRepo.flows[0].Status)
}

// Intención de cotización → interrupt con el borrador y el formulario.
func TestHandle_CotizacionInterrumpeConBorrador(t *testing.T) {
	flowRepo := &fakeFlowRepo{}
	o := newOrchestrator(&fakeLLM{
		intents: []string{IntentQuotationCRUD},
		payload: testPayload(),
	}, flowRepo)

	resp := o.Handle(context.Background(), dto.OrchestratorRequest{
		SessionID: "s1",
		Message:   "cotiza una inspección de tejado para ACME",
	})

	assert.Equal(t, entity.FlowStatusInterrupt, resp.Status)

	result, ok := resp.Result.(dto.InterruptResult)
	require.True(t, ok, "el resultado de una interrupción debe ser InterruptResult")
	assert.True(t, result.ShowQuoteForm)
	require.NotNil(t, result.QuotationData)
	assert.Equal(t, "ACME Corp", result.QuotationData.CompanyName)
	total, _ := decimal.NewFromString("1000")
	assert.True(t, result.QuotationData.TotalAmount.Equal(total), "el total llega recalculado")

	require.Len(t, flowRepo.flows, 1)
	assert.Equal(t, []string{IntentQuotationCRUD}, flowRepo.flows[0].Intents)
}

// Borrador fallido dentro de la intención de cotización → fail.
func TestHandle_BorradorFallidoEsFail(t *testing.T) {
	flowRepo := &fakeFlowRepo{}
	o := newOrchestrator(&fakeLLM{
		intents:  []string{IntentQuotationCRUD},
		draftErr: errors.New("el modelo devolvió respuesta vacía"),
	}, flowRepo)

	resp := o.Handle(context.Background(), dto.OrchestratorRequest{SessionID: "s1", Message: "cotiza"})

	assert.Equal(t, entity.FlowStatusFail, resp.Status)
}

// Consulta de empresas → success con datos del agente.
func TestHandle_ConsultaEmpresas(t *testing.T) {
	flowRepo := &fakeFlowRepo{}
	o := newOrchestrator(&fakeLLM{intents: []string{IntentCompanyQuery}}, flowRepo)

	resp := o.Handle(context.Background(), dto.OrchestratorRequest{
		SessionID: "s1",
		Message:   "ACME",
	})

	assert.Equal(t, entity.FlowStatusSuccess, resp.Status)
	result, ok := resp.Result.(dto.AggregatedResult)
	require.True(t, ok)
	require.Len(t, result.Agents, 1)
	assert.Equal(t, IntentCompanyQuery, result.Agents[0].Intent)
	assert.NotNil(t, result.Agents[0].Data)
}

// El historial devuelve las trazas de la sesión pedida.
func TestHistory_FiltraPorSesion(t *testing.T) {
	flowRepo := &fakeFlowRepo{}
	o := newOrchestrator(&fakeLLM{intents: nil}, flowRepo)

	o.Handle(context.Background(), dto.OrchestratorRequest{SessionID: "s1", Message: "hola"})
	o.Handle(context.Background(), dto.OrchestratorRequest{SessionID: "s2", Message: "hola"})

	flows, err := o.History("s1", 10)
	require.NoError(t, err)
	require.Len(t, flows, 1)
	assert.Equal(t, "s1", flows[0].SessionID)
}

// El historial se serializa en snake_case como el resto de la API.
func TestHistory_SerializaEnSnakeCase(t *testing.T) {
	flowRepo := &fakeFlowRepo{}
	o := newOrchestrator(&fakeLLM{intents: nil}, flowRepo)

	o.Handle(context.Background(), dto.OrchestratorRequest{SessionID: "s1", Message: "hola"})

	flows, err := o.History("s1", 10)
	require.NoError(t, err)
	require.Len(t, flows, 1)

	raw, err := json.Marshal(flows[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"flow_uuid"`)
	assert.Contains(t, string(raw), `"session_id"`)
	assert.Contains(t, string(raw), `"user_input"`)
	assert.NotContains(t, string(raw), `"FlowUUID"`)
}
