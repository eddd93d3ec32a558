package quotation

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/ports"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/numbering"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// sessionState última propuesta emitida en una sesión de chat: el triple que
// identifica la cotización y la revisión que se le asignó.
type sessionState struct {
	triple   numbering.Triple
	revision numbering.Revision
	lastUsed time.Time
}

// maxDraftSessions acota el mapa de sesiones: los session_id los elige el
// cliente, así que sin tope el mapa crecería sin límite. Al superarlo se
// expulsa la sesión menos reciente; para esa sesión el siguiente borrador
// simplemente arranca en 1.0.
const maxDraftSessions = 1000

// DraftUseCase es el pipeline de borrador por chat: conversación → LLM →
// JSON estructurado → validación y recálculo → decisión de revisión.
//
// La revisión se decide por sesión: si el modelo devuelve el mismo triple
// (número, cliente, proyecto) que la propuesta anterior de la sesión, el
// usuario está editando la misma cotización y la revisión sube una décima;
// cualquier cambio en el triple reinicia en 1.0. El estado por sesión vive en
// memoria; los borradores solo tocan la base de datos cuando el usuario los
// guarda explícitamente.
type DraftUseCase struct {
	llm       ports.LLMService
	draftRepo repository.DraftRepository
	budget    decimal.Decimal // presupuesto por defecto; cero = sin tope

	mu       sync.Mutex
	sessions map[string]sessionState
}

// NewDraftUseCase construye el pipeline de borradores.
func NewDraftUseCase(llm ports.LLMService, draftRepo repository.DraftRepository, defaultBudget decimal.Decimal) *DraftUseCase {
	return &DraftUseCase{
		llm:       llm,
		draftRepo: draftRepo,
		budget:    defaultBudget,
		sessions:  make(map[string]sessionState),
	}
}

// Draft genera una propuesta de cotización a partir del historial de chat.
// Los importes del modelo se descartan y se recalculan aquí; si el total
// supera el presupuesto aplicable, la propuesta se rechaza con
// ErrBudgetExceeded en lugar de recortarse en silencio.
func (uc *DraftUseCase) Draft(ctx context.Context, in dto.DraftRequest) (*dto.DraftResponse, error) {
	if len(in.Messages) == 0 {
		return nil, domain.ErrInvalidInput
	}

	payload, err := uc.llm.DraftQuotation(ctx, in.Messages)
	if err != nil {
		return nil, err
	}
	if err := normalizePayload(payload); err != nil {
		return nil, err
	}

	budget := uc.budget
	if in.Budget.IsPositive() {
		budget = in.Budget
	}
	if budget.IsPositive() && payload.TotalAmount.GreaterThan(budget) {
		return nil, domain.ErrBudgetExceeded
	}

	rev := uc.decideRevision(in.SessionID, payload)

	return &dto.DraftResponse{
		DraftID:   uuid.New().String(),
		Revision:  rev.Label(),
		Quotation: *payload,
	}, nil
}

// decideRevision aplica el esquema de revisión contra la última propuesta de la sesión.
func (uc *DraftUseCase) decideRevision(sessionID string, payload *dto.QuotationPayload) numbering.Revision {
	incoming := numbering.Triple{
		QuoNo:       payload.QuotationNumber,
		ClientName:  payload.CompanyName,
		ProjectName: payload.ProjectName,
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	var (
		prev    *numbering.Triple
		prevRev numbering.Revision
	)
	if st, ok := uc.sessions[sessionID]; ok {
		prev = &st.triple
		prevRev = st.revision
	}
	rev := numbering.NextRevision(prev, prevRev, incoming)
	if _, ok := uc.sessions[sessionID]; !ok && len(uc.sessions) >= maxDraftSessions {
		uc.evictOldestSessionLocked()
	}
	uc.sessions[sessionID] = sessionState{triple: incoming, revision: rev, lastUsed: time.Now()}
	return rev
}

// evictOldestSessionLocked elimina la sesión menos usada. Llamar con uc.mu tomado.
func (uc *DraftUseCase) evictOldestSessionLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, st := range uc.sessions {
		if oldestID == "" || st.lastUsed.Before(oldest) {
			oldestID = id
			oldest = st.lastUsed
		}
	}
	if oldestID != "" {
		delete(uc.sessions, oldestID)
	}
}

// normalizePayload valida unidades y valores y recalcula importes y total.
func normalizePayload(p *dto.QuotationPayload) error {
	if strings.TrimSpace(p.CompanyName) == "" || len(p.Items) == 0 {
		return domain.ErrInvalidInput
	}
	if p.Currency == "" {
		p.Currency = "MOP"
	}
	if p.Date == "" {
		p.Date = time.Now().Format("2006-01-02")
	}
	total := decimal.Zero
	for i := range p.Items {
		it := &p.Items[i]
		if !it.Quantity.IsPositive() || it.UnitPrice.IsNegative() {
			return domain.ErrInvalidInput
		}
		it.Unit = canonicalUnit(it.Unit)
		if !entity.ValidUnit(it.Unit) {
			return domain.ErrInvalidInput
		}
		it.Amount = it.Quantity.Mul(it.UnitPrice).Round(2)
		total = total.Add(it.Amount)
	}
	p.TotalAmount = total.Round(2)
	return nil
}

// canonicalUnit mapea variantes frecuentes del modelo al catálogo de unidades.
func canonicalUnit(u string) string {
	switch strings.ToLower(strings.TrimSpace(u)) {
	case "lot", "lote":
		return entity.UnitLot
	case "day", "días", "dia", "días.", "d":
		return entity.UnitDay
	case "hour", "hora", "hr", "h":
		return entity.UnitHour
	case "piece", "pieza", "pza", "unidad", "un":
		return entity.UnitPiece
	case "set", "juego":
		return entity.UnitSet
	case "sqm", "m2", "m²":
		return entity.UnitSqm
	case "lm", "ml", "metro lineal":
		return entity.UnitLm
	default:
		return u
	}
}

// Save guarda (o reescribe) un borrador editado por el usuario. El payload se
// conserva como JSON tal cual; los campos sueltos alimentan la búsqueda.
func (uc *DraftUseCase) Save(draftID string, payload dto.QuotationPayload) (*dto.DraftSummary, error) {
	if err := normalizePayload(&payload); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if draftID == "" {
		draftID = uuid.New().String()
	}
	now := time.Now()
	draft := &entity.QuotationDraft{
		ID:          draftID,
		QuoNo:       payload.QuotationNumber,
		ClientName:  payload.CompanyName,
		ProjectName: payload.ProjectName,
		Payload:     string(raw),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.draftRepo.Save(draft); err != nil {
		return nil, err
	}
	return toDraftSummary(draft), nil
}

// Get devuelve el payload completo de un borrador.
func (uc *DraftUseCase) Get(id string) (*dto.QuotationPayload, error) {
	draft, err := uc.draftRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, domain.ErrNotFound
	}
	var payload dto.QuotationPayload
	if err := json.Unmarshal([]byte(draft.Payload), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// List devuelve borradores guardados, los más recientes primero.
func (uc *DraftUseCase) List(page dto.PageRequest) ([]dto.DraftSummary, error) {
	page.DefaultPage()
	drafts, err := uc.draftRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toDraftSummaries(drafts), nil
}

// Search busca borradores por subcadena (número, cliente o proyecto).
func (uc *DraftUseCase) Search(query string, limit int) ([]dto.DraftSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	drafts, err := uc.draftRepo.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return toDraftSummaries(drafts), nil
}

// Delete elimina un borrador guardado.
func (uc *DraftUseCase) Delete(id string) error {
	return uc.draftRepo.Delete(id)
}

func toDraftSummary(d *entity.QuotationDraft) *dto.DraftSummary {
	return &dto.DraftSummary{
		ID:          d.ID,
		QuoNo:       d.QuoNo,
		ClientName:  d.ClientName,
		ProjectName: d.ProjectName,
		UpdatedAt:   d.UpdatedAt.Format(time.RFC3339),
	}
}

func toDraftSummaries(drafts []*entity.QuotationDraft) []dto.DraftSummary {
	out := make([]dto.DraftSummary, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, *toDraftSummary(d))
	}
	return out
}
