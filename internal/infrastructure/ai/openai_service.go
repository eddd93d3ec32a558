package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/ports"
	"github.com/jhoicas/Cotizador-api/internal/domain"
)

// Verificar en tiempo de compilación que OpenAIService implementa LLMService.
var _ ports.LLMService = (*OpenAIService)(nil)

const (
	draftSystemPrompt = `Eres el asistente de cotizaciones de un estudio de ingeniería.
A partir de la conversación, devuelve ÚNICAMENTE un objeto JSON válido (sin markdown, sin bloques de código` + " ```json" + `) con esta estructura exacta:
{
  "quotationNumber": "<número si el usuario lo indicó, o cadena vacía>",
  "date": "<YYYY-MM-DD>",
  "companyName": "<nombre del cliente>",
  "phoneNumber": "<teléfono o cadena vacía>",
  "address": "<dirección o cadena vacía>",
  "projectName": "<nombre del proyecto>",
  "items": [{"itemDesc": "<descripción>", "quantity": <número>, "unit": "<Lot|day|hour|piece|set|sqm|lm>", "unitPrice": <número>, "amount": <quantity × unitPrice>}],
  "totalAmount": <suma de los amounts>,
  "currency": "<MOP|HKD|USD|...>"
}

Reglas:
- quantity siempre mayor que 0; unitPrice mayor o igual a 0.
- Si falta un dato, usa cadena vacía; no inventes teléfonos ni direcciones.
- No incluyas texto fuera del JSON. Solo el objeto JSON.`

	classifierSystemPrompt = `Eres el clasificador de intenciones de un orquestador de agentes financieros.
Clasifica la petición del usuario y devuelve ÚNICAMENTE un objeto JSON válido con esta estructura:
{
  "intents": ["<cero o más de: job_crud, quotation_crud, invoice_crud, company_query>"],
  "message": "<resumen de una línea de lo que pide el usuario>"
}

Reglas:
- job_crud: crear, consultar o actualizar trabajos de diseño o inspección.
- quotation_crud: crear, revisar o modificar cotizaciones.
- invoice_crud: crear o consultar facturas.
- company_query: consultar o registrar empresas cliente.
- Si la petición no es financiera, devuelve intents vacío.
- No incluyas texto fuera del JSON.`
)

// OpenAIService adaptador que implementa LLMService contra un endpoint de
// chat-completion estilo OpenAI. Usa net/http de la librería estándar; no
// requiere SDK. El endpoint es configurable para apuntar a proxies u Ollama.
type OpenAIService struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// NewOpenAIService construye el adaptador.
// Si apiKey está vacío las llamadas devuelven error descriptivo antes de tocar la red.
func NewOpenAIService(endpoint, apiKey, model string, temperature float64, maxTokens, timeoutSec int) *OpenAIService {
	if timeoutSec <= 0 {
		timeoutSec = 25
	}
	return &OpenAIService{
		endpoint:    completionsURL(endpoint),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			// Timeout de red; los use cases imponen además context.WithTimeout.
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

// completionsURL normaliza la URL base añadiendo /chat/completions si falta.
func completionsURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}
	return base + "/chat/completions"
}

// ── Estructuras del protocolo chat-completion ────────────────────────────────

type chatRequest struct {
	Model       string            `json:"model"`
	Messages    []dto.ChatMessage `json:"messages"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
}

// chatResponse cubre la forma OpenAI y las variantes que devuelven algunos
// proxies: choices[].message.content, choices[].text y content[].text.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// contentOf extrae el texto generado admitiendo las formas alternativas.
func (r *chatResponse) contentOf() string {
	if len(r.Choices) > 0 {
		if c := r.Choices[0].Message.Content; c != "" {
			return c
		}
		if r.Choices[0].Text != "" {
			return r.Choices[0].Text
		}
	}
	if len(r.Content) > 0 {
		return r.Content[0].Text
	}
	return ""
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo
// envuelva en markdown. Captura desde el primer '{' hasta el último '}'.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// ── Implementación del puerto ─────────────────────────────────────────────────

// DraftQuotation envía el historial y parsea el JSON de cotización de la respuesta.
func (s *OpenAIService) DraftQuotation(ctx context.Context, messages []dto.ChatMessage) (*dto.QuotationPayload, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("AI: historial de mensajes vacío")
	}

	all := make([]dto.ChatMessage, 0, len(messages)+1)
	all = append(all, dto.ChatMessage{Role: "system", Content: draftSystemPrompt})
	all = append(all, messages...)

	raw, err := s.complete(ctx, all)
	if err != nil {
		return nil, err
	}

	cleanJSON := extractJSON(raw)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", truncate(raw, 200))
	}

	var payload dto.QuotationPayload
	if err := json.Unmarshal([]byte(cleanJSON), &payload); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de cotización: %w (JSON extraído: %s)", err, truncate(cleanJSON, 200))
	}

	if err := validatePayload(&payload); err != nil {
		return nil, fmt.Errorf("AI: cotización incompleta: %w", err)
	}
	return &payload, nil
}

// ClassifyIntents clasifica la petición en intenciones del orquestador.
func (s *OpenAIService) ClassifyIntents(ctx context.Context, userInput string) (*dto.IntentClassification, error) {
	if strings.TrimSpace(userInput) == "" {
		return nil, fmt.Errorf("AI: petición vacía")
	}

	raw, err := s.complete(ctx, []dto.ChatMessage{
		{Role: "system", Content: classifierSystemPrompt},
		{Role: "user", Content: userInput},
	})
	if err != nil {
		return nil, err
	}

	cleanJSON := extractJSON(raw)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la clasificación (respuesta: %s)", truncate(raw, 200))
	}

	var out dto.IntentClassification
	if err := json.Unmarshal([]byte(cleanJSON), &out); err != nil {
		return nil, fmt.Errorf("AI: parsear clasificación: %w", err)
	}
	return &out, nil
}

// complete hace la llamada HTTP al endpoint de chat-completion y devuelve el texto generado.
func (s *OpenAIService) complete(ctx context.Context, messages []dto.ChatMessage) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: AI_API_KEY no configurado")
	}

	payload := chatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida (%v): %w", err, domain.ErrLLMUnavailable)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp chatResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: error del proveedor (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: HTTP %d: %s", resp.StatusCode, truncate(string(rawBody), 200))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(rawBody, &chatResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta: %w", err)
	}

	content := chatResp.contentOf()
	if content == "" {
		return "", fmt.Errorf("AI: el modelo devolvió respuesta vacía")
	}
	return content, nil
}

// validatePayload comprueba los campos sin los cuales el borrador no es usable.
func validatePayload(p *dto.QuotationPayload) error {
	var missing []string
	if strings.TrimSpace(p.CompanyName) == "" {
		missing = append(missing, "companyName")
	}
	if strings.TrimSpace(p.ProjectName) == "" {
		missing = append(missing, "projectName")
	}
	if len(p.Items) == 0 {
		missing = append(missing, "items")
	}
	if len(missing) > 0 {
		return fmt.Errorf("faltan campos requeridos: %s", strings.Join(missing, ", "))
	}
	for i, it := range p.Items {
		if !it.Quantity.IsPositive() {
			return fmt.Errorf("items[%d]: quantity debe ser > 0", i)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("items[%d]: unitPrice debe ser >= 0", i)
		}
	}
	return nil
}

// extractJSON extrae el primer objeto JSON bien formado de un texto libre.
// Estrategia en dos pasos:
//  1. Eliminar bloques de código markdown (```json … ``` o ``` … ```).
//  2. Usar regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		// Quitar la línea de apertura (```json o ```)
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		// Quitar el cierre ```
		if close := strings.LastIndex(after, "```"); close != -1 {
			after = after[:close]
		}
		text = strings.TrimSpace(after)
	}

	// Si el texto resultante ya empieza con '{', usarlo directamente
	if strings.HasPrefix(text, "{") {
		return text
	}

	// Fallback: regex para extraer el primer {...}
	match := jsonBlockRe.FindString(text)
	return strings.TrimSpace(match)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
