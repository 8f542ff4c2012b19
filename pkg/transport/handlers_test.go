package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/idorf79/M1.3-REST-API/pkg/config"
	"github.com/idorf79/M1.3-REST-API/pkg/faults"
	"github.com/idorf79/M1.3-REST-API/pkg/store"
	"github.com/idorf79/M1.3-REST-API/pkg/themes"
)

const testToken = "student_test_token"

// seqSource torna o sorteio de falhas determinístico nos testes.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

// stubProvider acumula as métricas emitidas para inspeção.
type stubProvider struct {
	mu     sync.Mutex
	counts map[string]float64
}

func newStubProvider() *stubProvider {
	return &stubProvider{counts: map[string]float64{}}
}

func (p *stubProvider) Count(name string, value float64, tags []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[name] += value
	return nil
}

func (p *stubProvider) Gauge(name string, value float64, tags []string) error     { return nil }
func (p *stubProvider) Histogram(name string, value float64, tags []string) error { return nil }

func (p *stubProvider) count(name string) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[name]
}

// newTestServer monta um servidor com store semeado, relógio fixo e, se
// fornecida, uma sequência fixa de sorteios de falha.
func newTestServer(errorRate, timeoutSeconds float64, vals ...float64) (*Server, *stubProvider) {
	cfg := &config.Config{
		Port:           5000,
		APIToken:       testToken,
		ErrorRate:      errorRate,
		TimeoutSeconds: timeoutSeconds,
	}

	registry := themes.Default()
	fixed, _ := time.Parse(store.TimeLayout, "2024-06-01 12:00:00")
	st := store.New(registry, store.WithClock(func() time.Time { return fixed }))
	store.Seed(st)

	opts := []faults.Option{}
	if len(vals) > 0 {
		opts = append(opts, faults.WithSource(&seqSource{vals: vals}))
	}
	injector := faults.NewInjector(func() faults.Settings {
		return faults.Settings{ErrorRate: cfg.ErrorRate, TimeoutSeconds: cfg.TimeoutSeconds}
	}, opts...)

	provider := newStubProvider()
	return NewServer(cfg, registry, st, injector, provider, zerolog.Nop()), provider
}

func doRequest(s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set(HeaderAPIToken, token)
	}

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("Resposta não é JSON válido: %v (%s)", err, rr.Body.String())
	}
	return out
}

func assertErrorEnvelope(t *testing.T, rr *httptest.ResponseRecorder, code int, description string) {
	t.Helper()
	if rr.Code != code {
		t.Fatalf("Status esperado %d, recebido %d (%s)", code, rr.Code, rr.Body.String())
	}

	body := decode(t, rr)
	if body["code"] != float64(code) {
		t.Errorf("Campo code esperado %d, recebido %v", code, body["code"])
	}
	if body["name"] != http.StatusText(code) {
		t.Errorf("Campo name esperado %q, recebido %v", http.StatusText(code), body["name"])
	}
	if body["description"] != description {
		t.Errorf("Campo description esperado %q, recebido %v", description, body["description"])
	}
}

func TestAPIInfo(t *testing.T) {
	s, _ := newTestServer(0, 2)

	rr := doRequest(s, "GET", "/", "", "")
	if rr.Code != 200 {
		t.Fatalf("Esperado 200, recebido %d", rr.Code)
	}

	body := decode(t, rr)
	if body["name"] != "Integration Testing Learning API" {
		t.Errorf("Nome incorreto: %v", body["name"])
	}
	themesMap := body["themes"].(map[string]interface{})
	if len(themesMap) != 3 {
		t.Errorf("Esperados 3 temas, recebidos %d", len(themesMap))
	}
}

func TestDocs(t *testing.T) {
	s, _ := newTestServer(0, 2)

	rr := doRequest(s, "GET", "/docs", "", "")
	if rr.Code != 200 {
		t.Fatalf("Esperado 200, recebido %d", rr.Code)
	}

	body := decode(t, rr)
	endpoints := body["endpoints"].([]interface{})
	if len(endpoints) != 10 {
		t.Errorf("Esperados 10 endpoints documentados, recebidos %d", len(endpoints))
	}
}

func TestListThemes(t *testing.T) {
	s, _ := newTestServer(0, 2)

	rr := doRequest(s, "GET", "/themes", "", "")
	if rr.Code != 200 {
		t.Fatalf("Esperado 200, recebido %d", rr.Code)
	}

	body := decode(t, rr)
	list := body["themes"].([]interface{})
	if len(list) != 3 {
		t.Fatalf("Esperados 3 temas, recebidos %d", len(list))
	}
	first := list[0].(map[string]interface{})
	if first["id"] != "space_exploration" {
		t.Errorf("Primeiro tema incorreto: %v", first["id"])
	}
}

func TestThemeDetail(t *testing.T) {
	s, _ := newTestServer(0, 2)

	rr := doRequest(s, "GET", "/themes/space_exploration", "", "")
	if rr.Code != 200 {
		t.Fatalf("Esperado 200, recebido %d", rr.Code)
	}

	body := decode(t, rr)
	entities := body["entities"].([]interface{})
	if len(entities) != 3 {
		t.Fatalf("Esperados 3 tipos de entidade, recebidos %d", len(entities))
	}

	// missions vem semeada com 2 registros
	missions := entities[0].(map[string]interface{})
	if missions["type"] != "missions" || missions["count"] != float64(2) {
		t.Errorf("Contagem de missions incorreta: %v", missions)
	}
}

func TestThemeDetail_Unknown(t *testing.T) {
	s, _ := newTestServer(0, 2)

	rr := doRequest(s, "GET", "/themes/unknown_theme", "", "")
	assertErrorEnvelope(t, rr, 404, "Theme 'unknown_theme' not found")
}

func TestEntityRoutes_AuthRequired(t *testing.T) {
	s, _ := newTestServer(0, 2)

	t.Run("Sem token retorna 401", func(t *testing.T) {
		rr := doRequest(s, "GET", "/themes/fantasy_rpg/characters", "", "")
		assertErrorEnvelope(t, rr, 401, "API token is missing")
	})

	t.Run("Token inválido retorna 403", func(t *testing.T) {
		rr := doRequest(s, "GET", "/themes/fantasy_rpg/characters", "wrong_token", "")
		assertErrorEnvelope(t, rr, 403, "Invalid API token")
	})

	t.Run("Token correto nunca bloqueia", func(t *testing.T) {
		rr := doRequest(s, "GET", "/themes/fantasy_rpg/characters", testToken, "")
		if rr.Code != 200 {
			t.Errorf("Esperado 200, recebido %d", rr.Code)
		}
	})
}

// A validação de rota vem antes da autenticação: tema ou tipo desconhecido
// responde 404 mesmo sem token.
func TestEntityRoutes_RouteValidatedBeforeAuth(t *testing.T) {
	s, _ := newTestServer(0, 2)

	rr := doRequest(s, "GET", "/themes/unknown_theme/characters", "", "")
	assertErrorEnvelope(t, rr, 404, "Theme 'unknown_theme' not found")

	rr = doRequest(s, "GET", "/themes/fantasy_rpg/missions", "", "")
	assertErrorEnvelope(t, rr, 404, "Entity type 'missions' not found in theme 'fantasy_rpg'")
}

func TestListEntities(t *testing.T) {
	s, _ := newTestServer(0, 2)

	rr := doRequest(s, "GET", "/themes/fantasy_rpg/characters", testToken, "")
	if rr.Code != 200 {
		t.Fatalf("Esperado 200, recebido %d", rr.Code)
	}

	body := decode(t, rr)
	if body["theme"] != "fantasy_rpg" || body["entity_type"] != "characters" {
		t.Errorf("Envelope incorreto: %v", body)
	}
	items := body["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Esperado 1 registro semeado, recebidos %d", len(items))
	}
	if items[0].(map[string]interface{})["name"] != "Elindra" {
		t.Errorf("Registro semeado incorreto: %v", items[0])
	}
}

func TestCreateEntity_Validation(t *testing.T) {
	s, _ := newTestServer(0, 2)

	t.Run("Corpo ausente", func(t *testing.T) {
		rr := doRequest(s, "POST", "/themes/fantasy_rpg/characters", testToken, "")
		assertErrorEnvelope(t, rr, 400, "Invalid JSON data")
	})

	t.Run("JSON inválido", func(t *testing.T) {
		rr := doRequest(s, "POST", "/themes/fantasy_rpg/characters", testToken, "{not json")
		assertErrorEnvelope(t, rr, 400, "Invalid JSON data")
	})

	t.Run("Objeto vazio", func(t *testing.T) {
		rr := doRequest(s, "POST", "/themes/fantasy_rpg/characters", testToken, "{}")
		assertErrorEnvelope(t, rr, 400, "Invalid JSON data")
	})

	t.Run("Campo obrigatório ausente", func(t *testing.T) {
		rr := doRequest(s, "POST", "/themes/fantasy_rpg/characters", testToken, `{"name":"X"}`)
		assertErrorEnvelope(t, rr, 400, "Missing required fields: description")
	})

	t.Run("Todos os obrigatórios ausentes", func(t *testing.T) {
		rr := doRequest(s, "POST", "/themes/fantasy_rpg/characters", testToken, `{"level":3}`)
		assertErrorEnvelope(t, rr, 400, "Missing required fields: name, description")
	})
}

// Roteiro completo de CRUD: create -> get -> update -> delete -> get.
func TestEntityCRUDScenario(t *testing.T) {
	s, _ := newTestServer(0, 2)

	// Create
	rr := doRequest(s, "POST", "/themes/fantasy_rpg/characters", testToken, `{"name":"X","description":"Y"}`)
	if rr.Code != 201 {
		t.Fatalf("Create: esperado 201, recebido %d (%s)", rr.Code, rr.Body.String())
	}
	created := decode(t, rr)
	id := created["id"].(string)
	if id != "2" {
		t.Errorf("Elindra é o id 1 semeado; esperado id 2, recebido %s", id)
	}
	if created["name"] != "X" || created["description"] != "Y" {
		t.Errorf("Campos do registro criado incorretos: %v", created)
	}
	if created["created_at"] == "" || created["created_at"] == nil {
		t.Error("created_at não pode ser vazio")
	}
	if _, exists := created["updated_at"]; exists {
		t.Error("updated_at só aparece após o primeiro update")
	}

	// Get
	path := fmt.Sprintf("/themes/fantasy_rpg/characters/%s", id)
	rr = doRequest(s, "GET", path, testToken, "")
	if rr.Code != 200 {
		t.Fatalf("Get: esperado 200, recebido %d", rr.Code)
	}
	fetched := decode(t, rr)
	if fetched["name"] != "X" || fetched["description"] != "Y" {
		t.Errorf("Get retornou registro diferente do criado: %v", fetched)
	}

	// Update
	rr = doRequest(s, "PUT", path, testToken, `{"name":"Z"}`)
	if rr.Code != 200 {
		t.Fatalf("Update: esperado 200, recebido %d", rr.Code)
	}
	updated := decode(t, rr)
	if updated["name"] != "Z" {
		t.Errorf("Update não aplicou o novo nome: %v", updated["name"])
	}
	if updated["description"] != "Y" {
		t.Errorf("Update deve preservar campos não enviados: %v", updated["description"])
	}
	if updated["created_at"] != created["created_at"] {
		t.Errorf("created_at mudou no update: %v -> %v", created["created_at"], updated["created_at"])
	}
	if updated["updated_at"] == "" || updated["updated_at"] == nil {
		t.Error("updated_at deve ser definido no update")
	}

	// Delete
	rr = doRequest(s, "DELETE", path, testToken, "")
	if rr.Code != 200 {
		t.Fatalf("Delete: esperado 200, recebido %d", rr.Code)
	}
	deleted := decode(t, rr)
	if deleted["message"] != fmt.Sprintf("Entity '%s' deleted successfully", id) {
		t.Errorf("Mensagem de delete incorreta: %v", deleted["message"])
	}
	if deleted["deleted"].(map[string]interface{})["id"] != id {
		t.Errorf("Registro deletado com id incorreto: %v", deleted["deleted"])
	}

	// Get após delete
	rr = doRequest(s, "GET", path, testToken, "")
	assertErrorEnvelope(t, rr, 404, fmt.Sprintf("Entity with ID '%s' not found", id))
}

func TestUpdateEntity_Errors(t *testing.T) {
	s, _ := newTestServer(0, 2)

	t.Run("Corpo inválido", func(t *testing.T) {
		rr := doRequest(s, "PUT", "/themes/fantasy_rpg/characters/1", testToken, "oops")
		assertErrorEnvelope(t, rr, 400, "Invalid JSON data")
	})

	t.Run("Id inexistente", func(t *testing.T) {
		rr := doRequest(s, "PUT", "/themes/fantasy_rpg/characters/99", testToken, `{"name":"Z"}`)
		assertErrorEnvelope(t, rr, 404, "Entity with ID '99' not found")
	})
}

func TestDeleteEntity_NotFound(t *testing.T) {
	s, _ := newTestServer(0, 2)

	rr := doRequest(s, "DELETE", "/themes/smart_city/traffic_sensors/42", testToken, "")
	assertErrorEnvelope(t, rr, 404, "Entity with ID '42' not found")
}

func TestErrorTest_ForcedKinds(t *testing.T) {
	s, _ := newTestServer(0, 2)

	t.Run("rate_limit sempre 429", func(t *testing.T) {
		rr := doRequest(s, "GET", "/error-test?type=rate_limit", "", "")
		assertErrorEnvelope(t, rr, 429, "Rate limit exceeded. Try again later.")
	})

	t.Run("server_error sempre 500", func(t *testing.T) {
		rr := doRequest(s, "GET", "/error-test?type=server_error", "", "")
		assertErrorEnvelope(t, rr, 500, "Internal server error occurred")
	})

	t.Run("validation_error sempre 422", func(t *testing.T) {
		rr := doRequest(s, "GET", "/error-test?type=validation_error", "", "")
		assertErrorEnvelope(t, rr, 422, "Invalid data format or content")
	})
}

func TestErrorTest_Catalog(t *testing.T) {
	s, _ := newTestServer(0, 2)

	for _, path := range []string{"/error-test", "/error-test?type=unknown"} {
		rr := doRequest(s, "GET", path, "", "")
		if rr.Code != 200 {
			t.Fatalf("%s: esperado 200, recebido %d", path, rr.Code)
		}

		body := decode(t, rr)
		available := body["available_errors"].(map[string]interface{})
		if len(available) != 4 {
			t.Errorf("%s: esperados 4 tipos no catálogo, recebidos %d", path, len(available))
		}
		if available["timeout"] != "Server timeout simulation" {
			t.Errorf("%s: descrição do timeout incorreta: %v", path, available["timeout"])
		}
	}
}

func TestFaultInjection_Reject(t *testing.T) {
	// errorRate 1 + roleta em 0.3 seleciona rate_limit em toda requisição
	s, provider := newTestServer(1, 2, 0.0, 0.3)

	rr := doRequest(s, "GET", "/themes/fantasy_rpg/characters", testToken, "")
	assertErrorEnvelope(t, rr, 429, "Rate limit exceeded. Try again later.")

	if provider.count("faults.injected") != 1 {
		t.Errorf("Falha injetada deveria ser contabilizada, contagem: %v", provider.count("faults.injected"))
	}
}

func TestFaultInjection_TimeoutDelaysThenSucceeds(t *testing.T) {
	// TimeoutSeconds abaixo de 1.0 degenera o atraso em 50ms (teste rápido)
	s, _ := newTestServer(1, 0.05, 0.0, 0.0, 0.5)

	start := time.Now()
	rr := doRequest(s, "GET", "/themes/fantasy_rpg/characters", testToken, "")
	elapsed := time.Since(start)

	if rr.Code != 200 {
		t.Fatalf("Timeout simulado deve seguir com a resposta normal, recebido %d", rr.Code)
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("Resposta veio antes do atraso injetado: %v", elapsed)
	}
}

func TestFaultInjection_OpenRoutesUnaffected(t *testing.T) {
	// Mesmo com errorRate 1, rotas abertas não passam pelo injetor
	s, _ := newTestServer(1, 2, 0.0, 0.3)

	for _, path := range []string{"/", "/docs", "/themes", "/themes/smart_city"} {
		rr := doRequest(s, "GET", path, "", "")
		if rr.Code != 200 {
			t.Errorf("%s: esperado 200, recebido %d", path, rr.Code)
		}
	}
}
