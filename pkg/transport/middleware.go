package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/idorf79/M1.3-REST-API/pkg/metrics"
	"github.com/idorf79/M1.3-REST-API/pkg/responder"
)

const (
	HeaderAPIToken      = "X-API-Token"
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
	ContextKeyCorrID    = "correlation_id"
)

// entityHandler é o contrato dos handlers de entidade, já com a rota validada.
type entityHandler func(w http.ResponseWriter, r *http.Request, themeID, entityType string)

// entityRoute aplica a cadeia de pré-condições das rotas de entidade, na ordem
// exigida pelo contrato: tema (404) -> tipo de entidade (404) -> token
// (401/403) -> injeção de falha (429/500/422 ou atraso). Só então o handler
// de negócio executa.
func (s *Server) entityRoute(h entityHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		themeID := vars["theme_id"]
		entityType := vars["entity_type"]

		if _, ok := s.registry.Get(themeID); !ok {
			responder.Error(w, http.StatusNotFound,
				fmt.Sprintf("Theme '%s' not found", themeID))
			return
		}
		if !s.registry.IsValidEntityType(themeID, entityType) {
			responder.Error(w, http.StatusNotFound,
				fmt.Sprintf("Entity type '%s' not found in theme '%s'", entityType, themeID))
			return
		}

		if !s.authorize(w, r) {
			return
		}
		if !s.injectFault(w, r) {
			return
		}

		h(w, r, themeID, entityType)
	}
}

// authorize valida o token estático compartilhado. Retorna false se a
// resposta já foi escrita (401 sem token, 403 token incorreto).
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	token := r.Header.Get(HeaderAPIToken)
	if token == "" {
		responder.Error(w, http.StatusUnauthorized, "API token is missing")
		return false
	}
	if token != s.cfg.APIToken {
		responder.Error(w, http.StatusForbidden, "Invalid API token")
		return false
	}
	return true
}

// injectFault sorteia e aplica a falha da requisição. Atrasos respeitam o
// contexto do cliente: desconexão durante o sleep abandona a resposta sem
// tocar no store (a mutação só acontece depois desta etapa).
func (s *Server) injectFault(w http.ResponseWriter, r *http.Request) bool {
	outcome := s.injector.Draw()
	if outcome.Pass() {
		return true
	}

	_ = s.metrics.Count(metrics.MetricFaultInjected, 1,
		[]string{"kind:" + string(outcome.Kind)})

	if outcome.Delay > 0 {
		select {
		case <-time.After(outcome.Delay):
		case <-r.Context().Done():
			return false
		}
	}

	if outcome.Rejects() {
		responder.Error(w, outcome.Status, outcome.Message)
		return false
	}

	// Falha de timeout: apenas atrasa, a requisição segue normalmente
	return true
}

// --- MIDDLEWARE DE OBSERVABILIDADE ---

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, fmt.Sprintf("%d", duration.Milliseconds()))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// ObservabilityMiddleware adiciona correlation id, latência e log estruturado
// por requisição, além de contadores e histograma de latência no provider.
func ObservabilityMiddleware(next http.Handler, provider metrics.Provider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		corrID := r.Header.Get(HeaderCorrelationID)
		if corrID == "" {
			corrID = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, corrID)

		logger := log.With().Str("correlation_id", corrID).Logger()
		ctx := logger.WithContext(r.Context())
		ctx = context.WithValue(ctx, ContextKeyCorrID, corrID)

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			startTime:      start,
		}

		next.ServeHTTP(wrapper, r.WithContext(ctx))

		latency := time.Since(start)
		tags := []string{
			"method:" + r.Method,
			fmt.Sprintf("status:%d", wrapper.statusCode),
		}
		_ = provider.Count(metrics.MetricRequests, 1, tags)
		_ = provider.Histogram(metrics.MetricLatency, float64(latency.Milliseconds()), tags)

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Int64("latency_ms", latency.Milliseconds()).
			Msg("request completed")
	})
}
