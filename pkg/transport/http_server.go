package transport

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/idorf79/M1.3-REST-API/pkg/config"
	"github.com/idorf79/M1.3-REST-API/pkg/faults"
	"github.com/idorf79/M1.3-REST-API/pkg/metrics"
	"github.com/idorf79/M1.3-REST-API/pkg/store"
	"github.com/idorf79/M1.3-REST-API/pkg/themes"
)

// Server agrega as dependências da camada HTTP. Nenhum estado é global:
// registro de temas, store e injetor de falhas chegam por injeção explícita.
type Server struct {
	cfg      *config.Config
	registry *themes.Registry
	store    *store.Store
	injector *faults.Injector
	metrics  metrics.Provider
	logger   zerolog.Logger
}

// NewServer monta o servidor com todas as dependências.
func NewServer(cfg *config.Config, registry *themes.Registry, st *store.Store,
	injector *faults.Injector, provider metrics.Provider, logger zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		registry: registry,
		store:    st,
		injector: injector,
		metrics:  provider,
		logger:   logger,
	}
}

// Router registra todas as rotas da API.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	// Rotas abertas (sem token, sem injeção de falha)
	router.HandleFunc("/", s.handleAPIInfo).Methods(http.MethodGet)
	router.HandleFunc("/docs", s.handleDocs).Methods(http.MethodGet)
	router.HandleFunc("/error-test", s.handleErrorTest).Methods(http.MethodGet)
	router.HandleFunc("/themes", s.handleListThemes).Methods(http.MethodGet)
	router.HandleFunc("/themes/{theme_id}", s.handleThemeDetail).Methods(http.MethodGet)

	// Rotas de entidade: validação de rota -> auth -> injeção de falha -> handler
	router.HandleFunc("/themes/{theme_id}/{entity_type}",
		s.entityRoute(s.handleListEntities)).Methods(http.MethodGet)
	router.HandleFunc("/themes/{theme_id}/{entity_type}",
		s.entityRoute(s.handleCreateEntity)).Methods(http.MethodPost)
	router.HandleFunc("/themes/{theme_id}/{entity_type}/{entity_id}",
		s.entityRoute(s.handleGetEntity)).Methods(http.MethodGet)
	router.HandleFunc("/themes/{theme_id}/{entity_type}/{entity_id}",
		s.entityRoute(s.handleUpdateEntity)).Methods(http.MethodPut)
	router.HandleFunc("/themes/{theme_id}/{entity_type}/{entity_id}",
		s.entityRoute(s.handleDeleteEntity)).Methods(http.MethodDelete)

	return router
}

// Handler retorna o roteador já envolvido pelo middleware de observabilidade.
func (s *Server) Handler() http.Handler {
	return ObservabilityMiddleware(s.Router(), s.metrics)
}

// StartHTTPServer inicia o servidor HTTP na porta configurada.
func StartHTTPServer(s *Server) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info().Msgf("Servidor HTTP ouvindo em %s", addr)

	return http.ListenAndServe(addr, s.Handler())
}
