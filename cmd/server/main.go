package main

import (
	"log"

	zlog "github.com/rs/zerolog/log"

	"github.com/idorf79/M1.3-REST-API/pkg/config"
	"github.com/idorf79/M1.3-REST-API/pkg/faults"
	"github.com/idorf79/M1.3-REST-API/pkg/logger"
	"github.com/idorf79/M1.3-REST-API/pkg/observability"
	"github.com/idorf79/M1.3-REST-API/pkg/store"
	"github.com/idorf79/M1.3-REST-API/pkg/themes"
	"github.com/idorf79/M1.3-REST-API/pkg/transport"
)

// Variável injetável para mocking nos testes
var serverStarter = transport.StartHTTPServer

func main() {
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run contém a lógica principal testável
func run() error {
	// 1. Carrega e valida a configuração do ambiente
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 2. Logger estruturado (global, usado pelos middlewares)
	lg := logger.Configure(cfg.Logging)
	zlog.Logger = lg

	// 3. Catálogo de temas (embutido ou via THEMES_FILE)
	registry := themes.Default()
	if cfg.ThemesFile != "" {
		registry, err = themes.LoadFile(cfg.ThemesFile)
		if err != nil {
			return err
		}
	}

	// 4. Store em memória + dados de exemplo
	st := store.New(registry)
	if cfg.SeedData {
		store.Seed(st)
	}

	// 5. Métricas (Noop por padrão, Datadog se habilitado)
	provider, err := observability.SetupMetrics(cfg.Metrics)
	if err != nil {
		return err
	}

	// 6. Injetor de falhas com hot reload da taxa de erro
	injector := faults.NewInjector(func() faults.Settings {
		errorRate, timeoutSeconds := cfg.FaultSnapshot()
		return faults.Settings{ErrorRate: errorRate, TimeoutSeconds: timeoutSeconds}
	})

	srv := transport.NewServer(cfg, registry, st, injector, provider, lg)
	return serverStarter(srv)
}
