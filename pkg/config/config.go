package config

import (
	"github.com/idorf79/M1.3-REST-API/envloader"
)

// Config representa a configuração completa do serviço, carregada do ambiente.
//
// O token de API é um segredo estático compartilhado (cenário de laboratório),
// não um mecanismo real de autenticação.
type Config struct {
	// Port é a porta HTTP de escuta.
	Port int `env:"PORT" envDefault:"5000" validate:"gte=1,lte=65535"`
	// APIToken é o valor esperado no header X-API-Token das rotas protegidas.
	APIToken string `env:"API_TOKEN" envDefault:"student_test_token" validate:"required"`
	// ErrorRate é a probabilidade [0,1] de injeção de falha por requisição.
	ErrorRate float64 `env:"ERROR_RATE" envDefault:"0.2" validate:"gte=0,lte=1"`
	// TimeoutSeconds é o teto (em segundos) do atraso simulado de timeout.
	TimeoutSeconds float64 `env:"TIMEOUT_SECONDS" envDefault:"2.0" validate:"gte=0"`
	// ThemesFile permite sobrescrever o catálogo de temas via arquivo YAML.
	ThemesFile string `env:"THEMES_FILE"`
	// SeedData controla a carga dos registros de exemplo na inicialização.
	SeedData bool `env:"SEED_DATA" envDefault:"true"`

	Logging LoggingConf
	Metrics MetricsConf
}

// LoggingConf controla o logger estruturado (zerolog).
type LoggingConf struct {
	Enabled bool   `env:"LOG_ENABLED" envDefault:"true"`
	Level   string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format  string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

// MetricsConf agrupa os provedores de métricas suportados.
type MetricsConf struct {
	Datadog DatadogConf
}

// DatadogConf configura o envio de métricas via StatsD/Datadog.
// Desabilitado por padrão: o núcleo do serviço não exige observabilidade.
type DatadogConf struct {
	Enabled   bool   `env:"DD_ENABLED" envDefault:"false"`
	Addr      string `env:"DD_AGENT_HOST" envDefault:"127.0.0.1:8125"`
	Namespace string `env:"DD_NAMESPACE" envDefault:"integration_lab."`
}

// Load carrega a configuração do ambiente e valida os valores.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envloader.Load(cfg); err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// faultSettings espelha apenas os campos de simulação de erro, permitindo
// releitura do ambiente a cada requisição (hot reload).
type faultSettings struct {
	ErrorRate      float64 `env:"ERROR_RATE" envDefault:"0.2"`
	TimeoutSeconds float64 `env:"TIMEOUT_SECONDS" envDefault:"2.0"`
}

// FaultSnapshot relê ERROR_RATE e TIMEOUT_SECONDS do ambiente.
// Valores inválidos ou fora de faixa caem de volta nos valores de boot,
// para que um hot reload mal feito nunca derrube o serviço.
func (c *Config) FaultSnapshot() (errorRate, timeoutSeconds float64) {
	snap := faultSettings{}
	if err := envloader.Load(&snap); err != nil {
		return c.ErrorRate, c.TimeoutSeconds
	}
	if snap.ErrorRate < 0 || snap.ErrorRate > 1 {
		snap.ErrorRate = c.ErrorRate
	}
	if snap.TimeoutSeconds < 0 {
		snap.TimeoutSeconds = c.TimeoutSeconds
	}
	return snap.ErrorRate, snap.TimeoutSeconds
}
