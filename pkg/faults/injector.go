package faults

import (
	"math/rand"
	"net/http"
	"time"
)

// Kind identifica um tipo de falha simulada.
type Kind string

const (
	KindTimeout         Kind = "timeout"
	KindRateLimit       Kind = "rate_limit"
	KindServerError     Kind = "server_error"
	KindValidationError Kind = "validation_error"
)

// fault descreve o peso relativo e a resposta de cada tipo de falha.
// A probabilidade de seleção é weight/somaDosPesos; os pesos não somam 1.
type fault struct {
	kind        Kind
	weight      float64
	description string
	status      int
	message     string
}

// A ordem do slice é a ordem da roleta de seleção ponderada.
var catalog = []fault{
	{
		kind:        KindTimeout,
		weight:      0.1,
		description: "Server timeout simulation",
	},
	{
		kind:        KindRateLimit,
		weight:      0.15,
		description: "Rate limiting simulation",
		status:      http.StatusTooManyRequests,
		message:     "Rate limit exceeded. Try again later.",
	},
	{
		kind:        KindServerError,
		weight:      0.1,
		description: "Internal server error simulation",
		status:      http.StatusInternalServerError,
		message:     "Internal server error occurred",
	},
	{
		kind:        KindValidationError,
		weight:      0.2,
		description: "Data validation error simulation",
		status:      http.StatusUnprocessableEntity,
		message:     "Invalid data format or content",
	},
}

// Catalog retorna a descrição de cada tipo de falha, na ordem de declaração.
func Catalog() []struct{ Kind, Description string } {
	out := make([]struct{ Kind, Description string }, 0, len(catalog))
	for _, f := range catalog {
		out = append(out, struct{ Kind, Description string }{string(f.kind), f.description})
	}
	return out
}

// Settings são os parâmetros de simulação vigentes no momento do sorteio.
type Settings struct {
	// ErrorRate é a probabilidade [0,1] de injetar alguma falha.
	ErrorRate float64
	// TimeoutSeconds é o teto do atraso sorteado para o tipo timeout.
	TimeoutSeconds float64
}

// Source abstrai a fonte de aleatoriedade, permitindo sequências fixas em testes.
type Source interface {
	// Float64 retorna um valor uniforme em [0, 1).
	Float64() float64
}

type defaultSource struct {
	r *rand.Rand
}

func (d *defaultSource) Float64() float64 {
	return d.r.Float64()
}

// Outcome é o resultado do sorteio para uma requisição.
// Kind vazio significa passagem direta; Delay > 0 atrasa e depois prossegue;
// Status != 0 rejeita a requisição com a mensagem correspondente.
type Outcome struct {
	Kind    Kind
	Delay   time.Duration
	Status  int
	Message string
}

// Pass informa se a requisição segue sem nenhuma falha injetada.
func (o Outcome) Pass() bool {
	return o.Kind == ""
}

// Rejects informa se a requisição deve ser respondida com erro imediato.
func (o Outcome) Rejects() bool {
	return o.Status != 0
}

// Injector sorteia falhas por requisição. As Settings são relidas a cada
// sorteio através do provider, permitindo hot reload da taxa de erro.
type Injector struct {
	settings func() Settings
	src      Source
}

// Option configura o Injector na criação.
type Option func(*Injector)

// WithSource substitui a fonte de aleatoriedade (default: math/rand).
func WithSource(src Source) Option {
	return func(i *Injector) {
		i.src = src
	}
}

// NewInjector cria um injetor com o provider de configuração informado.
func NewInjector(settings func() Settings, opts ...Option) *Injector {
	i := &Injector{
		settings: settings,
		src:      &defaultSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Draw realiza o sorteio de falha para uma requisição elegível.
func (i *Injector) Draw() Outcome {
	s := i.settings()

	if i.src.Float64() >= s.ErrorRate {
		return Outcome{}
	}

	f := i.pick()
	if f.kind == KindTimeout {
		return Outcome{Kind: KindTimeout, Delay: i.drawDelay(s.TimeoutSeconds)}
	}
	return Outcome{Kind: f.kind, Status: f.status, Message: f.message}
}

// pick seleciona o tipo de falha via roleta ponderada.
func (i *Injector) pick() fault {
	var total float64
	for _, f := range catalog {
		total += f.weight
	}

	target := i.src.Float64() * total
	for _, f := range catalog {
		if target < f.weight {
			return f
		}
		target -= f.weight
	}
	// target == total só acontece em arredondamento de borda
	return catalog[len(catalog)-1]
}

// drawDelay sorteia o atraso uniforme em [1.0, timeoutSeconds].
// Abaixo de 1.0 o intervalo degenera no próprio teto.
func (i *Injector) drawDelay(timeoutSeconds float64) time.Duration {
	if timeoutSeconds < 1.0 {
		return time.Duration(timeoutSeconds * float64(time.Second))
	}
	d := 1.0 + i.src.Float64()*(timeoutSeconds-1.0)
	return time.Duration(d * float64(time.Second))
}

// Forced retorna o desfecho determinístico de um tipo de falha nomeado,
// usado pelo endpoint /error-test (ignora o modelo probabilístico).
// O timeout forçado usa atraso fixo de 3 segundos.
func Forced(kind string) (Outcome, bool) {
	for _, f := range catalog {
		if string(f.kind) != kind {
			continue
		}
		if f.kind == KindTimeout {
			return Outcome{Kind: KindTimeout, Delay: 3 * time.Second}, true
		}
		return Outcome{Kind: f.kind, Status: f.status, Message: f.message}, true
	}
	return Outcome{}, false
}
