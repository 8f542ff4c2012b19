package store

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/idorf79/M1.3-REST-API/pkg/themes"
)

// TimeLayout é o formato dos campos created_at e updated_at.
const TimeLayout = "2006-01-02 15:04:05"

// ErrNotFound indica que nenhum registro possui o id solicitado na coleção.
var ErrNotFound = errors.New("entity not found")

// Record é um documento livre de campos JSON. Os campos reservados são
// "id", "created_at" e "updated_at", gerenciados exclusivamente pelo Store.
type Record map[string]interface{}

// Clock abstrai a fonte de tempo para permitir timestamps determinísticos em testes.
type Clock func() time.Time

// collection guarda os registros de um par (tema, tipo de entidade).
// O contador nextID é monotônico e nunca reutilizado após um delete,
// garantindo unicidade de id mesmo com remoções intercaladas.
type collection struct {
	mu     sync.RWMutex
	items  []Record
	nextID int
}

// Store mantém as coleções em memória, uma por par (tema, tipo de entidade).
// O mapa de coleções é construído na criação e nunca mais modificado, então
// apenas o mutex de cada coleção protege o estado mutável.
type Store struct {
	collections map[string]*collection
	now         Clock
}

// Option configura o Store na criação.
type Option func(*Store)

// WithClock substitui a fonte de tempo (default: time.Now).
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.now = c
	}
}

// New cria coleções vazias para cada par (tema, tipo) declarado no registro.
func New(reg *themes.Registry, opts ...Option) *Store {
	s := &Store{
		collections: make(map[string]*collection),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, t := range reg.List() {
		for _, entity := range t.Entities {
			s.collections[key(t.ID, entity)] = &collection{nextID: 1}
		}
	}

	return s
}

func key(themeID, entityType string) string {
	return themeID + "/" + entityType
}

func (s *Store) collection(themeID, entityType string) *collection {
	return s.collections[key(themeID, entityType)]
}

// List retorna uma cópia dos registros da coleção, na ordem de inserção.
// Nunca retorna a referência viva: mutações posteriores não afetam o snapshot.
func (s *Store) List(themeID, entityType string) []Record {
	c := s.collection(themeID, entityType)
	if c == nil {
		return []Record{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Record, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item.clone())
	}
	return out
}

// Count retorna o total de registros da coleção.
func (s *Store) Count(themeID, entityType string) int {
	c := s.collection(themeID, entityType)
	if c == nil {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Create anexa um novo registro ao fim da coleção, atribuindo id sequencial
// e created_at. Campos reservados vindos do chamador são sobrescritos.
func (s *Store) Create(themeID, entityType string, fields Record) (Record, error) {
	c := s.collection(themeID, entityType)
	if c == nil {
		return nil, ErrNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rec := fields.clone()
	rec["id"] = strconv.Itoa(c.nextID)
	rec["created_at"] = s.now().Format(TimeLayout)
	c.nextID++
	c.items = append(c.items, rec)

	return rec.clone(), nil
}

// GetByID retorna uma cópia do registro com o id informado.
func (s *Store) GetByID(themeID, entityType, id string) (Record, error) {
	c := s.collection(themeID, entityType)
	if c == nil {
		return nil, ErrNotFound
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, item := range c.items {
		if item["id"] == id {
			return item.clone(), nil
		}
	}
	return nil, ErrNotFound
}

// Update substitui o registro na mesma posição: campos antigos sobrescritos
// pelos do chamador, com id e created_at restaurados aos valores originais
// e updated_at sempre renovado.
func (s *Store) Update(themeID, entityType, id string, fields Record) (Record, error) {
	c := s.collection(themeID, entityType)
	if c == nil {
		return nil, ErrNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item["id"] != id {
			continue
		}

		updated := item.clone()
		for k, v := range fields {
			updated[k] = v
		}
		updated["id"] = id
		updated["created_at"] = item["created_at"]
		updated["updated_at"] = s.now().Format(TimeLayout)

		c.items[i] = updated
		return updated.clone(), nil
	}
	return nil, ErrNotFound
}

// Delete remove o registro e o retorna. A ordem dos demais é preservada.
func (s *Store) Delete(themeID, entityType, id string) (Record, error) {
	c := s.collection(themeID, entityType)
	if c == nil {
		return nil, ErrNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item["id"] != id {
			continue
		}
		c.items = append(c.items[:i], c.items[i+1:]...)
		return item, nil
	}
	return nil, ErrNotFound
}

// seed insere registros pré-montados e avança o contador para além do maior
// id numérico semeado. Uso interno da carga de dados de exemplo.
func (s *Store) seed(themeID, entityType string, records []Record) {
	c := s.collection(themeID, entityType)
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rec := range records {
		c.items = append(c.items, rec.clone())
		if n, err := strconv.Atoi(toString(rec["id"])); err == nil && n >= c.nextID {
			c.nextID = n + 1
		}
	}
}

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}
