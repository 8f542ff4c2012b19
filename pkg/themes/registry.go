package themes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Theme descreve um domínio temático e os tipos de entidade que ele agrupa.
// O catálogo é imutável após a inicialização do processo.
type Theme struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Entities    []string `yaml:"entities" json:"entities"`
}

// Registry é o catálogo somente-leitura de temas disponíveis.
type Registry struct {
	order  []string
	themes map[string]Theme
}

// Default retorna o catálogo embutido, idêntico ao da API de laboratório original.
func Default() *Registry {
	return build([]Theme{
		{
			ID:          "space_exploration",
			Name:        "Space Exploration API",
			Description: "API for managing space missions and astronaut data",
			Entities:    []string{"missions", "astronauts", "spacecraft"},
		},
		{
			ID:          "fantasy_rpg",
			Name:        "Fantasy RPG API",
			Description: "API for managing characters, quests and items in a fantasy world",
			Entities:    []string{"characters", "quests", "items"},
		},
		{
			ID:          "smart_city",
			Name:        "Smart City API",
			Description: "API for managing smart city infrastructure and services",
			Entities:    []string{"traffic_sensors", "public_transport", "energy_consumption"},
		},
	})
}

// LoadFile carrega um catálogo alternativo a partir de um arquivo YAML.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo de temas: %w", err)
	}

	var list []Theme
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("erro ao parsear yaml de temas: %w", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("arquivo de temas vazio: %s", path)
	}

	for _, t := range list {
		if t.ID == "" || len(t.Entities) == 0 {
			return nil, fmt.Errorf("tema inválido no arquivo: id e entities são obrigatórios")
		}
	}

	return build(list), nil
}

func build(list []Theme) *Registry {
	reg := &Registry{themes: make(map[string]Theme, len(list))}
	for _, t := range list {
		reg.order = append(reg.order, t.ID)
		reg.themes[t.ID] = t
	}
	return reg
}

// List retorna os temas na ordem de declaração.
func (r *Registry) List() []Theme {
	out := make([]Theme, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.themes[id])
	}
	return out
}

// Get retorna o tema pelo identificador.
func (r *Registry) Get(id string) (Theme, bool) {
	t, ok := r.themes[id]
	return t, ok
}

// IsValidEntityType informa se o tipo de entidade pertence ao tema.
func (r *Registry) IsValidEntityType(themeID, entityType string) bool {
	t, ok := r.themes[themeID]
	if !ok {
		return false
	}
	for _, e := range t.Entities {
		if e == entityType {
			return true
		}
	}
	return false
}
