package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/idorf79/M1.3-REST-API/pkg/faults"
	"github.com/idorf79/M1.3-REST-API/pkg/responder"
	"github.com/idorf79/M1.3-REST-API/pkg/store"
)

// Campos obrigatórios na criação de qualquer entidade.
var requiredFields = []string{"name", "description"}

func (s *Server) handleAPIInfo(w http.ResponseWriter, r *http.Request) {
	themeNames := make(map[string]string)
	for _, t := range s.registry.List() {
		themeNames[t.ID] = t.Name
	}

	responder.JSON(w, http.StatusOK, map[string]interface{}{
		"name":          "Integration Testing Learning API",
		"version":       "1.0.0",
		"description":   "API for learning integration testing with different themes",
		"themes":        themeNames,
		"documentation": "/docs",
	})
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	type endpoint struct {
		Path        string `json:"path"`
		Method      string `json:"method"`
		Description string `json:"description"`
	}

	responder.JSON(w, http.StatusOK, map[string]interface{}{
		"documentation": "API Documentation",
		"endpoints": []endpoint{
			{Path: "/", Method: "GET", Description: "Get API information"},
			{Path: "/docs", Method: "GET", Description: "Get API documentation"},
			{Path: "/themes", Method: "GET", Description: "List available themes"},
			{Path: "/themes/{theme_id}", Method: "GET", Description: "Get theme details"},
			{Path: "/themes/{theme_id}/{entity_type}", Method: "GET", Description: "List entities of a type"},
			{Path: "/themes/{theme_id}/{entity_type}", Method: "POST", Description: "Create a new entity"},
			{Path: "/themes/{theme_id}/{entity_type}/{entity_id}", Method: "GET", Description: "Get entity details"},
			{Path: "/themes/{theme_id}/{entity_type}/{entity_id}", Method: "PUT", Description: "Update an entity"},
			{Path: "/themes/{theme_id}/{entity_type}/{entity_id}", Method: "DELETE", Description: "Delete an entity"},
			{Path: "/error-test", Method: "GET", Description: "Test different error responses"},
		},
		"authentication":   fmt.Sprintf("Use X-API-Token header with value '%s'", s.cfg.APIToken),
		"error_simulation": "The API randomly simulates errors for testing purposes",
	})
}

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	type themeSummary struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	list := s.registry.List()
	summaries := make([]themeSummary, 0, len(list))
	for _, t := range list {
		summaries = append(summaries, themeSummary{ID: t.ID, Name: t.Name, Description: t.Description})
	}

	responder.JSON(w, http.StatusOK, map[string]interface{}{"themes": summaries})
}

func (s *Server) handleThemeDetail(w http.ResponseWriter, r *http.Request) {
	themeID := mux.Vars(r)["theme_id"]

	theme, ok := s.registry.Get(themeID)
	if !ok {
		responder.Error(w, http.StatusNotFound, fmt.Sprintf("Theme '%s' not found", themeID))
		return
	}

	type entityCount struct {
		Type  string `json:"type"`
		Count int    `json:"count"`
	}
	counts := make([]entityCount, 0, len(theme.Entities))
	for _, entity := range theme.Entities {
		counts = append(counts, entityCount{Type: entity, Count: s.store.Count(themeID, entity)})
	}

	responder.JSON(w, http.StatusOK, map[string]interface{}{
		"id":          theme.ID,
		"name":        theme.Name,
		"description": theme.Description,
		"entities":    counts,
	})
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request, themeID, entityType string) {
	responder.JSON(w, http.StatusOK, map[string]interface{}{
		"theme":       themeID,
		"entity_type": entityType,
		"items":       s.store.List(themeID, entityType),
	})
}

func (s *Server) handleCreateEntity(w http.ResponseWriter, r *http.Request, themeID, entityType string) {
	data, ok := decodeBody(r)
	if !ok {
		responder.Error(w, http.StatusBadRequest, "Invalid JSON data")
		return
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := data[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		responder.Error(w, http.StatusBadRequest,
			fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
		return
	}

	record, err := s.store.Create(themeID, entityType, data)
	if err != nil {
		responder.Error(w, http.StatusNotFound,
			fmt.Sprintf("Entity type '%s' not found in theme '%s'", entityType, themeID))
		return
	}

	responder.JSON(w, http.StatusCreated, record)
}

func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request, themeID, entityType string) {
	entityID := mux.Vars(r)["entity_id"]

	record, err := s.store.GetByID(themeID, entityType, entityID)
	if err != nil {
		s.respondNotFound(w, entityID)
		return
	}

	responder.JSON(w, http.StatusOK, record)
}

func (s *Server) handleUpdateEntity(w http.ResponseWriter, r *http.Request, themeID, entityType string) {
	entityID := mux.Vars(r)["entity_id"]

	data, ok := decodeBody(r)
	if !ok {
		responder.Error(w, http.StatusBadRequest, "Invalid JSON data")
		return
	}

	record, err := s.store.Update(themeID, entityType, entityID, data)
	if err != nil {
		s.respondNotFound(w, entityID)
		return
	}

	responder.JSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteEntity(w http.ResponseWriter, r *http.Request, themeID, entityType string) {
	entityID := mux.Vars(r)["entity_id"]

	record, err := s.store.Delete(themeID, entityType, entityID)
	if err != nil {
		s.respondNotFound(w, entityID)
		return
	}

	responder.JSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Entity '%s' deleted successfully", entityID),
		"deleted": record,
	})
}

// handleErrorTest força a falha nomeada na query string, ignorando o modelo
// probabilístico. Sem tipo (ou tipo desconhecido) responde o catálogo.
func (s *Server) handleErrorTest(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")

	outcome, ok := faults.Forced(kind)
	if !ok {
		available := make(map[string]string)
		for _, entry := range faults.Catalog() {
			available[entry.Kind] = entry.Description
		}
		responder.JSON(w, http.StatusOK, map[string]interface{}{
			"available_errors": available,
		})
		return
	}

	if outcome.Delay > 0 {
		select {
		case <-time.After(outcome.Delay):
		case <-r.Context().Done():
			return
		}
		responder.JSON(w, http.StatusOK, map[string]interface{}{
			"message": "Response after timeout",
		})
		return
	}

	responder.Error(w, outcome.Status, outcome.Message)
}

func (s *Server) respondNotFound(w http.ResponseWriter, entityID string) {
	responder.Error(w, http.StatusNotFound,
		fmt.Sprintf("Entity with ID '%s' not found", entityID))
}

// decodeBody interpreta o corpo como um objeto JSON. Corpo ausente, inválido
// ou vazio é tratado como requisição malformada, como na API original.
func decodeBody(r *http.Request) (store.Record, bool) {
	defer r.Body.Close()

	var data store.Record
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}
