package responder

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorBody é o corpo padrão de toda resposta não-2xx do serviço.
type ErrorBody struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// JSON serializa o body com o status informado.
func JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Error().Err(err).Msg("erro ao encodar resposta json")
		}
	}
}

// Error responde com o envelope {code, name, description}.
// O name é o texto padrão do status HTTP (ex: "Not Found").
func Error(w http.ResponseWriter, status int, description string) {
	JSON(w, status, ErrorBody{
		Code:        status,
		Name:        http.StatusText(status),
		Description: description,
	})
}
