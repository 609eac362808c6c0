package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"postboard/internal/config"
	"postboard/internal/service"
)

type Handlers struct {
	PostService service.PostService
	Cfg         *config.Config
	Validate    *validator.Validate
}

func NewHandlers(service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		PostService: service.Post,
		Cfg:         config,
		Validate:    validator.New(),
	}
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, MessageResponse{Message: "ok"}, http.StatusOK)
}
