package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/logger"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/storage"
)

type UserHandler struct {
	users storage.UserRepository
}

func NewUserHandler(users storage.UserRepository) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

// CreateClerk registers a new CLERK account.
func (h *UserHandler) CreateClerk(w http.ResponseWriter, r *http.Request) {
	log := logger.Get(r.Context(), "Handler.User.CreateClerk")

	in := struct {
		Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
		Password string `json:"password" validate:"required,min=8,max=100"`
	}{}

	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	u := &model.User{
		Name:     in.Username,
		Password: in.Password,
		Role:     model.RoleClerk,
		Active:   true,
	}

	u, err := h.users.Create(r.Context(), u)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			log.Debug().Err(err).Send()
			WriteError(w, err, http.StatusConflict)
			return
		}
		log.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	WriteResponse(w, u, http.StatusCreated)
}

func (h *UserHandler) ListClerks(w http.ResponseWriter, r *http.Request) {
	log := logger.Get(r.Context(), "Handler.User.ListClerks")

	mm, err := h.users.AllByRole(r.Context(), model.RoleClerk)
	if err != nil {
		log.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}

// DisableClerk revokes a clerk's access; their sessions stop resolving.
func (h *UserHandler) DisableClerk(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	log := logger.Get(r.Context(), "Handler.User.DisableClerk")
	log.Debug().Str("username", username).Send()

	if err := h.users.SetActive(r.Context(), username, false); err != nil {
		log.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
