package handler

import (
	"errors"
	"net/http"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/logger"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/session"
	"bankoffice/internal/app/storage"
)

type AuthHandler struct {
	session session.Creator
	users   storage.UserRepository
}

func NewAuthHandler(users storage.UserRepository, sm session.Creator) *AuthHandler {
	return &AuthHandler{
		session: sm,
		users:   users,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.Get(r.Context(), "Handler.Auth.Login")

	in := struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Password string `json:"password" validate:"required,min=8,max=100"`
	}{}

	if err := readBody(r, &in); err != nil {
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	u, err := h.users.ReadByNameAndPassword(r.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			WriteError(w, apperr.ErrUnauthorized, http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Send()
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	if !u.Active {
		log.Debug().Str("username", u.Name).Msg("Disabled user login attempt")
		WriteError(w, apperr.ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	token, err := h.session.Create(r.Context(), u)
	if err != nil {
		WriteError(w, err, http.StatusInternalServerError)
		return
	}

	out := struct {
		Token    string     `json:"token"`
		Username string     `json:"username"`
		Role     model.Role `json:"role"`
	}{token, u.Name, u.Role}

	w.Header().Add("Authorization", "Bearer "+token)

	WriteResponse(w, out, http.StatusOK)
}
