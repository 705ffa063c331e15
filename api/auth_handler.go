package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder    Responder
	logger       zerolog.Logger
	service      *services.AuthService
	secureCookie bool
}

func newAuthHandler(service *services.AuthService, secureCookie bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		service:      service,
		secureCookie: secureCookie,
	}
}

// login
// @Summary Log in
// @Description Verifies the credentials and sets the admin_token cookie
// @Param credentials body models.Credentials true "Email and password"
// @Success 200 {object} envelope "Admin"
// @Failure 401 {object} envelope "Invalid credentials"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		if err := decodeJSON(w, r, &creds); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		session, err := h.service.Login(r.Context(), creds)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "admin", err))
			return
		}

		h.setSession(w, session)
		h.responder.WriteData(w, http.StatusOK, "Logged in", session.Admin)
	}
}

// @Summary Log out
// @Success 200 {object} envelope
// @Router /auth/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, expiredSessionCookie(h.secureCookie))
		h.responder.WriteData(w, http.StatusOK, "Logged out", nil)
	}
}

// register creates the one admin account
// @Summary Register admin
// @Success 201 {object} envelope "Admin"
// @Failure 400 {object} envelope "Admin already exists"
// @Router /auth/register [post]
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		if err := decodeJSON(w, r, &creds); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		session, err := h.service.Register(r.Context(), creds)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "admin", err))
			return
		}

		h.setSession(w, session)
		h.responder.WriteData(w, http.StatusCreated, "Admin created", session.Admin)
	}
}

// @Summary Current admin
// @Success 200 {object} envelope "Admin"
// @Failure 401 {object} envelope "Unauthorized"
// @Router /auth/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := ctxGetIdentity(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		admin, err := h.service.Me(r.Context(), identity)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "admin", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, "OK", admin)
	}
}

// update changes the admin's own email and/or password and reissues the cookie
// @Summary Update credentials
// @Param update body models.CredentialsUpdate true "New email and/or password"
// @Success 200 {object} envelope "Admin"
// @Failure 400 {object} envelope "Email already in use"
// @Failure 401 {object} envelope "Unauthorized"
// @Router /auth/update [post]
func (h authHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := ctxGetIdentity(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var update models.CredentialsUpdate
		if err := decodeJSON(w, r, &update); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		session, err := h.service.UpdateCredentials(r.Context(), identity, update)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "admin", err))
			return
		}

		h.setSession(w, session)
		h.responder.WriteData(w, http.StatusOK, "Credentials updated", session.Admin)
	}
}

func (h authHandler) setSession(w http.ResponseWriter, session services.Session) {
	http.SetCookie(w, newSessionCookie(session.Token, h.service.Tokens().TTL(), h.secureCookie))
}
