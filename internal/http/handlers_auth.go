package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"gofinances/internal/apperrors"
	"gofinances/internal/log"
	"gofinances/internal/session"
)

// handleMe returns the signed-in user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Load(r.Context()); err != nil {
		s.writeServiceError(w, r, "Failed to load session", apperrors.Wrap(apperrors.ErrUnavailable, err))
		return
	}
	user, ok := s.session.Current()
	if !ok {
		ErrorResponse(apperrors.ErrUnauthorized).Write(w)
		return
	}
	NewJSONResponse().Payload(toUserDTO(user)).Write(w)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.session.SignOut(r.Context()); err != nil {
		s.writeServiceError(w, r, "Failed to sign out", apperrors.Wrap(apperrors.ErrInternal, err))
		return
	}
	s.logger.InfoContext(r.Context(), "User signed out", log.FieldOperation, log.OpSignOut)
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

// handleGoogleLogin redirects to the consent page with a one-time state.
func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.google == nil {
		ErrorResponse(apperrors.ErrSignInDisabled).Write(w)
		return
	}
	state := uuid.NewString()
	s.stateCache.Set(state, time.Now())
	http.Redirect(w, r, s.google.AuthCodeURL(state), http.StatusFound)
}

// handleGoogleCallback completes the consent flow and signs the user in.
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.google == nil {
		ErrorResponse(apperrors.ErrSignInDisabled).Write(w)
		return
	}
	query := r.URL.Query()

	state := strings.TrimSpace(query.Get("state"))
	if _, ok := s.stateCache.Take(state); state == "" || !ok {
		ErrorResponse(apperrors.ErrInvalidState).Write(w)
		return
	}
	if reason := query.Get("error"); reason != "" {
		s.logger.WarnContext(r.Context(), "Google sign-in cancelled", "reason", reason)
		ErrorResponse(apperrors.Wrap(apperrors.ErrSignInFailed, fmt.Errorf("provider error: %s", reason))).Write(w)
		return
	}

	user, err := s.google.Exchange(r.Context(), query.Get("code"))
	if err != nil {
		s.structured.LogError(r.Context(), "Google code exchange failed", err, log.OpSignIn, nil)
		ErrorResponse(apperrors.Wrap(apperrors.ErrSignInFailed, err)).Write(w)
		return
	}

	if err := s.session.SignIn(r.Context(), user); err != nil {
		if errors.Is(err, session.ErrNoIdentity) {
			ErrorResponse(apperrors.Wrap(apperrors.ErrSignInFailed, err)).Write(w)
			return
		}
		s.writeServiceError(w, r, "Failed to persist session", apperrors.Wrap(apperrors.ErrInternal, err))
		return
	}
	NewJSONResponse().Payload(toUserDTO(user)).Write(w)
}
