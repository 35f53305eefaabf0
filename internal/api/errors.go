package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/KibbyCaps/gem-casino/internal/games"
	"github.com/KibbyCaps/gem-casino/internal/ledger"
	"github.com/KibbyCaps/gem-casino/internal/session"
	"github.com/KibbyCaps/gem-casino/internal/users"
)

// Error type identifiers carried in responses.
const (
	errTypeValidation  = "VALIDATION"
	errTypeConflict    = "CONFLICT"
	errTypeAuth        = "AUTH"
	errTypeMaintenance = "MAINTENANCE"
	errTypeInternal    = "INTERNAL"
)

// apiError is the structured error payload.
type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// writeError writes a structured error response.
func (s *Server) writeError(w http.ResponseWriter, status int, errType, message string) {
	s.writeJSON(w, status, map[string]apiError{"error": {Type: errType, Message: message}})
}

// writeDomainError maps domain errors onto HTTP statuses. Anything
// unrecognized is an internal error with the detail withheld.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrMaintenance):
		s.writeError(w, http.StatusServiceUnavailable, errTypeMaintenance, err.Error())
	case errors.Is(err, ledger.ErrInsufficientGems),
		errors.Is(err, ledger.ErrWagerBounds),
		errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, games.ErrBadCell),
		errors.Is(err, games.ErrMineCount),
		errors.Is(err, games.ErrNoBetSelected),
		errors.Is(err, users.ErrEmptyField):
		s.writeError(w, http.StatusBadRequest, errTypeValidation, err.Error())
	case errors.Is(err, ledger.ErrWagerLocked),
		errors.Is(err, games.ErrRoundActive),
		errors.Is(err, games.ErrNoActiveRound),
		errors.Is(err, games.ErrCellRevealed),
		errors.Is(err, users.ErrUsernameTaken),
		errors.Is(err, users.ErrAlreadyBanned):
		s.writeError(w, http.StatusConflict, errTypeConflict, err.Error())
	case errors.Is(err, users.ErrInvalidCredentials),
		errors.Is(err, users.ErrBanned):
		s.writeError(w, http.StatusUnauthorized, errTypeAuth, err.Error())
	case errors.Is(err, users.ErrUserNotFound),
		errors.Is(err, session.ErrUnknownGame):
		s.writeError(w, http.StatusNotFound, errTypeValidation, err.Error())
	default:
		s.log.Error("unhandled domain error", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, errTypeInternal, "internal server error")
	}
}
