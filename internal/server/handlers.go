package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/rewriter/internal/history"
	"github.com/jonathan/rewriter/internal/server/middleware"
	"github.com/jonathan/rewriter/internal/types"
)

const (
	maxBodyBytes    = 1 << 20
	maxHistoryLimit = 100

	msgTextRequired  = "Text is required"
	msgRewriteFailed = "Failed to process rewrite request"
)

// SaveHistoryResponse is returned when a record is created.
type SaveHistoryResponse struct {
	ID uuid.UUID `json:"id"`
}

// handleRewrite generates one option per requested style.
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	var req types.RewriteRequest
	if err := s.decode(w, r, &req); err != nil {
		s.logger.Error("failed to decode rewrite request", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, msgRewriteFailed)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.errorResponse(w, http.StatusBadRequest, msgTextRequired)
		return
	}

	styles := requestStyles(req.Styles)
	options := s.rewriter.GenerateOptions(r.Context(), req.Text, styles)
	s.logger.Debug("generated rewrite options", "styles", len(styles), "chars", len(req.Text))
	s.jsonResponse(w, http.StatusOK, types.RewriteResponse{Options: options})
}

// requestStyles maps wire names to styles. Known names are canonicalized;
// unknown names pass through and rewrite with the default tone.
func requestStyles(names []string) []types.Style {
	if len(names) == 0 {
		return types.AllStyles()
	}
	styles := make([]types.Style, 0, len(names))
	for _, name := range names {
		if s, err := types.ParseStyle(name); err == nil {
			styles = append(styles, s)
			continue
		}
		styles = append(styles, types.Style(strings.TrimSpace(name)))
	}
	return styles
}

// handleListHistory returns the session's records, newest first.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	session, err := s.resolveSession(r, types.SessionID(r.URL.Query().Get("session")))
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	result := s.history.List(r.Context(), session, limit)
	if !result.OK() {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	s.jsonResponse(w, http.StatusOK, result.Value)
}

// parseLimit defaults to history.DefaultListLimit and caps at maxHistoryLimit.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return history.DefaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, &ErrValidation{Field: "limit", Message: "must be a positive integer"}
	}
	return min(limit, maxHistoryLimit), nil
}

// handleSaveHistory persists a rewrite request with no selection.
func (s *Server) handleSaveHistory(w http.ResponseWriter, r *http.Request) {
	var req types.SaveHistoryRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorFromErr(w, validationError(err))
		return
	}

	session, err := s.resolveSession(r, req.Session)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	result := s.history.Save(r.Context(), req.OriginalText, req.RewriteOptions, session)
	if !result.OK() {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save history")
		return
	}
	s.jsonResponse(w, http.StatusCreated, SaveHistoryResponse{ID: result.Value})
}

// handleSelectOption records the chosen option index on a record.
func (s *Server) handleSelectOption(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	var req types.SelectOptionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorFromErr(w, validationError(err))
		return
	}
	if *req.Index < 0 {
		s.errorFromErr(w, &ErrValidation{Field: "index", Message: "must not be negative"})
		return
	}

	if err := s.authorizeRecord(r, id); err != nil {
		s.errorFromErr(w, err)
		return
	}

	result := s.history.SetSelection(r.Context(), id, *req.Index)
	if !result.OK() {
		s.errorFromErr(w, result.Err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteHistory removes a record.
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	if err := s.authorizeRecord(r, id); err != nil {
		s.errorFromErr(w, err)
		return
	}

	result := s.history.Delete(r.Context(), id)
	if !result.OK() {
		s.errorFromErr(w, result.Err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveSession picks the session a history request acts on. With
// authentication the token's session wins and a different requested
// session is refused.
func (s *Server) resolveSession(r *http.Request, requested types.SessionID) (types.SessionID, error) {
	authenticated, ok := middleware.GetSession(r)
	switch {
	case ok && requested == "":
		return authenticated, nil
	case ok && requested != authenticated:
		return "", &ErrSessionMismatch{Requested: requested, Authenticated: authenticated}
	case requested == "":
		return "", &ErrValidation{Field: "session", Message: "is required"}
	default:
		return requested, nil
	}
}

// authorizeRecord checks that a token-authenticated caller owns record id.
// Records of other sessions are reported as not found.
func (s *Server) authorizeRecord(r *http.Request, id uuid.UUID) error {
	session, ok := middleware.GetSession(r)
	if !ok {
		return nil
	}
	return s.history.Get(r.Context(), session, id).Err
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// errorFromErr writes err with the status from HTTPStatus. Internal errors
// are logged and reported generically.
func (s *Server) errorFromErr(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	switch status {
	case http.StatusNotFound:
		s.errorResponse(w, status, "Record not found")
	case http.StatusInternalServerError:
		s.logger.Error("request failed", "error", err)
		s.errorResponse(w, status, "Internal server error")
	default:
		s.errorResponse(w, status, err.Error())
	}
}

// validationError converts validator output to the first failing field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: "failed " + fe.Tag()}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}
