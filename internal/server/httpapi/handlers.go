package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/services"
)

// messages keeps the exact client-facing wording per validation cause.
var messages = map[error]string{
	common.ErrMissingEmail:       "Missing email",
	common.ErrMissingPassword:    "Missing password",
	common.ErrAlreadyExists:      "Already exist",
	common.ErrMissingName:        "Missing name",
	common.ErrMissingType:        "Missing type",
	common.ErrMissingData:        "Missing data",
	common.ErrParentNotFound:     "Parent not found",
	common.ErrParentNotFolder:    "Parent is not a folder",
	common.ErrInvalidPayload:     "Invalid data",
	common.ErrFolderHasNoContent: "A folder doesn't have content",
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates a service error into a status code and message.
// Validation problems map to 400, missing entities (including visibility
// denials) to 404, bad sessions to 401 and anything else to 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		msg := "Bad request"
		for cause, m := range messages {
			if errors.Is(err, cause) {
				msg = m
				break
			}
		}
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
	case errors.Is(err, common.ErrorUnauthorized):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Server error"})
	}
}

// currentUser resolves the X-Token header, or fails the request with 401.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, err := s.users.CurrentUser(r.Context(), r.Header.Get(common.TokenHeaderName))
	if err != nil {
		s.writeError(w, r, common.ErrorUnauthorized)
		return nil, false
	}
	return user, true
}

func pathID(r *http.Request) (models.ID, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, common.ErrorNotFound
	}
	return models.ID(id), nil
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{
		DB:       s.health.DBAlive(r.Context()),
		Sessions: s.health.SessionsAlive(r.Context()),
	})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.Count(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	files, err := s.files.Count(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statsResponse{Users: users, Files: files})
}

func (s *Server) postUsers(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.ErrMissingEmail)
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, userResponse{ID: int64(user.ID), Email: user.Email})
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, userResponse{ID: int64(user.ID), Email: user.Email})
}

func (s *Server) getConnect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("WWW-Authenticate", "Basic")
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Authentication Required"})
		return
	}

	token, err := s.users.Login(r.Context(), email, password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) getDisconnect(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentUser(w, r); !ok {
		return
	}

	if err := s.users.Logout(r.Context(), r.Header.Get(common.TokenHeaderName)); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postFiles(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.ErrMissingName)
		return
	}

	file, err := s.files.Create(r.Context(), user.ID, services.CreateRequest{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: models.ID(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toFileResponse(file))
}

func (s *Server) getFiles(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	// unparseable values fall back to 0, same as the root listing
	parentID, _ := strconv.ParseInt(r.URL.Query().Get("parentId"), 10, 64)
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	files, err := s.files.List(r.Context(), user.ID, models.ID(parentID), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]fileResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, toFileResponse(f))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getFileByID(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	file, err := s.files.Get(r.Context(), user.ID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toFileResponse(file))
}

func (s *Server) putPublish(w http.ResponseWriter, r *http.Request) {
	s.setPublic(w, r, true)
}

func (s *Server) putUnpublish(w http.ResponseWriter, r *http.Request) {
	s.setPublic(w, r, false)
}

func (s *Server) setPublic(w http.ResponseWriter, r *http.Request, value bool) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	file, err := s.files.SetPublic(r.Context(), user.ID, id, value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toFileResponse(file))
}

func (s *Server) getFileData(w http.ResponseWriter, r *http.Request) {
	// identity is optional here: public files are served to anyone
	viewer, _ := s.users.CurrentUser(r.Context(), r.Header.Get(common.TokenHeaderName))

	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, contentType, err := s.files.GetContent(r.Context(), viewer, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
