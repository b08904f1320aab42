package httpapi

import "github.com/dmitrijs2005/filevault/internal/server/models"

type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type uploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID int64  `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// fileResponse is the wire shape of a file entity. The blob key is internal
// and never exposed.
type fileResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID int64  `json:"parentId"`
}

func toFileResponse(f *models.File) fileResponse {
	return fileResponse{
		ID:       int64(f.ID),
		UserID:   int64(f.UserID),
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: int64(f.ParentID),
	}
}

type statusResponse struct {
	DB       bool `json:"db"`
	Sessions bool `json:"sessions"`
}

type statsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}
