// Package api is a thin HTTP client for the filevault server API used by
// the interactive CLI.
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// FileInfo mirrors the server's file entity representation.
type FileInfo struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID int64  `json:"parentId"`
}

// Client talks to one server and carries the session token obtained by
// Login for subsequent requests.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// Token returns the current session token, if any.
func (c *Client) Token() string {
	return c.token
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set(common.TokenHeaderName, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return fmt.Errorf("server: %s", e.Error)
		}
		return fmt.Errorf("server: status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.postJSON(ctx, "/users", body, nil)
}

// Login opens a session and remembers the token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/connect", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(email, password)

	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(req, &out); err != nil {
		return err
	}

	c.token = out.Token
	return nil
}

// Logout closes the session and drops the token.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/disconnect", nil)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Upload stores data as a file/image entity, or creates a folder when data
// is nil and fileType is "folder".
func (c *Client) Upload(ctx context.Context, name, fileType string, parentID int64, isPublic bool, data []byte) (*FileInfo, error) {
	body := map[string]any{
		"name":     name,
		"type":     fileType,
		"parentId": parentID,
		"isPublic": isPublic,
	}
	if data != nil {
		body["data"] = base64.StdEncoding.EncodeToString(data)
	}

	var out FileInfo
	if err := c.postJSON(ctx, "/files", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns one page of entities under parentID.
func (c *Client) List(ctx context.Context, parentID int64, page int) ([]FileInfo, error) {
	url := fmt.Sprintf("%s/files?parentId=%d&page=%d", c.baseURL, parentID, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var out []FileInfo
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Content downloads the raw bytes of a file entity.
func (c *Client) Content(ctx context.Context, id int64) ([]byte, error) {
	url := fmt.Sprintf("%s/files/%d/data", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set(common.TokenHeaderName, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
