package cbtapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const loginPath = "/api/auth/login"

// LoginSchema requires a string token; userId is optional.
var LoginSchema = &Schema{
	Name: "login",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"token"},
		"properties": map[string]any{
			"token":  map[string]any{"type": "string", "minLength": 1},
			"userId": map[string]any{"type": []any{"string", "number"}},
		},
	},
}

// LoginRequest is the body of a password login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code,omitempty"`
}

// LoginResult carries the issued bearer token.
type LoginResult struct {
	Token  string
	UserID string
}

type loginResponse struct {
	Token  string          `json:"token"`
	UserID json.RawMessage `json:"userId"`
}

// Login exchanges a username and password for a bearer token. Services that
// omit userId leave it empty; callers fall back to the token claims.
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return LoginResult{}, fmt.Errorf("marshal login: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, loginPath, "", body)
	if err != nil {
		return LoginResult{}, err
	}
	if err := validateResponse(LoginSchema, raw); err != nil {
		return LoginResult{}, err
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return LoginResult{}, &InvalidResponseError{Content: raw, Err: err}
	}
	return LoginResult{Token: resp.Token, UserID: userIDText(resp.UserID)}, nil
}

// userIDText returns the text of a JSON string or number.
func userIDText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
