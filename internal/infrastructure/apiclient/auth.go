package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/household-services/frontend/internal/core/ports"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login calls POST /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	var out ports.LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register calls POST /auth/register with a multipart form. Role-specific
// fields are only sent for the role they belong to.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"username", in.Username},
		{"email", in.Email},
		{"password", in.Password},
		{"role", in.Role},
	}
	switch in.Role {
	case "customer":
		fields = append(fields, [2]string{"contact_number", in.ContactNumber})
	case "professional":
		fields = append(fields, [2]string{"service_id", in.ServiceID})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return "", fmt.Errorf("encode register form: %w", err)
		}
	}

	if in.Role == "professional" && in.Document != nil {
		part, err := w.CreateFormFile("document", in.Document.Filename)
		if err != nil {
			return "", fmt.Errorf("encode register document: %w", err)
		}
		if _, err := io.Copy(part, in.Document.Content); err != nil {
			return "", fmt.Errorf("encode register document: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("encode register form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/register", &buf)
	if err != nil {
		return "", fmt.Errorf("build register request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out messageResponse
	if err := c.exchange(req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Logout calls POST /auth/logout, revoking the token server side.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, struct{}{}, nil)
}
