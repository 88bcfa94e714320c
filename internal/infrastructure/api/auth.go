package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"futbal/internal/domain"
	"futbal/internal/domain/entities"
	"futbal/internal/ports/output"
)

var (
	_ output.AuthAPI    = (*Client)(nil)
	_ output.ProfileAPI = (*Client)(nil)
)

// CurrentUser resolves the session. A 401/403 means "no session" and is not an error;
// the rejected token is dropped so later requests go out anonymous.
func (c *Client) CurrentUser(ctx context.Context) (*entities.User, error) {
	const op = "current user"
	var dto userDTO
	if err := c.do(ctx, op, http.MethodGet, "/auth/me", nil, &dto); err != nil {
		if isUnauthenticated(err) {
			c.setToken("")
			return nil, nil
		}
		return nil, err
	}
	u, err := userToDomain(dto)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("malformed payload: %w", err)}
	}
	return &u, nil
}

func (c *Client) Login(ctx context.Context, creds entities.Credentials) (*entities.User, error) {
	body := credentialsDTO{Username: creds.Username, Password: creds.Password}
	return c.authenticate(ctx, "login", "/auth/login", body)
}

func (c *Client) Signup(ctx context.Context, f entities.SignupFields) (*entities.User, error) {
	body := signupDTO{
		Username:        f.Username,
		Email:           f.Email,
		Password:        f.Password,
		PasswordConfirm: f.PasswordConfirm,
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Location:        f.Location,
	}
	return c.authenticate(ctx, "signup", "/auth/signup", body)
}

func (c *Client) LoginWithGoogle(ctx context.Context, accessToken string) (*entities.User, error) {
	return c.authenticate(ctx, "google login", "/auth/google", googleDTO{AccessToken: accessToken})
}

// authenticate posts body and stores the returned token. When the response carries no
// user the identity is resolved through /auth/me.
func (c *Client) authenticate(ctx context.Context, op, path string, body any) (*entities.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodPost, path, body, &raw); err != nil {
		return nil, err
	}

	var envelope authResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	token := envelope.Token
	if token == "" {
		token = envelope.Key
	}
	if token != "" {
		c.setToken(token)
	}

	dto := envelope.User
	if dto == nil && len(raw) > 0 {
		var bare userDTO
		if err := json.Unmarshal(raw, &bare); err == nil && bare.ID != 0 {
			dto = &bare
		}
	}
	if dto == nil {
		u, err := c.CurrentUser(ctx)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
		}
		return u, nil
	}

	u, err := userToDomain(*dto)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("malformed payload: %w", err)}
	}
	return &u, nil
}

// Logout ends the remote session. The local token is dropped whatever the outcome.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil)
	c.setToken("")
	return err
}

func (c *Client) UpdateProfile(ctx context.Context, patch entities.ProfilePatch) (*entities.User, error) {
	const op = "update profile"
	var dto *userDTO
	if err := c.do(ctx, op, http.MethodPatch, "/users/me", profileToWire(patch), &dto); err != nil {
		return nil, err
	}
	if dto == nil {
		return nil, nil
	}
	u, err := userToDomain(*dto)
	if err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("malformed payload: %w", err)}
	}
	return &u, nil
}
