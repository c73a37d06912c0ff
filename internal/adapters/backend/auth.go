package backend

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// authResponse is the body returned by the signup and token endpoints.
// AccessToken may be absent on signup when the service defers the session
// to a confirmation step.
type authResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (r authResponse) session() Session {
	return Session{
		UserID:      r.User.ID,
		Email:       r.User.Email,
		AccessToken: r.AccessToken,
	}
}

// SignUp creates an account. The returned session may lack an access
// token; persistence of any cached signup data must wait for a
// SessionEstablished event, never for this call.
// POST: on success with a token, SessionEstablished has been published
func (c *Client) SignUp(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, body)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Session{}, decodeError(resp)
	}

	var ar authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return Session{}, err
	}
	sess := ar.session()
	slog.Info("auth_event", "event", "signup", "user_id", sess.UserID, "has_session", sess.AccessToken != "")
	if sess.AccessToken != "" {
		c.notifier.publish(Event{Type: SessionEstablished, Session: sess})
	}
	return sess, nil
}

// SignInWithPassword authenticates with credentials.
// POST: on success, SessionEstablished has been published
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", nil, body)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Session{}, decodeError(resp)
	}

	var ar authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return Session{}, err
	}
	sess := ar.session()
	slog.Info("auth_event", "event", "login_success", "user_id", sess.UserID)
	c.notifier.publish(Event{Type: SessionEstablished, Session: sess})
	return sess, nil
}

// SignOut revokes the session behind token. Used both for logout and for
// tearing down an authenticated-but-unauthorized staff login.
// POST: SessionCleared has been published
func (c *Client) SignOut(ctx context.Context, token string) error {
	headers := map[string]string{"Authorization": "Bearer " + token}
	resp, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", headers, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	slog.Info("auth_event", "event", "logout")
	c.notifier.publish(Event{Type: SessionCleared})
	return nil
}

// GetUser resolves the session behind token. A missing or expired
// session returns ErrNoSession, the expected logged-out state, not a
// failure.
func (c *Client) GetUser(ctx context.Context, token string) (Session, error) {
	headers := map[string]string{"Authorization": "Bearer " + token}
	resp, err := c.do(ctx, http.MethodGet, "/auth/v1/user", headers, nil)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Session{}, ErrNoSession
	}
	if resp.StatusCode != http.StatusOK {
		return Session{}, decodeError(resp)
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return Session{}, err
	}
	return Session{UserID: user.ID, Email: user.Email, AccessToken: token}, nil
}
