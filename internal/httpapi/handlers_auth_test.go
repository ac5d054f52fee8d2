package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestRegister_CreatesUserAndToken(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "Alice@Example.com",
		"password": "secret1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	r := decodeEnvelope(t, body)
	if !r.Success || r.Message != "User registered successfully!" {
		t.Fatalf("unexpected envelope: %+v", r)
	}

	var envelope struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				ID       string `json:"id"`
				Username string `json:"username"`
				Email    string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data.Token == "" {
		t.Error("token missing")
	}
	if envelope.Data.User.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", envelope.Data.User.Email)
	}
	if envelope.Data.User.ID == "" {
		t.Error("user id missing")
	}
}

func TestRegister_AggregatesValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "ab",
		"email":    "nope",
		"password": "short",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			ValidationErrors []string `json:"validationErrors"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Success {
		t.Error("success should be false")
	}
	if len(envelope.Error.ValidationErrors) != 3 {
		t.Fatalf("expected 3 validation errors, got %v", envelope.Error.ValidationErrors)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "secret1",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	r := decodeEnvelope(t, body)
	if r.Message != "user with this email already exists" {
		t.Fatalf("unexpected message: %q", r.Message)
	}
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	resp, body := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	r := decodeEnvelope(t, body)
	if !r.Success || r.Message != "Login successful!" {
		t.Fatalf("unexpected envelope: %+v", r)
	}
}

func TestLogin_SameFailureShapeForUnknownEmailAndWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	respUnknown, bodyUnknown := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret1",
	})
	respWrong, bodyWrong := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})

	if respUnknown.StatusCode != http.StatusUnauthorized || respWrong.StatusCode != http.StatusUnauthorized {
		t.Fatalf("statuses = %d/%d, want 401/401", respUnknown.StatusCode, respWrong.StatusCode)
	}

	mUnknown := decodeEnvelope(t, bodyUnknown).Message
	mWrong := decodeEnvelope(t, bodyWrong).Message
	if mUnknown != mWrong || mUnknown != "Invalid email or password" {
		t.Fatalf("failure messages differ: %q vs %q", mUnknown, mWrong)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if m := decodeEnvelope(t, body).Message; m != "Email and password are required" {
		t.Fatalf("unexpected message: %q", m)
	}
}

func TestMe_ReturnsProfileAndPenguinCount(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice", "alice@example.com")
	env.createPenguin(t, token, "Pingu", "Emperor")
	env.createPenguin(t, token, "Skipper", "Adelie")

	resp, body := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	var envelope struct {
		Data struct {
			PenguinCount int64 `json:"penguinCount"`
			User         struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data.User.Username != "alice" || envelope.Data.PenguinCount != 2 {
		t.Fatalf("unexpected data: %+v", envelope.Data)
	}
}

func TestVerify_ReturnsClaims(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice", "alice@example.com")

	resp, body := env.do(t, http.MethodGet, "/api/auth/verify", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if m := decodeEnvelope(t, body).Message; m != "Token is valid" {
		t.Fatalf("unexpected message: %q", m)
	}
}

func TestLogout_StatelessConfirmation(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "alice", "alice@example.com")

	resp, body := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if m := decodeEnvelope(t, body).Message; m != "Logout successful" {
		t.Fatalf("unexpected message: %q", m)
	}

	// the token still works afterwards: logout is client-side only
	resp, _ = env.do(t, http.MethodGet, "/api/auth/verify", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("token rejected after logout: %d", resp.StatusCode)
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/penguins"},
		{http.MethodGet, "/api/penguins/stats"},
		{http.MethodGet, "/api/penguins/search?q=a"},
		{http.MethodGet, "/api/penguins/123"},
		{http.MethodPost, "/api/penguins"},
		{http.MethodPut, "/api/penguins/123"},
		{http.MethodDelete, "/api/penguins/123"},
		{http.MethodGet, "/api/auth/me"},
	}
	for _, p := range paths {
		resp, body := env.do(t, p.method, p.path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s: status %d, want 401 (body %s)", p.method, p.path, resp.StatusCode, body)
		}
		if m := decodeEnvelope(t, body).Message; m != "Access token required" {
			t.Errorf("%s %s: message %q", p.method, p.path, m)
		}
	}
}

func TestProtectedRoutes_RejectGarbageToken(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/penguins", "not-a-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if m := decodeEnvelope(t, body).Message; m != "Invalid or expired token" {
		t.Fatalf("unexpected message: %q", m)
	}
}
