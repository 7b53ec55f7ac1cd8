package v1

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tristan-Muggridge/pafin-code-challenge/internal/auth"
	"github.com/Tristan-Muggridge/pafin-code-challenge/internal/core/repository"
	logicv1 "github.com/Tristan-Muggridge/pafin-code-challenge/internal/logic/v1"
	"github.com/Tristan-Muggridge/pafin-code-challenge/middleware"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := repository.NewMemoryUserRepository()
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	revoked := auth.NewRevocationRegistry()

	h := NewHandler(
		logicv1.NewAuthService(users, codec, revoked),
		logicv1.NewUserService(users),
	)

	r := gin.New()
	h.RegisterAuthRoutes(r, true)
	api := r.Group("/api/users", middleware.AuthRequired(codec, revoked))
	h.RegisterUserRoutes(api)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("response is not JSON: %v\n%s", err, w.Body.String())
		}
	}
	return w, parsed
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

// bootstrapAndLogin seeds the admin account and returns a valid token.
func bootstrapAndLogin(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w, _ := doRequest(t, r, http.MethodPost, "/create-admin-user", "", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create-admin-user: %d %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Authorization", basicAuth("admin", "admin"))
	lw := httptest.NewRecorder()
	r.ServeHTTP(lw, req)
	if lw.Code != http.StatusOK {
		t.Fatalf("login: %d %s", lw.Code, lw.Body.String())
	}

	var parsed struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(lw.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("login response: %v", err)
	}
	if parsed.Data.Token == "" {
		t.Fatal("login returned no token")
	}
	return parsed.Data.Token
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newTestRouter(t)
	doRequest(t, r, http.MethodPost, "/create-admin-user", "", "")

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not basic", "Bearer something"},
		{"not base64", "Basic %%%%"},
		{"wrong password", basicAuth("admin", "nope")},
		{"unknown user", basicAuth("ghost", "admin")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			var parsed map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
				t.Fatalf("response: %v", err)
			}
			if parsed["status"] != "fail" || parsed["message"] != "Invalid credentials" {
				t.Errorf("body = %v", parsed)
			}
		})
	}
}

func TestGateRejections(t *testing.T) {
	r := newTestRouter(t)
	token := bootstrapAndLogin(t, r)

	t.Run("no token", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodGet, "/api/users", "", "")
		if w.Code != http.StatusUnauthorized || parsed["message"] != "No token provided" {
			t.Errorf("got %d %v", w.Code, parsed)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodGet, "/api/users", "not-a-jwt", "")
		if w.Code != http.StatusUnauthorized || parsed["message"] != "Invalid token" {
			t.Errorf("got %d %v", w.Code, parsed)
		}
	})

	t.Run("valid token passes", func(t *testing.T) {
		w, _ := doRequest(t, r, http.MethodGet, "/api/users", token, "")
		if w.Code != http.StatusOK {
			t.Errorf("got %d", w.Code)
		}
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	r := newTestRouter(t)
	token := bootstrapAndLogin(t, r)

	w, parsed := doRequest(t, r, http.MethodPost, "/logout", token, "")
	if w.Code != http.StatusOK || parsed["message"] != "Logged out successfully" {
		t.Fatalf("logout: %d %v", w.Code, parsed)
	}

	w, parsed = doRequest(t, r, http.MethodGet, "/api/users", token, "")
	if w.Code != http.StatusUnauthorized || parsed["message"] != "Token not allowed" {
		t.Errorf("revoked token: got %d %v", w.Code, parsed)
	}
}

func TestLogoutWithoutToken(t *testing.T) {
	r := newTestRouter(t)

	w, parsed := doRequest(t, r, http.MethodPost, "/logout", "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if parsed["message"] != "Unable to logout. No token provided" {
		t.Errorf("body = %v", parsed)
	}
}

func TestLogoutAcceptsUnissuedToken(t *testing.T) {
	r := newTestRouter(t)

	w, parsed := doRequest(t, r, http.MethodPost, "/logout", "never-issued", "")
	if w.Code != http.StatusOK || parsed["status"] != "success" {
		t.Errorf("got %d %v", w.Code, parsed)
	}
}

func TestCreateUser(t *testing.T) {
	r := newTestRouter(t)
	token := bootstrapAndLogin(t, r)

	t.Run("valid", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodPost, "/api/users", token,
			`{"name":"Alice","email":"alice@test.com","password":"Passw0rd!"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d: %v", w.Code, parsed)
		}
		user := parsed["data"].(map[string]any)["user"].(map[string]any)
		if user["email"] != "alice@test.com" || user["id"] == "" {
			t.Errorf("user = %v", user)
		}
		if _, leaked := user["password"]; leaked {
			t.Error("response must not carry a password field")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodPost, "/api/users", token,
			`{"name":"Alice","email":"alice@test.com","password":"Passw0rd!"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		data := parsed["data"].(map[string]any)
		if data["email"] != "Email already exists." {
			t.Errorf("data = %v", data)
		}
	})

	t.Run("invalid fields", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodPost, "/api/users", token,
			`{"name":"Al","email":"bad","password":"short"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		data := parsed["data"].(map[string]any)
		for _, field := range []string{"name", "email", "password"} {
			if _, ok := data[field]; !ok {
				t.Errorf("missing validation errors for %q: %v", field, data)
			}
		}
	})

	t.Run("empty body", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodPost, "/api/users", token, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", w.Code)
		}
		data := parsed["data"].(map[string]any)
		if data["body"] != "No body provided." {
			t.Errorf("data = %v", data)
		}
	})
}

func TestCreateManyUsers(t *testing.T) {
	r := newTestRouter(t)
	token := bootstrapAndLogin(t, r)

	t.Run("all valid", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodPost, "/api/users", token,
			`[{"name":"Alice","email":"alice@test.com","password":"Passw0rd!"},
			  {"name":"Bobby","email":"bob@test.com","password":"Passw0rd!"}]`)
		if w.Code != http.StatusCreated || parsed["status"] != "success" {
			t.Fatalf("got %d %v", w.Code, parsed)
		}
		data := parsed["data"].(map[string]any)
		if created := data["success"].([]any); len(created) != 2 {
			t.Errorf("success = %v", data["success"])
		}
		if _, ok := data["fail"]; ok {
			t.Errorf("unexpected fail key: %v", data)
		}
	})

	t.Run("mixed", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodPost, "/api/users", token,
			`[{"name":"Carol","email":"carol@test.com","password":"Passw0rd!"},
			  {"name":"Alice","email":"alice@test.com","password":"Passw0rd!"},
			  {"name":"X","email":"bad","password":"nope"}]`)
		if w.Code != http.StatusCreated || parsed["status"] != "fail" {
			t.Fatalf("got %d %v", w.Code, parsed)
		}
		data := parsed["data"].(map[string]any)
		if created := data["success"].([]any); len(created) != 1 {
			t.Errorf("success = %v", data["success"])
		}
		failed := data["fail"].(map[string]any)
		if len(failed) != 2 {
			t.Errorf("fail = %v", failed)
		}
		dup := failed["alice@test.com"].(map[string]any)
		if dup["email"] != "Email already exists." {
			t.Errorf("duplicate entry = %v", dup)
		}
	})
}

func TestGetUsersPagination(t *testing.T) {
	r := newTestRouter(t)
	token := bootstrapAndLogin(t, r)

	doRequest(t, r, http.MethodPost, "/api/users", token,
		`[{"name":"Alice","email":"a@test.com","password":"Passw0rd!"},
		  {"name":"Bobby","email":"b@test.com","password":"Passw0rd!"},
		  {"name":"Carol","email":"c@test.com","password":"Passw0rd!"}]`)

	t.Run("defaults", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodGet, "/api/users", token, "")
		if w.Code != http.StatusOK || parsed["status"] != "success" {
			t.Fatalf("got %d %v", w.Code, parsed)
		}
		// admin plus the three seeded users
		if parsed["count"].(float64) != 4 {
			t.Errorf("count = %v", parsed["count"])
		}
		if parsed["totalPages"].(float64) != 1 || parsed["currentPage"].(float64) != 1 {
			t.Errorf("meta = %v", parsed)
		}
	})

	t.Run("paged", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodGet, "/api/users?skip=2&take=2&sort=name&order=asc", token, "")
		if w.Code != http.StatusOK {
			t.Fatalf("got %d %v", w.Code, parsed)
		}
		if parsed["totalPages"].(float64) != 2 || parsed["currentPage"].(float64) != 2 {
			t.Errorf("meta = %v", parsed)
		}
		users := parsed["data"].(map[string]any)["users"].([]any)
		if len(users) != 2 {
			t.Errorf("users = %v", users)
		}
	})

	t.Run("past the end", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodGet, "/api/users?skip=100", token, "")
		if w.Code != http.StatusOK || parsed["status"] != "fail" {
			t.Fatalf("got %d %v", w.Code, parsed)
		}
		if parsed["message"] != "No users found." {
			t.Errorf("message = %v", parsed["message"])
		}
	})

	badParams := []struct {
		query string
		field string
		msg   string
	}{
		{"skip=-1", "skip", "Skip is less than 0."},
		{"take=0", "take", "Take is less than 1."},
		{"take=101", "take", "Take is greater than 100."},
		{"sort=password", "sort", "Sort is invalid."},
		{"order=sideways", "order", "Order is invalid."},
	}
	for _, tc := range badParams {
		t.Run(tc.query, func(t *testing.T) {
			w, parsed := doRequest(t, r, http.MethodGet, "/api/users?"+tc.query, token, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got %d %v", w.Code, parsed)
			}
			data := parsed["data"].(map[string]any)
			if data[tc.field] != tc.msg {
				t.Errorf("data = %v, want %s=%q", data, tc.field, tc.msg)
			}
		})
	}
}

func TestGetOneUser(t *testing.T) {
	r := newTestRouter(t)
	token := bootstrapAndLogin(t, r)

	w, parsed := doRequest(t, r, http.MethodPost, "/api/users", token,
		`{"name":"Alice","email":"alice@test.com","password":"Passw0rd!"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	id := parsed["data"].(map[string]any)["user"].(map[string]any)["id"].(string)

	t.Run("found", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodGet, "/api/users/"+id, token, "")
		if w.Code != http.StatusOK {
			t.Fatalf("got %d %v", w.Code, parsed)
		}
		user := parsed["data"].(map[string]any)["user"].(map[string]any)
		if user["name"] != "Alice" {
			t.Errorf("user = %v", user)
		}
	})

	t.Run("missing", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodGet, "/api/users/does-not-exist", token, "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("got %d %v", w.Code, parsed)
		}
		if parsed["message"] != "User not found." {
			t.Errorf("body = %v", parsed)
		}
		if data, ok := parsed["data"]; !ok || data != nil {
			t.Errorf("data = %v, want explicit null", data)
		}
	})
}

func TestUpdateUser(t *testing.T) {
	r := newTestRouter(t)
	token := bootstrapAndLogin(t, r)

	w, parsed := doRequest(t, r, http.MethodPost, "/api/users", token,
		`{"name":"Alice","email":"alice@test.com","password":"Passw0rd!"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	id := parsed["data"].(map[string]any)["user"].(map[string]any)["id"].(string)

	t.Run("partial update", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodPut, "/api/users/"+id, token, `{"name":"Alicia"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("got %d %v", w.Code, parsed)
		}
		user := parsed["data"].(map[string]any)["user"].(map[string]any)
		if user["name"] != "Alicia" || user["email"] != "alice@test.com" {
			t.Errorf("user = %v", user)
		}
	})

	t.Run("invalid field", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodPut, "/api/users/"+id, token, `{"email":"not-an-email"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("got %d %v", w.Code, parsed)
		}
		data := parsed["data"].(map[string]any)
		if _, ok := data["email"]; !ok {
			t.Errorf("data = %v", data)
		}
		if _, ok := data["name"]; ok {
			t.Error("absent fields must not be validated")
		}
	})

	t.Run("missing user", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodPut, "/api/users/does-not-exist", token, `{"name":"Nobody"}`)
		if w.Code != http.StatusNotFound || parsed["message"] != "User not found." {
			t.Errorf("got %d %v", w.Code, parsed)
		}
	})
}

func TestDeleteUser(t *testing.T) {
	r := newTestRouter(t)
	token := bootstrapAndLogin(t, r)

	w, parsed := doRequest(t, r, http.MethodPost, "/api/users", token,
		`{"name":"Alice","email":"alice@test.com","password":"Passw0rd!"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	id := parsed["data"].(map[string]any)["user"].(map[string]any)["id"].(string)

	t.Run("deletes", func(t *testing.T) {
		w, _ := doRequest(t, r, http.MethodDelete, "/api/users/"+id, token, "")
		if w.Code != http.StatusNoContent {
			t.Fatalf("got %d", w.Code)
		}
		if w.Body.Len() != 0 {
			t.Errorf("body = %q, want empty", w.Body.String())
		}
	})

	t.Run("missing user", func(t *testing.T) {
		w, parsed := doRequest(t, r, http.MethodDelete, "/api/users/"+id, token, "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("got %d %v", w.Code, parsed)
		}
		data := parsed["data"].(map[string]any)
		if data["id"] != "User not found." {
			t.Errorf("data = %v", data)
		}
	})
}
