package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmwangi/membergate/internal/config"
	apphttp "github.com/dmwangi/membergate/internal/http"
	"github.com/dmwangi/membergate/internal/repo/memory"
	"github.com/dmwangi/membergate/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *memory.UsersRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := memory.NewUsersRepo()
	sessions := session.NewStore(rdb, "test-secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := config.Config{Env: "test", SessionSecret: "test-secret"}

	router := apphttp.NewRouter(logger, users, sessions, nil, nil, nil, cfg)

	return router, users
}

// doForm posts an urlencoded form, carrying any cookies along.
func doForm(router http.Handler, path string, form url.Values, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *http.Response) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w, w.Result()
}

func doGet(router http.Handler, path string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *http.Response) {
	req := httptest.NewRequest(http.MethodGet, path, nil)

	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w, w.Result()
}

func extractSessionCookie(t *testing.T, response *http.Response) *http.Cookie {
	t.Helper()

	for _, c := range response.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}

	t.Fatalf("%s cookie not found in response", session.CookieName)

	return nil
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal error body: %v, body=%s", err, w.Body.String())
	}

	return body.Error
}

func signupForm() url.Values {
	return url.Values{
		"person":   {"Sam Doe"},
		"email":    {"sam@example.com"},
		"password": {"password123"},
	}
}

func TestSignup_Login_Home_Logout(t *testing.T) {
	router, _ := setupTestRouter(t)

	// sign up establishes a session and redirects home
	w, response := doForm(router, "/signup", signupForm())

	if w.Code != http.StatusFound {
		t.Fatalf("signup got status %d, want %d, body=%s", w.Code, http.StatusFound, w.Body.String())
	}

	if loc := w.Header().Get("Location"); loc != "/home" {
		t.Fatalf("signup redirect got %q, want /home", loc)
	}

	cookie := extractSessionCookie(t, response)

	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}

	// the protected page renders for the fresh session
	w2, _ := doGet(router, "/home", cookie)

	if w2.Code != http.StatusOK {
		t.Fatalf("home got status %d, want %d, body=%s", w2.Code, http.StatusOK, w2.Body.String())
	}

	if !strings.Contains(w2.Body.String(), "Sam Doe") {
		t.Fatalf("home should greet the user, body=%s", w2.Body.String())
	}

	if strings.Contains(w2.Body.String(), "password") && strings.Contains(w2.Body.String(), "$2a$") {
		t.Fatalf("home must never contain hash material")
	}

	// logout destroys the session
	w3, _ := doForm(router, "/logout", url.Values{}, cookie)

	if w3.Code != http.StatusFound {
		t.Fatalf("logout got status %d, want %d", w3.Code, http.StatusFound)
	}

	// the old cookie no longer grants access
	w4, _ := doGet(router, "/home", cookie)

	if w4.Code != http.StatusFound {
		t.Fatalf("home after logout got status %d, want %d", w4.Code, http.StatusFound)
	}

	if loc := w4.Header().Get("Location"); loc != "/login" {
		t.Fatalf("home after logout redirect got %q, want /login", loc)
	}

	// logging back in works with the original credentials
	w5, response5 := doForm(router, "/login", url.Values{
		"username": {"sam@example.com"},
		"password": {"password123"},
	})

	if w5.Code != http.StatusFound {
		t.Fatalf("login got status %d, want %d, body=%s", w5.Code, http.StatusFound, w5.Body.String())
	}

	loginCookie := extractSessionCookie(t, response5)

	w6, _ := doGet(router, "/home", loginCookie)

	if w6.Code != http.StatusOK {
		t.Fatalf("home after login got status %d, want %d", w6.Code, http.StatusOK)
	}
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	router, users := setupTestRouter(t)

	w, _ := doForm(router, "/signup", signupForm())
	if w.Code != http.StatusFound {
		t.Fatalf("first signup got status %d, want %d", w.Code, http.StatusFound)
	}

	// same email, different name and password
	form := signupForm()
	form.Set("person", "Imposter")
	form.Set("password", "different-password")

	w2, _ := doForm(router, "/signup", form)

	if w2.Code != http.StatusConflict {
		t.Fatalf("duplicate signup got status %d, want %d, body=%s", w2.Code, http.StatusConflict, w2.Body.String())
	}

	if msg := errorBody(t, w2); msg != "Email already in use." {
		t.Fatalf("got error %q, want %q", msg, "Email already in use.")
	}

	// the original row is untouched
	u, err := users.GetByEmail(t.Context(), "sam@example.com")
	if err != nil {
		t.Fatalf("original user should still exist: %v", err)
	}
	if u.Name != "Sam Doe" {
		t.Fatalf("original user was modified: %+v", u)
	}
}

func TestLogin_Failures(t *testing.T) {
	router, _ := setupTestRouter(t)

	w, _ := doForm(router, "/signup", signupForm())
	if w.Code != http.StatusFound {
		t.Fatalf("signup got status %d, want %d", w.Code, http.StatusFound)
	}

	// unknown email
	w2, _ := doForm(router, "/login", url.Values{
		"username": {"nobody@example.com"},
		"password": {"whatever"},
	})

	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("login(unknown) got status %d, want %d", w2.Code, http.StatusUnauthorized)
	}

	if msg := errorBody(t, w2); msg != "User does not exist." {
		t.Fatalf("got error %q, want %q", msg, "User does not exist.")
	}

	// wrong password
	w3, _ := doForm(router, "/login", url.Values{
		"username": {"sam@example.com"},
		"password": {"not-the-password"},
	})

	if w3.Code != http.StatusUnauthorized {
		t.Fatalf("login(wrong password) got status %d, want %d", w3.Code, http.StatusUnauthorized)
	}

	if msg := errorBody(t, w3); msg != "Incorrect Password." {
		t.Fatalf("got error %q, want %q", msg, "Incorrect Password.")
	}
}

func TestHome_AnonymousIsRedirected(t *testing.T) {
	router, _ := setupTestRouter(t)

	// no cookie at all
	w, response := doGet(router, "/home")

	if w.Code != http.StatusFound {
		t.Fatalf("home(anonymous) got status %d, want %d", w.Code, http.StatusFound)
	}

	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("redirect got %q, want /login", loc)
	}

	// even the anonymous visit gets a session row
	anonCookie := extractSessionCookie(t, response)

	// an anonymous session cookie still does not open the gate
	w2, _ := doGet(router, "/home", anonCookie)

	if w2.Code != http.StatusFound {
		t.Fatalf("home(anonymous session) got status %d, want %d", w2.Code, http.StatusFound)
	}
}

func TestHome_DeletedUserBecomesAnonymous(t *testing.T) {
	router, users := setupTestRouter(t)

	w, response := doForm(router, "/signup", signupForm())
	if w.Code != http.StatusFound {
		t.Fatalf("signup got status %d, want %d", w.Code, http.StatusFound)
	}

	cookie := extractSessionCookie(t, response)

	u, err := users.GetByEmail(t.Context(), "sam@example.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	users.Delete(u.ID)

	w2, _ := doGet(router, "/home", cookie)

	if w2.Code != http.StatusFound {
		t.Fatalf("home(deleted user) got status %d, want %d, body=%s", w2.Code, http.StatusFound, w2.Body.String())
	}

	if loc := w2.Header().Get("Location"); loc != "/login" {
		t.Fatalf("redirect got %q, want /login", loc)
	}
}

func TestSignup_ValidationErrors(t *testing.T) {
	router, _ := setupTestRouter(t)

	form := url.Values{
		"person":   {"Sam Doe"},
		"email":    {"not-an-email"},
		"password": {"password123"},
	}

	w, _ := doForm(router, "/signup", form)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("signup(bad email) got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "email") {
		t.Fatalf("validation body should name the email field, body=%s", w.Body.String())
	}
}
