package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func runClient(t *testing.T, secret string, cookie *http.Cookie) (string, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var id string
	handler := Client(secret, false)(func(c echo.Context) error {
		id, _ = c.Get("client_id").(string)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return id, rec
}

func issuedCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == ClientCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie issued", ClientCookie)
	return nil
}

func TestClient_IssuesIdentity(t *testing.T) {
	id, rec := runClient(t, "secret", nil)

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("client id is not a uuid: %q", id)
	}
	cookie := issuedCookie(t, rec)
	if !cookie.HttpOnly {
		t.Fatalf("client cookie must be HttpOnly")
	}
}

func TestClient_ReusesValidCookie(t *testing.T) {
	first, rec := runClient(t, "secret", nil)
	cookie := issuedCookie(t, rec)

	second, rec2 := runClient(t, "secret", cookie)
	if second != first {
		t.Fatalf("expected same client id, got %s and %s", first, second)
	}
	if len(rec2.Result().Cookies()) != 0 {
		t.Fatalf("valid cookie should not be reissued")
	}
}

func TestClient_RejectsForgedCookie(t *testing.T) {
	victim := uuid.NewString()
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: victim}).
		SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	id, rec := runClient(t, "secret", &http.Cookie{Name: ClientCookie, Value: forged})
	if id == victim {
		t.Fatalf("forged identity accepted")
	}
	issuedCookie(t, rec)
}

func TestClient_RejectsNonUUIDSubject(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "admin"}).
		SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	id, _ := runClient(t, "secret", &http.Cookie{Name: ClientCookie, Value: token})
	if id == "admin" {
		t.Fatalf("non-uuid subject accepted")
	}
}
