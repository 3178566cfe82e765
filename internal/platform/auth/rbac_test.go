package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runWithRoles(roles []string, required ...string) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), "u1", roles, ""))
	c := e.NewContext(req, httptest.NewRecorder())
	return RequireRole(required...)(func(c echo.Context) error { return nil })(c)
}

func TestRequireRole_Allowed(t *testing.T) {
	if err := runWithRoles([]string{RoleMidwife}, RoleMidwife, RoleSupervisor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_Denied(t *testing.T) {
	err := runWithRoles([]string{RoleMidwife}, RoleSupervisor)
	expectStatus(t, err, http.StatusForbidden)
}

func TestRequireRole_NoRoles(t *testing.T) {
	err := runWithRoles(nil, RoleMidwife)
	expectStatus(t, err, http.StatusForbidden)
}

func TestRequireRole_AdminBypass(t *testing.T) {
	if err := runWithRoles([]string{RoleAdmin}, RoleSupervisor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSession_CurrentActorID(t *testing.T) {
	var s Session
	if _, ok := s.CurrentActorID(context.Background()); ok {
		t.Error("expected no actor without identity")
	}
	ctx := WithIdentity(context.Background(), "midwife-3", []string{RoleMidwife}, "")
	id, ok := s.CurrentActorID(ctx)
	if !ok || id != "midwife-3" {
		t.Errorf("expected midwife-3, got %q (%v)", id, ok)
	}
}

func TestIsPublicPath(t *testing.T) {
	for _, p := range []string{"/health", "/health/db", "/metrics"} {
		if !IsPublicPath(p) {
			t.Errorf("expected %s to be public", p)
		}
	}
	if IsPublicPath("/api/v1/forms") {
		t.Error("expected /api/v1/forms to be protected")
	}
}
