package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dkv3/class-site/internal/core/domain"
)

func render(t *testing.T, name string, data any) string {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data, nil); err != nil {
		t.Fatalf("Render(%s): %v", name, err)
	}
	return buf.String()
}

func TestAlbumPage_Photos(t *testing.T) {
	out := render(t, "album.html", AlbumPage{
		Session: domain.NewSession("c1"),
		Photos: []domain.Photo{
			{ID: 1, Filename: "Orion_Nebula.jpg", Src: "/src/img/Orion_Nebula.jpg", Title: "Orion nebula", Desc: domain.DefaultPhotoDescription},
		},
	})

	for _, want := range []string{"Album Astronomi", `src="/src/img/Orion_Nebula.jpg"`, "Orion nebula", "Akses Siswa", "Pengunjung"} {
		if !strings.Contains(out, want) {
			t.Fatalf("album page missing %q", want)
		}
	}
	if strings.Contains(out, "Tidak Ada Foto") {
		t.Fatalf("empty state shown with photos present")
	}
}

func TestAlbumPage_EmptyState(t *testing.T) {
	out := render(t, "album.html", AlbumPage{Session: domain.NewSession("c1")})
	if !strings.Contains(out, "Tidak Ada Foto") {
		t.Fatalf("empty state missing")
	}
}

func TestAlbumPage_EscapesTitles(t *testing.T) {
	out := render(t, "album.html", AlbumPage{
		Session: domain.NewSession("c1"),
		Photos:  []domain.Photo{{ID: 1, Src: "/src/img/x.jpg", Title: "<script>alert(1)</script>"}},
	})
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Fatalf("title not escaped")
	}
}

func TestHomePage_LoggedIn(t *testing.T) {
	sess := domain.NewSession("c1")
	sess.SignIn(domain.User{Name: "Admin DKV3", Username: "admin", Role: domain.SomeRole(domain.RoleAdmin)})

	out := render(t, "home.html", HomePage{Session: sess})
	if !strings.Contains(out, "Admin DKV3") || !strings.Contains(out, "role-admin") {
		t.Fatalf("home page missing user badge")
	}
	if strings.Contains(out, `action="/login"`) {
		t.Fatalf("login form shown to a logged-in user")
	}
}
