package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stateops/gitlab-state/internal/gitlabtest"
	"github.com/stateops/gitlab-state/internal/models"
)

func TestResolveUser_ByUsernameAndID(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	sess := newTestSession(t, srv)

	seeded := srv.SeedUser(models.User{Username: "kevin", Name: "Kevin Quinn", Email: "kevin@example.com"})

	byName, err := ResolveUser(context.Background(), sess, "kevin")
	if err != nil {
		t.Fatalf("ResolveUser by username returned error: %v", err)
	}
	if byName.ID != seeded.ID {
		t.Errorf("ID = %d, want %d", byName.ID, seeded.ID)
	}

	byID, err := ResolveUser(context.Background(), sess, fmt.Sprintf("%d", seeded.ID))
	if err != nil {
		t.Fatalf("ResolveUser by ID returned error: %v", err)
	}
	if byID.Username != "kevin" {
		t.Errorf("Username = %q, want kevin", byID.Username)
	}
	if n := srv.CountRequests(http.MethodGet, "/api/v4/users"); n != 1 {
		t.Errorf("listing fetched %d times, want 1 (by-ID lookup must not list)", n)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	sess := newTestSession(t, srv)

	name := "Kevin Quinn"
	email := "kevin@example.com"
	tests := []struct {
		desc string
		spec models.UserSpec
	}{
		{"missing username", models.UserSpec{Name: &name, Email: &email}},
		{"missing email", models.UserSpec{Username: "kevin", Name: &name}},
		{"missing name", models.UserSpec{Username: "kevin", Email: &email}},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := CreateUser(context.Background(), sess, tc.spec)
			if !IsValidation(err) {
				t.Errorf("err = %v, want ValidationError", err)
			}
		})
	}
	if n := srv.CountRequests(http.MethodPost, "/api/v4/users"); n != 0 {
		t.Errorf("POST /users called %d times, want 0", n)
	}
}

func TestCreateUser_DefaultsCanCreateGroupOff(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	sess := newTestSession(t, srv)

	name := "Kevin Quinn"
	email := "kevin@example.com"
	created, err := CreateUser(context.Background(), sess, models.UserSpec{
		Username: "kevin", Name: &name, Email: &email,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if created.CanCreateGroup {
		t.Error("CanCreateGroup = true, want false by default")
	}
	body := srv.LastBody(http.MethodPost, "/api/v4/users")
	if body["can_create_group"] != false {
		t.Errorf("body[can_create_group] = %v, want false", body["can_create_group"])
	}
}

func TestUpdateUser_Partial(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	sess := newTestSession(t, srv)

	u := srv.SeedUser(models.User{Username: "kevin", Name: "Kevin", Email: "old@example.com"})

	email := "new@example.com"
	got, err := UpdateUser(context.Background(), sess, u.ID, UserUpdate{Email: &email})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if got.Email != "new@example.com" {
		t.Errorf("Email = %q, want new@example.com", got.Email)
	}
	if got.Name != "Kevin" {
		t.Errorf("Name = %q, want Kevin (must not be cleared)", got.Name)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	srv := gitlabtest.NewServer()
	defer srv.Close()
	sess := newTestSession(t, srv)

	if err := DeleteUser(context.Background(), sess, 4242); !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}
