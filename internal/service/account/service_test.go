package account

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func newTestService() *Service {
	return NewService(memory.NewStore(), nil)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, Registration{
		Email:     "Alice@Example.com",
		Password:  "s3cret",
		FirstName: "Alice",
		LastName:  "Smith",
		Address:   "Baker Street 221b",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "s3cret" {
		t.Fatal("password must be stored as bcrypt hash")
	}

	authed, err := svc.Authenticate(ctx, "ALICE@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}

	if _, err := svc.Authenticate(ctx, "alice@example.com", "wrong"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost@example.com", "s3cret"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, Registration{Password: "x", Address: "a"}); !errors.Is(err, domain.ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
	if _, err := svc.Register(ctx, Registration{Email: "a@b.c", Address: "a"}); !errors.Is(err, domain.ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
	if _, err := svc.Register(ctx, Registration{Email: "a@b.c", Password: "x", Address: " "}); !errors.Is(err, domain.ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	reg := Registration{Email: "alice@example.com", Password: "x", Address: "a"}
	if _, err := svc.Register(ctx, reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Register(ctx, reg); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListManagers(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, Registration{Email: "customer@example.com", Password: "x", Address: "a"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	manager, err := svc.Register(ctx, Registration{Email: "boss@example.com", Password: "x", Address: "hq", IsManager: true})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	managers, err := svc.ListManagers(ctx)
	if err != nil {
		t.Fatalf("ListManagers failed: %v", err)
	}
	if len(managers) != 1 || managers[0].ID != manager.ID {
		t.Fatalf("unexpected managers: %+v", managers)
	}
}

func TestGetByEmailNormalizes(t *testing.T) {
	t.Parallel()
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, Registration{Email: "bob@example.com", Password: "x", Address: "a"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := svc.GetByEmail(ctx, " BOB@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, got.ID)
	}
}
