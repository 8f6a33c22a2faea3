package biz

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/d0gyunkim/seveneleven-website-sub000/internal/conf"
)

func newLoginRepo(t *testing.T) *mockStoreRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash access code: %v", err)
	}
	repo := newComparisonRepo()
	repo.stores = map[string]*Store{
		"A001": {Code: "A001", Name: "역삼점", AccessCodeHash: string(hash)},
	}
	return repo
}

func TestStoreUseCase_Login(t *testing.T) {
	uc := NewStoreUseCase(newLoginRepo(t), &conf.Auth{JwtKey: "test-key"}, log.DefaultLogger)

	token, store, err := uc.Login(context.Background(), "A001", "1234")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Error("expected a signed token")
	}
	if store.Name != "역삼점" {
		t.Errorf("store name = %s", store.Name)
	}
}

func TestStoreUseCase_LoginWrongAccessCode(t *testing.T) {
	uc := NewStoreUseCase(newLoginRepo(t), &conf.Auth{JwtKey: "test-key"}, log.DefaultLogger)

	_, _, err := uc.Login(context.Background(), "A001", "9999")
	if err == nil {
		t.Fatal("expected AUTH_FAILED")
	}
	if errors.Code(err) != 401 {
		t.Errorf("code = %d, want 401", errors.Code(err))
	}
}

func TestStoreUseCase_LoginUnknownStore(t *testing.T) {
	uc := NewStoreUseCase(newLoginRepo(t), &conf.Auth{JwtKey: "test-key"}, log.DefaultLogger)

	_, _, err := uc.Login(context.Background(), "Z999", "1234")
	if err == nil {
		t.Fatal("expected STORE_NOT_FOUND")
	}
	if errors.Reason(err) != "STORE_NOT_FOUND" {
		t.Errorf("reason = %s, want STORE_NOT_FOUND", errors.Reason(err))
	}
}

func TestStoreUseCase_OverviewToleratesMissingPattern(t *testing.T) {
	repo := newLoginRepo(t)
	uc := NewStoreUseCase(repo, nil, log.DefaultLogger)

	// month with no snapshot: the page still renders store info
	ov, err := uc.Overview(context.Background(), "A001", "1999-01")
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if ov.Pattern != nil {
		t.Error("expected nil pattern for a month without snapshot")
	}
	if ov.Store.Code != "A001" {
		t.Errorf("store code = %s", ov.Store.Code)
	}

	ov, err = uc.Overview(context.Background(), "A001", "2026-07")
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if ov.Pattern == nil || ov.Pattern.Month != "2026-07" {
		t.Errorf("pattern = %+v, want 2026-07 snapshot", ov.Pattern)
	}
}
