package biz

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/d0gyunkim/seveneleven-website-sub000/internal/conf"
)

// StoreRepo 매장/패턴 저장소 인터페이스
type StoreRepo interface {
	// GetStore 매장 코드로 단건 조회
	GetStore(ctx context.Context, code string) (*Store, error)
	// GetPattern (매장 코드, 월)의 패턴 스냅샷 조회
	GetPattern(ctx context.Context, code, month string) (*StorePattern, error)
	// ListPatterns 해당 월의 다른 매장 패턴 전체 조회 (excludeCode 제외)
	ListPatterns(ctx context.Context, month, excludeCode string) ([]*StorePattern, error)
}

// Overview 마케팅/개요 페이지에 내려주는 매장 현황
type Overview struct {
	Store   *Store
	Pattern *StorePattern // nil when the month has no snapshot yet
}

// StoreUseCase 매장 로그인과 개요 비즈니스 로직
type StoreUseCase struct {
	repo   StoreRepo
	log    *log.Helper
	jwtKey string
}

// NewStoreUseCase 매장 비즈니스 로직 인스턴스 생성
func NewStoreUseCase(repo StoreRepo, auth *conf.Auth, logger log.Logger) *StoreUseCase {
	jwtKey := "default-secret"
	if auth != nil && auth.JwtKey != "" {
		jwtKey = auth.JwtKey
	}
	return &StoreUseCase{
		repo:   repo,
		log:    log.NewHelper(logger),
		jwtKey: jwtKey,
	}
}

// Login verifies the owner access code for a store code and issues a session
// token. The store is resolved by exactly one keyed lookup; a miss surfaces
// as STORE_NOT_FOUND rather than being retried under name variants.
func (uc *StoreUseCase) Login(ctx context.Context, code, accessCode string) (string, *Store, error) {
	s, err := uc.repo.GetStore(ctx, code)
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.AccessCodeHash), []byte(accessCode)); err != nil {
		return "", nil, errors.Unauthorized("AUTH_FAILED", "invalid access code")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"store_code": s.Code,
		"exp":        time.Now().Add(time.Hour * 24).Unix(),
	})
	signed, err := token.SignedString([]byte(uc.jwtKey))
	if err != nil {
		return "", nil, err
	}
	return signed, s, nil
}

// Overview returns the store row plus its pattern snapshot for the month. A
// missing snapshot is tolerated so the page still renders store info.
func (uc *StoreUseCase) Overview(ctx context.Context, code, month string) (*Overview, error) {
	s, err := uc.repo.GetStore(ctx, code)
	if err != nil {
		return nil, err
	}
	p, err := uc.repo.GetPattern(ctx, code, month)
	if err != nil {
		if errors.Code(err) != 404 {
			return nil, err
		}
		p = nil
	}
	return &Overview{Store: s, Pattern: p}, nil
}
