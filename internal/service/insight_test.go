package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/d0gyunkim/seveneleven-website-sub000/internal/biz"
	"github.com/d0gyunkim/seveneleven-website-sub000/internal/conf"
)

type stubStoreRepo struct {
	store    *biz.Store
	patterns map[string]*biz.StorePattern // key: code|month
}

func (s *stubStoreRepo) GetStore(ctx context.Context, code string) (*biz.Store, error) {
	if s.store != nil && s.store.Code == code {
		return s.store, nil
	}
	return nil, errors.NotFound("STORE_NOT_FOUND", "store not found")
}

func (s *stubStoreRepo) GetPattern(ctx context.Context, code, month string) (*biz.StorePattern, error) {
	if p, ok := s.patterns[code+"|"+month]; ok {
		return p, nil
	}
	return nil, errors.NotFound("PATTERN_NOT_FOUND", "pattern not found")
}

func (s *stubStoreRepo) ListPatterns(ctx context.Context, month, excludeCode string) ([]*biz.StorePattern, error) {
	var out []*biz.StorePattern
	for _, p := range s.patterns {
		if p.Month == month && p.StoreCode != excludeCode {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubProductRepo struct{}

func (stubProductRepo) ListByRank(ctx context.Context, month, category string, limit int, asc bool) ([]*biz.Product, error) {
	return []*biz.Product{{ID: 1, Name: "새우깡", Category: "과자", SalesRank: 1, Month: month}}, nil
}

type capturingChat struct {
	calls      int
	lastPrompt string
	reply      string
}

func (c *capturingChat) Generate(ctx context.Context, system, user string) (string, error) {
	c.calls++
	c.lastPrompt = user
	return c.reply, nil
}

func newTestService(t *testing.T, chat biz.ChatClient) *InsightService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubStoreRepo{
		store: &biz.Store{Code: "A001", Name: "역삼점", AccessCodeHash: string(hash)},
		patterns: map[string]*biz.StorePattern{
			"A001|2026-07": {
				StoreCode: "A001", StoreName: "역삼점", Month: "2026-07",
				Categories:   biz.CategoryPattern{"과자": 30, "음료": 70},
				WeekendRatio: 1.3,
			},
			"B002|2026-07": {
				StoreCode: "B002", StoreName: "선릉점", Month: "2026-07",
				Categories:   biz.CategoryPattern{"과자": 25, "음료": 75},
				WeekendRatio: 0.9,
			},
		},
	}
	logger := log.DefaultLogger
	return NewInsightService(
		biz.NewStoreUseCase(repo, &conf.Auth{JwtKey: "test-key"}, logger),
		biz.NewProductUseCase(stubProductRepo{}, logger),
		biz.NewSimilarityUseCase(repo, logger),
		biz.NewNarrativeUseCase(chat, logger),
		logger,
	)
}

func TestInsightService_AnalyzeWeekdayWeekend(t *testing.T) {
	stub := &capturingChat{reply: "주말 비율 1.30으로 주말 집중형 매장입니다.\n비교 매장 평균과의 차이는 0.40입니다."}
	s := newTestService(t, stub)

	req := &AnalyzeRequest{
		AnalysisType: biz.AnalysisTypeWeekdayWeekend,
		Data:         json.RawMessage(`{"myWeekendRatio": 1.3, "comparisonWeekendRatio": 0.9, "isAverage": true}`),
	}
	reply, err := s.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if reply.Analysis != stub.reply {
		t.Errorf("analysis = %q, want stub reply", reply.Analysis)
	}
	if string(reply.Source) != string(req.Data) {
		t.Error("source payload should be echoed back verbatim")
	}
	for _, want := range []string{"1.30", "0.90", "0.40"} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Errorf("upstream prompt missing %q\n%s", want, stub.lastPrompt)
		}
	}
	if stub.calls != 1 {
		t.Errorf("chat calls = %d, want 1", stub.calls)
	}
}

func TestInsightService_AnalyzeInvalidType(t *testing.T) {
	stub := &capturingChat{reply: "unused"}
	s := newTestService(t, stub)

	_, err := s.Analyze(context.Background(), &AnalyzeRequest{
		AnalysisType: "없는패턴",
		Data:         json.RawMessage(`{}`),
	})
	if err == nil {
		t.Fatal("expected INVALID_ANALYSIS_TYPE")
	}
	if errors.Code(err) != 400 {
		t.Errorf("code = %d, want 400", errors.Code(err))
	}
	if stub.calls != 0 {
		t.Errorf("chat calls = %d, want 0", stub.calls)
	}
}

func TestInsightService_Login(t *testing.T) {
	s := newTestService(t, &capturingChat{})

	reply, err := s.Login(context.Background(), &LoginRequest{StoreCode: "A001", AccessCode: "1234"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if reply.Token == "" || reply.StoreName != "역삼점" {
		t.Errorf("reply = %+v", reply)
	}

	_, err = s.Login(context.Background(), &LoginRequest{StoreCode: "A001", AccessCode: "0000"})
	if errors.Code(err) != 401 {
		t.Errorf("code = %d, want 401", errors.Code(err))
	}
}

func TestInsightService_Comparison(t *testing.T) {
	s := newTestService(t, &capturingChat{})

	reply, err := s.Comparison(context.Background(), "A001", "2026-07", nil)
	if err != nil {
		t.Fatalf("Comparison() error = %v", err)
	}
	if !reply.Result.IsAverage {
		t.Error("comparison against the rest of the month should be an average")
	}
	if reply.Mine == nil || reply.Other == nil {
		t.Fatal("both input series must be returned for chart rendering")
	}
	if reply.Mine.WeekendRatio != 1.3 {
		t.Errorf("my ratio = %v, want 1.3", reply.Mine.WeekendRatio)
	}
}

func TestInsightService_Recommendations(t *testing.T) {
	s := newTestService(t, &capturingChat{})

	reply, err := s.Recommendations(context.Background(), "2026-07", "", 10)
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if len(reply.Groups) != 1 || reply.Groups[0].Category != "과자" {
		t.Errorf("groups = %+v", reply.Groups)
	}
}
