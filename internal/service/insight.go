package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/d0gyunkim/seveneleven-website-sub000/internal/biz"
)

// InsightService 점주용 API의 전송 계층 글루
type InsightService struct {
	stores     *biz.StoreUseCase
	products   *biz.ProductUseCase
	similarity *biz.SimilarityUseCase
	narrative  *biz.NarrativeUseCase
	log        *log.Helper
}

func NewInsightService(
	stores *biz.StoreUseCase,
	products *biz.ProductUseCase,
	similarity *biz.SimilarityUseCase,
	narrative *biz.NarrativeUseCase,
	logger log.Logger,
) *InsightService {
	return &InsightService{
		stores:     stores,
		products:   products,
		similarity: similarity,
		narrative:  narrative,
		log:        log.NewHelper(logger),
	}
}

type LoginRequest struct {
	StoreCode  string `json:"storeCode"`
	AccessCode string `json:"accessCode"`
}

type LoginReply struct {
	Token     string `json:"token"`
	StoreCode string `json:"storeCode"`
	StoreName string `json:"storeName"`
}

type StoreInfo struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PatternReply struct {
	Month        string             `json:"month"`
	Categories   map[string]float64 `json:"categories"`
	TimeSlots    []string           `json:"timeSlots"`
	WeekdaySlots []float64          `json:"weekdaySlots"`
	WeekendSlots []float64          `json:"weekendSlots"`
	WeekendRatio float64            `json:"weekendRatio"`
}

type OverviewReply struct {
	Store   StoreInfo     `json:"store"`
	Pattern *PatternReply `json:"pattern,omitempty"`
}

type ProductReply struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Price        int    `json:"price"`
	ImageURL     string `json:"imageUrl"`
	MonthlySales int    `json:"monthlySales"`
	SalesRank    int    `json:"salesRank"`
}

type ProductGroupReply struct {
	Category string         `json:"category"`
	Products []ProductReply `json:"products"`
}

type ProductListReply struct {
	Month  string              `json:"month"`
	Groups []ProductGroupReply `json:"groups"`
}

type SimilarStoresReply struct {
	Month  string              `json:"month"`
	Stores []*biz.SimilarStore `json:"stores"`
}

type ComparisonReply struct {
	Result *biz.SimilarityResult `json:"result"`
	Mine   *PatternReply         `json:"myPattern"`
	Other  *PatternReply         `json:"comparisonPattern"`
}

type AnalyzeRequest struct {
	AnalysisType string          `json:"analysisType"`
	Data         json.RawMessage `json:"data"`
}

// AnalyzeReply echoes the structured source payload beside the narrative so
// the UI reads figures from it instead of parsing the generated prose.
type AnalyzeReply struct {
	Analysis string          `json:"analysis"`
	Source   json.RawMessage `json:"source,omitempty"`
}

func (s *InsightService) Login(ctx context.Context, req *LoginRequest) (*LoginReply, error) {
	token, store, err := s.stores.Login(ctx, req.StoreCode, req.AccessCode)
	if err != nil {
		return nil, err
	}
	return &LoginReply{Token: token, StoreCode: store.Code, StoreName: store.Name}, nil
}

func (s *InsightService) Overview(ctx context.Context, code, month string) (*OverviewReply, error) {
	month = defaultMonth(month)
	ov, err := s.stores.Overview(ctx, code, month)
	if err != nil {
		return nil, err
	}
	reply := &OverviewReply{
		Store: StoreInfo{
			Code:      ov.Store.Code,
			Name:      ov.Store.Name,
			Address:   ov.Store.Address,
			Latitude:  ov.Store.Latitude,
			Longitude: ov.Store.Longitude,
		},
	}
	reply.Pattern = patternReply(ov.Pattern)
	return reply, nil
}

func (s *InsightService) Recommendations(ctx context.Context, month, category string, limit int) (*ProductListReply, error) {
	month = defaultMonth(month)
	groups, err := s.products.Recommendations(ctx, month, category, limit)
	if err != nil {
		return nil, err
	}
	return &ProductListReply{Month: month, Groups: groupReplies(groups)}, nil
}

func (s *InsightService) Underperforming(ctx context.Context, month, category string, limit int) (*ProductListReply, error) {
	month = defaultMonth(month)
	groups, err := s.products.Underperforming(ctx, month, category, limit)
	if err != nil {
		return nil, err
	}
	return &ProductListReply{Month: month, Groups: groupReplies(groups)}, nil
}

func (s *InsightService) SimilarStores(ctx context.Context, code, month string, limit int) (*SimilarStoresReply, error) {
	month = defaultMonth(month)
	if limit <= 0 {
		limit = 5
	}
	stores, err := s.similarity.SimilarStores(ctx, code, month, limit)
	if err != nil {
		return nil, err
	}
	return &SimilarStoresReply{Month: month, Stores: stores}, nil
}

func (s *InsightService) Comparison(ctx context.Context, code, month string, withCodes []string) (*ComparisonReply, error) {
	month = defaultMonth(month)
	result, err := s.similarity.Compare(ctx, code, month, withCodes)
	if err != nil {
		return nil, err
	}
	return &ComparisonReply{
		Result: result,
		Mine:   patternReply(result.Mine),
		Other:  patternReply(result.Other),
	}, nil
}

func (s *InsightService) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeReply, error) {
	text, err := s.narrative.Generate(ctx, req.AnalysisType, req.Data)
	if err != nil {
		return nil, err
	}
	return &AnalyzeReply{Analysis: text, Source: req.Data}, nil
}

func defaultMonth(month string) string {
	if month == "" {
		return time.Now().Format("2006-01")
	}
	return month
}

func patternReply(p *biz.StorePattern) *PatternReply {
	if p == nil {
		return nil
	}
	return &PatternReply{
		Month:        p.Month,
		Categories:   p.Categories,
		TimeSlots:    biz.TimeSlots,
		WeekdaySlots: p.WeekdaySlots,
		WeekendSlots: p.WeekendSlots,
		WeekendRatio: p.WeekendRatio,
	}
}

func groupReplies(groups []*biz.ProductGroup) []ProductGroupReply {
	replies := make([]ProductGroupReply, 0, len(groups))
	for _, g := range groups {
		products := make([]ProductReply, 0, len(g.Products))
		for _, p := range g.Products {
			products = append(products, ProductReply{
				ID:           p.ID,
				Name:         p.Name,
				Category:     p.Category,
				Price:        p.Price,
				ImageURL:     p.ImageURL,
				MonthlySales: p.MonthlySales,
				SalesRank:    p.SalesRank,
			})
		}
		replies = append(replies, ProductGroupReply{Category: g.Category, Products: products})
	}
	return replies
}
