package biz

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
)

// Product 체인 차원의 월별 상품 실적 행
type Product struct {
	ID           int
	Name         string
	Category     string
	Price        int
	ImageURL     string
	Month        string
	MonthlySales int
	SalesRank    int // 1 = best seller of the month
}

// ProductRepo 상품 저장소 인터페이스
type ProductRepo interface {
	// ListByRank 월(필수)과 카테고리(선택)로 필터링해 판매 순위로 정렬 조회.
	// asc=true면 상위 순위(추천), false면 하위 순위(부진 상품)부터.
	ListByRank(ctx context.Context, month, category string, limit int, asc bool) ([]*Product, error)
}

// ProductGroup 카테고리 한 개로 묶인 상품 목록
type ProductGroup struct {
	Category string
	Products []*Product
}

// ProductUseCase 추천/부진 상품 조회 비즈니스 로직
type ProductUseCase struct {
	repo ProductRepo
	log  *log.Helper
}

// NewProductUseCase 상품 비즈니스 로직 인스턴스 생성
func NewProductUseCase(repo ProductRepo, logger log.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, log: log.NewHelper(logger)}
}

// Recommendations 해당 월의 상위 판매 상품을 카테고리별로 묶어 반환
func (uc *ProductUseCase) Recommendations(ctx context.Context, month, category string, limit int) ([]*ProductGroup, error) {
	products, err := uc.repo.ListByRank(ctx, month, category, limit, true)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(products, Categories), nil
}

// Underperforming 해당 월의 하위 판매 상품을 카테고리별로 묶어 반환
func (uc *ProductUseCase) Underperforming(ctx context.Context, month, category string, limit int) ([]*ProductGroup, error) {
	products, err := uc.repo.ListByRank(ctx, month, category, limit, false)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(products, Categories), nil
}

// GroupByCategory buckets products by category. Known categories come first
// in vocabulary order; anything outside the vocabulary follows in first-seen
// order. Empty groups are dropped.
func GroupByCategory(products []*Product, known []string) []*ProductGroup {
	knownSet := make(map[string]bool, len(known))
	for _, c := range known {
		knownSet[c] = true
	}

	byCat := map[string][]*Product{}
	var extras []string
	for _, p := range products {
		if !knownSet[p.Category] && len(byCat[p.Category]) == 0 {
			extras = append(extras, p.Category)
		}
		byCat[p.Category] = append(byCat[p.Category], p)
	}

	order := make([]string, 0, len(known)+len(extras))
	order = append(order, known...)
	order = append(order, extras...)

	groups := make([]*ProductGroup, 0, len(byCat))
	for _, c := range order {
		if ps := byCat[c]; len(ps) > 0 {
			groups = append(groups, &ProductGroup{Category: c, Products: ps})
		}
	}
	return groups
}
