package biz

import (
	"context"
	"math"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompareCategories_Identity(t *testing.T) {
	p := CategoryPattern{"과자": 30, "음료": 20, "라면": 10}
	got := CompareCategories(p, p, []string{"과자", "음료", "라면"})
	if got.Score != 100 {
		t.Errorf("identity score = %v, want 100", got.Score)
	}
	for _, d := range got.Diffs {
		if d.AbsDiff != 0 {
			t.Errorf("identity diff for %s = %v, want 0", d.Category, d.AbsDiff)
		}
	}
}

func TestCompareCategories_Symmetry(t *testing.T) {
	a := CategoryPattern{"과자": 30, "음료": 5}
	b := CategoryPattern{"과자": 12.5, "맥주": 8}
	cats := []string{"과자", "음료", "맥주"}

	ab := CompareCategories(a, b, cats)
	ba := CompareCategories(b, a, cats)
	if !almostEqual(ab.Score, ba.Score) {
		t.Errorf("score not symmetric: %v vs %v", ab.Score, ba.Score)
	}
}

func TestCompareCategories_ClampToZero(t *testing.T) {
	a := CategoryPattern{"과자": 100}
	b := CategoryPattern{"음료": 100}
	got := CompareCategories(a, b, []string{"과자", "음료"})
	// avg diff 100 -> 100 - 200 clamps to 0
	if got.Score != 0 {
		t.Errorf("score = %v, want 0", got.Score)
	}
}

func TestCompareCategories_MissingTreatedAsZero(t *testing.T) {
	a := CategoryPattern{"과자": 10}
	got := CompareCategories(a, nil, []string{"과자", "음료"})
	if len(got.Diffs) != 2 {
		t.Fatalf("diffs len = %d, want 2", len(got.Diffs))
	}
	if got.Diffs[1].Other != 0 || got.Diffs[1].Mine != 0 {
		t.Errorf("absent category should read as 0, got %+v", got.Diffs[1])
	}
	// only 과자 has data on either side: avg = 10, score = 80
	if !almostEqual(got.Score, 80) {
		t.Errorf("score = %v, want 80", got.Score)
	}
}

func TestCompareCategories_EmptyInputs(t *testing.T) {
	got := CompareCategories(nil, nil, []string{"과자", "음료"})
	// no category has data on either side: avg = 0 -> score 100
	if got.Score != 100 {
		t.Errorf("score = %v, want 100", got.Score)
	}
}

func TestCompareTimeSlots_DominantSlot(t *testing.T) {
	myWd := []float64{5, 10, 30, 25, 20, 10}
	otherWd := []float64{5, 12, 28, 25, 20, 10}
	myWe := []float64{10, 10, 10, 40, 20, 10}
	otherWe := []float64{8, 12, 10, 38, 22, 10}

	got := CompareTimeSlots(myWd, otherWd, myWe, otherWe, TimeSlots)
	if got.WeekdayPeak != 2 {
		t.Errorf("weekday peak = %d, want 2 (점심)", got.WeekdayPeak)
	}
	if got.WeekendPeak != 3 {
		t.Errorf("weekend peak = %d, want 3 (오후)", got.WeekendPeak)
	}
	if !almostEqual(got.Weekday[1].AbsDiff, 2) {
		t.Errorf("weekday slot 1 absDiff = %v, want 2", got.Weekday[1].AbsDiff)
	}
}

func TestCompareTimeSlots_ShortSeriesReadAsZero(t *testing.T) {
	got := CompareTimeSlots([]float64{50}, nil, nil, nil, TimeSlots)
	if len(got.Weekday) != len(TimeSlots) {
		t.Fatalf("weekday len = %d, want %d", len(got.Weekday), len(TimeSlots))
	}
	if !almostEqual(got.Weekday[0].AbsDiff, 50) {
		t.Errorf("slot 0 absDiff = %v, want 50", got.Weekday[0].AbsDiff)
	}
	for i := 1; i < len(got.Weekday); i++ {
		if got.Weekday[i].AbsDiff != 0 {
			t.Errorf("slot %d absDiff = %v, want 0", i, got.Weekday[i].AbsDiff)
		}
	}
}

func TestCompareWeekendRatios(t *testing.T) {
	got := CompareWeekendRatios(1.2, 1.15)
	if !almostEqual(got.AbsDiff, 0.05) {
		t.Errorf("absDiff = %v, want 0.05", got.AbsDiff)
	}
	swapped := CompareWeekendRatios(1.15, 1.2)
	if !almostEqual(got.AbsDiff, swapped.AbsDiff) {
		t.Errorf("absDiff not symmetric: %v vs %v", got.AbsDiff, swapped.AbsDiff)
	}
}

func TestAveragePatterns_ExcludesZeroReporters(t *testing.T) {
	patterns := []*StorePattern{
		{Categories: CategoryPattern{"과자": 0}},
		{Categories: CategoryPattern{"과자": 20}},
		{Categories: CategoryPattern{"과자": 30}},
	}
	avg := AveragePatterns(patterns)
	// zero reporter excluded from the denominator: (20+30)/2, not /3
	if !almostEqual(avg.Categories["과자"], 25) {
		t.Errorf("avg = %v, want 25", avg.Categories["과자"])
	}
}

func TestAveragePatterns_SlotsAndRatio(t *testing.T) {
	patterns := []*StorePattern{
		{WeekdaySlots: []float64{0, 10}, WeekendRatio: 1.2},
		{WeekdaySlots: []float64{20, 30}, WeekendRatio: 0},
		nil,
	}
	avg := AveragePatterns(patterns)
	if !almostEqual(avg.WeekdaySlots[0], 20) {
		t.Errorf("slot 0 avg = %v, want 20", avg.WeekdaySlots[0])
	}
	if !almostEqual(avg.WeekdaySlots[1], 20) {
		t.Errorf("slot 1 avg = %v, want 20", avg.WeekdaySlots[1])
	}
	if !almostEqual(avg.WeekendRatio, 1.2) {
		t.Errorf("ratio avg = %v, want 1.2", avg.WeekendRatio)
	}
}

// mockStoreRepo 유사도 유스케이스용 모의 저장소
type mockStoreRepo struct {
	stores   map[string]*Store
	patterns map[string]*StorePattern // key: code|month
}

func (m *mockStoreRepo) GetStore(ctx context.Context, code string) (*Store, error) {
	if s, ok := m.stores[code]; ok {
		return s, nil
	}
	return nil, errors.NotFound("STORE_NOT_FOUND", "store not found")
}

func (m *mockStoreRepo) GetPattern(ctx context.Context, code, month string) (*StorePattern, error) {
	if p, ok := m.patterns[code+"|"+month]; ok {
		return p, nil
	}
	return nil, errors.NotFound("PATTERN_NOT_FOUND", "pattern not found")
}

func (m *mockStoreRepo) ListPatterns(ctx context.Context, month, excludeCode string) ([]*StorePattern, error) {
	var out []*StorePattern
	for _, p := range m.patterns {
		if p.Month == month && p.StoreCode != excludeCode {
			out = append(out, p)
		}
	}
	return out, nil
}

func newComparisonRepo() *mockStoreRepo {
	return &mockStoreRepo{
		patterns: map[string]*StorePattern{
			"A001|2026-07": {
				StoreCode: "A001", StoreName: "역삼점", Month: "2026-07",
				Categories:   CategoryPattern{"과자": 30, "음료": 30, "맥주": 40},
				WeekdaySlots: []float64{5, 15, 30, 20, 20, 10},
				WeekendSlots: []float64{10, 10, 20, 25, 25, 10},
				WeekendRatio: 1.3,
			},
			"B002|2026-07": {
				StoreCode: "B002", StoreName: "선릉점", Month: "2026-07",
				Categories:   CategoryPattern{"과자": 28, "음료": 32, "맥주": 40},
				WeekdaySlots: []float64{5, 15, 30, 20, 20, 10},
				WeekendSlots: []float64{10, 10, 20, 25, 25, 10},
				WeekendRatio: 1.25,
			},
			"C003|2026-07": {
				StoreCode: "C003", StoreName: "공단점", Month: "2026-07",
				Categories:   CategoryPattern{"과자": 5, "음료": 60, "맥주": 35},
				WeekdaySlots: []float64{20, 20, 20, 20, 10, 10},
				WeekendSlots: []float64{20, 20, 20, 20, 10, 10},
				WeekendRatio: 0.8,
			},
		},
	}
}

func TestSimilarityUseCase_SimilarStores(t *testing.T) {
	uc := NewSimilarityUseCase(newComparisonRepo(), log.DefaultLogger)

	stores, err := uc.SimilarStores(context.Background(), "A001", "2026-07", 5)
	if err != nil {
		t.Fatalf("SimilarStores() error = %v", err)
	}
	if len(stores) != 2 {
		t.Fatalf("len = %d, want 2", len(stores))
	}
	if stores[0].StoreCode != "B002" {
		t.Errorf("top store = %s, want B002", stores[0].StoreCode)
	}
	if stores[0].Score <= stores[1].Score {
		t.Errorf("ranking not descending: %v then %v", stores[0].Score, stores[1].Score)
	}
}

func TestSimilarityUseCase_CompareSingle(t *testing.T) {
	uc := NewSimilarityUseCase(newComparisonRepo(), log.DefaultLogger)

	result, err := uc.Compare(context.Background(), "A001", "2026-07", []string{"B002"})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.IsAverage {
		t.Error("single-store comparison should not be flagged as average")
	}
	if len(result.ComparedWith) != 1 || result.ComparedWith[0] != "B002" {
		t.Errorf("comparedWith = %v", result.ComparedWith)
	}
	if !almostEqual(result.Ratio.AbsDiff, 0.05) {
		t.Errorf("ratio absDiff = %v, want 0.05", result.Ratio.AbsDiff)
	}
}

func TestSimilarityUseCase_CompareAverage(t *testing.T) {
	uc := NewSimilarityUseCase(newComparisonRepo(), log.DefaultLogger)

	result, err := uc.Compare(context.Background(), "A001", "2026-07", nil)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !result.IsAverage {
		t.Error("set comparison should be flagged as average")
	}
	if len(result.ComparedWith) != 2 {
		t.Errorf("comparedWith = %v, want 2 stores", result.ComparedWith)
	}
	// 과자 average over non-zero reporters: (28+5)/2 = 16.5
	if !almostEqual(result.Other.Categories["과자"], 16.5) {
		t.Errorf("averaged 과자 = %v, want 16.5", result.Other.Categories["과자"])
	}
}

func TestSimilarityUseCase_CompareMissingPattern(t *testing.T) {
	uc := NewSimilarityUseCase(newComparisonRepo(), log.DefaultLogger)

	_, err := uc.Compare(context.Background(), "Z999", "2026-07", nil)
	if err == nil {
		t.Fatal("expected error for unknown store")
	}
	if errors.Code(err) != 404 {
		t.Errorf("code = %d, want 404", errors.Code(err))
	}
}
