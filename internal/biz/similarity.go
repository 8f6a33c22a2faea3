package biz

import (
	"context"
	"math"
	"sort"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// CategoryDiff 카테고리 한 개에 대한 비교 값
type CategoryDiff struct {
	Category string  `json:"category"`
	Mine     float64 `json:"myValue"`
	Other    float64 `json:"otherValue"`
	AbsDiff  float64 `json:"absDiff"`
}

// CategoryComparison 카테고리 차원의 비교 결과
type CategoryComparison struct {
	Diffs []CategoryDiff `json:"perCategoryDiff"`
	Score float64        `json:"score"` // [0,100]
}

// SlotDiff 시간대 한 칸에 대한 비교 값
type SlotDiff struct {
	Slot    string  `json:"slot"`
	Mine    float64 `json:"myValue"`
	Other   float64 `json:"otherValue"`
	AbsDiff float64 `json:"absDiff"`
}

// TimeSlotComparison holds per-slot differences for both day types, plus the
// index of the dominant slot (largest combined share) per day type. The
// dominant slot is used only for narrative emphasis.
type TimeSlotComparison struct {
	Weekday     []SlotDiff `json:"weekday"`
	Weekend     []SlotDiff `json:"weekend"`
	WeekdayPeak int        `json:"weekdayPeak"`
	WeekendPeak int        `json:"weekendPeak"`
}

// RatioComparison 주중/주말 비율 차원의 비교 결과. 점수는 계산하지 않는다.
type RatioComparison struct {
	Mine    float64 `json:"myRatio"`
	Other   float64 `json:"otherRatio"`
	AbsDiff float64 `json:"absDiff"`
}

// SimilarityResult is assembled fresh per comparison request and holds every
// dimension plus both input series for chart rendering.
type SimilarityResult struct {
	StoreCode    string             `json:"storeCode"`
	Month        string             `json:"month"`
	Category     CategoryComparison `json:"category"`
	TimeSlot     TimeSlotComparison `json:"timeSlot"`
	Ratio        RatioComparison    `json:"weekendRatio"`
	ComparedWith []string           `json:"comparedWith"`
	IsAverage    bool               `json:"isAverage"`
	Mine         *StorePattern      `json:"-"`
	Other        *StorePattern      `json:"-"`
}

// CompareCategories computes per-category absolute differences and a bounded
// similarity score. A missing category on either side reads as 0. The average
// difference only counts categories where at least one side has data; the
// score is 100 - avg*2 clamped to [0,100].
func CompareCategories(mine, other CategoryPattern, categories []string) CategoryComparison {
	diffs := make([]CategoryDiff, 0, len(categories))
	var sum float64
	var n int
	for _, c := range categories {
		mv := mine[c]
		ov := other[c]
		d := math.Abs(mv - ov)
		diffs = append(diffs, CategoryDiff{Category: c, Mine: mv, Other: ov, AbsDiff: d})
		if mv > 0 || ov > 0 {
			sum += d
			n++
		}
	}
	var avg float64
	if n > 0 {
		avg = sum / float64(n)
	}
	score := 100 - avg*2
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return CategoryComparison{Diffs: diffs, Score: score}
}

// CompareTimeSlots computes per-slot absolute differences for weekday and
// weekend series. Series shorter than the slot vocabulary read as 0 at the
// missing indexes.
func CompareTimeSlots(myWeekday, otherWeekday, myWeekend, otherWeekend []float64, slots []string) TimeSlotComparison {
	wd, wdPeak := slotDiffs(myWeekday, otherWeekday, slots)
	we, wePeak := slotDiffs(myWeekend, otherWeekend, slots)
	return TimeSlotComparison{Weekday: wd, Weekend: we, WeekdayPeak: wdPeak, WeekendPeak: wePeak}
}

func slotDiffs(mine, other []float64, slots []string) ([]SlotDiff, int) {
	diffs := make([]SlotDiff, len(slots))
	peak := 0
	best := math.Inf(-1)
	for i, s := range slots {
		mv := slotAt(mine, i)
		ov := slotAt(other, i)
		diffs[i] = SlotDiff{Slot: s, Mine: mv, Other: ov, AbsDiff: math.Abs(mv - ov)}
		if mv+ov > best {
			best = mv + ov
			peak = i
		}
	}
	return diffs, peak
}

func slotAt(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// CompareWeekendRatios returns the raw absolute difference between two
// weekend/weekday ratios. Callers threshold it (e.g. < 0.1 reads as "very
// similar"); no bounded score exists for this dimension.
func CompareWeekendRatios(mine, other float64) RatioComparison {
	return RatioComparison{Mine: mine, Other: other, AbsDiff: math.Abs(mine - other)}
}

// AveragePatterns averages a set of comparison stores into one pattern. At
// every key the mean runs over the stores reporting a non-zero value there;
// zero-reporting stores are excluded from that key's denominator, not treated
// as zero-valued contributors.
func AveragePatterns(patterns []*StorePattern) *StorePattern {
	avg := &StorePattern{
		Categories:   CategoryPattern{},
		WeekdaySlots: make([]float64, len(TimeSlots)),
		WeekendSlots: make([]float64, len(TimeSlots)),
	}
	if len(patterns) == 0 {
		return avg
	}

	catSum := map[string]float64{}
	catCnt := map[string]int{}
	wdSum := make([]float64, len(TimeSlots))
	wdCnt := make([]int, len(TimeSlots))
	weSum := make([]float64, len(TimeSlots))
	weCnt := make([]int, len(TimeSlots))
	var ratioSum float64
	var ratioCnt int

	for _, p := range patterns {
		if p == nil {
			continue
		}
		for c, v := range p.Categories {
			if v > 0 {
				catSum[c] += v
				catCnt[c]++
			}
		}
		for i := range TimeSlots {
			if v := slotAt(p.WeekdaySlots, i); v > 0 {
				wdSum[i] += v
				wdCnt[i]++
			}
			if v := slotAt(p.WeekendSlots, i); v > 0 {
				weSum[i] += v
				weCnt[i]++
			}
		}
		if p.WeekendRatio > 0 {
			ratioSum += p.WeekendRatio
			ratioCnt++
		}
	}

	for c, s := range catSum {
		avg.Categories[c] = s / float64(catCnt[c])
	}
	for i := range TimeSlots {
		if wdCnt[i] > 0 {
			avg.WeekdaySlots[i] = wdSum[i] / float64(wdCnt[i])
		}
		if weCnt[i] > 0 {
			avg.WeekendSlots[i] = weSum[i] / float64(weCnt[i])
		}
	}
	if ratioCnt > 0 {
		avg.WeekendRatio = ratioSum / float64(ratioCnt)
	}
	return avg
}

// SimilarStore 유사 매장 랭킹의 한 항목
type SimilarStore struct {
	StoreCode string  `json:"storeCode"`
	StoreName string  `json:"storeName"`
	Score     float64 `json:"score"`
}

// SimilarityUseCase 유사 매장 비교 비즈니스 로직
type SimilarityUseCase struct {
	repo StoreRepo
	log  *log.Helper
}

// NewSimilarityUseCase 유사 매장 비교 비즈니스 로직 인스턴스 생성
func NewSimilarityUseCase(repo StoreRepo, logger log.Logger) *SimilarityUseCase {
	return &SimilarityUseCase{repo: repo, log: log.NewHelper(logger)}
}

// SimilarStores ranks every other store of the month by category-similarity
// score, highest first. Ties break on store code for a stable order.
func (uc *SimilarityUseCase) SimilarStores(ctx context.Context, code, month string, limit int) ([]*SimilarStore, error) {
	mine, err := uc.repo.GetPattern(ctx, code, month)
	if err != nil {
		return nil, err
	}
	others, err := uc.repo.ListPatterns(ctx, month, code)
	if err != nil {
		return nil, err
	}

	ranked := make([]*SimilarStore, 0, len(others))
	for _, p := range others {
		cmp := CompareCategories(mine.Categories, p.Categories, Categories)
		ranked = append(ranked, &SimilarStore{StoreCode: p.StoreCode, StoreName: p.StoreName, Score: cmp.Score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].StoreCode < ranked[j].StoreCode
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Compare assembles the full similarity report for one store against either a
// single comparison store (one code given) or the averaged set (several codes,
// or every other store of the month when none are given).
func (uc *SimilarityUseCase) Compare(ctx context.Context, code, month string, withCodes []string) (*SimilarityResult, error) {
	mine, err := uc.repo.GetPattern(ctx, code, month)
	if err != nil {
		return nil, err
	}

	var other *StorePattern
	var compared []string
	isAverage := false

	switch {
	case len(withCodes) == 1:
		other, err = uc.repo.GetPattern(ctx, withCodes[0], month)
		if err != nil {
			return nil, err
		}
		compared = []string{withCodes[0]}
	default:
		var pats []*StorePattern
		if len(withCodes) == 0 {
			pats, err = uc.repo.ListPatterns(ctx, month, code)
			if err != nil {
				return nil, err
			}
		} else {
			for _, wc := range withCodes {
				p, err := uc.repo.GetPattern(ctx, wc, month)
				if err != nil {
					return nil, err
				}
				pats = append(pats, p)
			}
		}
		if len(pats) == 0 {
			return nil, errors.NotFound("PATTERN_NOT_FOUND", "no comparison stores for month "+month)
		}
		for _, p := range pats {
			compared = append(compared, p.StoreCode)
		}
		other = AveragePatterns(pats)
		isAverage = true
	}

	return &SimilarityResult{
		StoreCode:    code,
		Month:        month,
		Category:     CompareCategories(mine.Categories, other.Categories, Categories),
		TimeSlot:     CompareTimeSlots(mine.WeekdaySlots, other.WeekdaySlots, mine.WeekendSlots, other.WeekendSlots, TimeSlots),
		Ratio:        CompareWeekendRatios(mine.WeekendRatio, other.WeekendRatio),
		ComparedWith: compared,
		IsAverage:    isAverage,
		Mine:         mine,
		Other:        other,
	}, nil
}
