package biz

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
)

// 분석 유형 태그. 프런트엔드 요청의 analysisType 값과 일치해야 한다.
const (
	AnalysisTypeCategory       = "판매패턴"
	AnalysisTypeTimeSlot       = "시간대패턴"
	AnalysisTypeWeekdayWeekend = "주중주말패턴"
)

// SystemInstruction pins the model to the supplied figures. Sent with every
// narrative request regardless of analysis type.
const SystemInstruction = "당신은 편의점 매출 데이터를 분석하는 데이터 분석 전용 어시스턴트입니다. " +
	"제공된 수치만을 근거로 분석하고, 수치에 없는 내용을 추측하거나 일반적인 조언을 덧붙이지 마세요."

// CategoryDiffInput 요청에 실려 오는 카테고리별 부호 있는 차이 (내 매장 - 비교 매장)
type CategoryDiffInput struct {
	Category string  `json:"category"`
	Diff     float64 `json:"diff"`
}

// CategoryAnalysisData 판매패턴 분석 요청 페이로드
type CategoryAnalysisData struct {
	MyStoreData     CategoryPattern     `json:"myStoreData"`
	ComparisonData  CategoryPattern     `json:"comparisonData"`
	Categories      []string            `json:"categories"`
	SimilarityScore float64             `json:"similarityScore"`
	CategoryDiffs   []CategoryDiffInput `json:"categoryDiffs"`
	IsAverage       bool                `json:"isAverage"`
}

// TimeSlotAnalysisData 시간대패턴 분석 요청 페이로드. TimeType은 "주중" 또는 "주말".
type TimeSlotAnalysisData struct {
	MyStoreData    []float64 `json:"myStoreData"`
	ComparisonData []float64 `json:"comparisonData"`
	TimeSlots      []string  `json:"timeSlots"`
	TimeType       string    `json:"timeType"`
	IsAverage      bool      `json:"isAverage"`
}

// WeekdayWeekendAnalysisData 주중주말패턴 분석 요청 페이로드
type WeekdayWeekendAnalysisData struct {
	MyWeekendRatio         float64 `json:"myWeekendRatio"`
	ComparisonWeekendRatio float64 `json:"comparisonWeekendRatio"`
	IsAverage              bool    `json:"isAverage"`
}

// ErrInvalidAnalysisType 알 수 없는 분석 유형. 기본 템플릿으로 대체하지 않는다.
func ErrInvalidAnalysisType(analysisType string) error {
	return errors.BadRequest("INVALID_ANALYSIS_TYPE", fmt.Sprintf("unknown analysis type %q", analysisType))
}

// BuildPrompt renders the fixed template for the given analysis type with
// every numeric value embedded verbatim. The raw payload must match the
// type's request shape.
func BuildPrompt(analysisType string, data json.RawMessage) (string, error) {
	switch analysisType {
	case AnalysisTypeCategory:
		var d CategoryAnalysisData
		if err := json.Unmarshal(data, &d); err != nil {
			return "", errors.BadRequest("INVALID_PAYLOAD", "malformed 판매패턴 payload: "+err.Error())
		}
		return buildCategoryPrompt(&d), nil
	case AnalysisTypeTimeSlot:
		var d TimeSlotAnalysisData
		if err := json.Unmarshal(data, &d); err != nil {
			return "", errors.BadRequest("INVALID_PAYLOAD", "malformed 시간대패턴 payload: "+err.Error())
		}
		return buildTimeSlotPrompt(&d), nil
	case AnalysisTypeWeekdayWeekend:
		var d WeekdayWeekendAnalysisData
		if err := json.Unmarshal(data, &d); err != nil {
			return "", errors.BadRequest("INVALID_PAYLOAD", "malformed 주중주말패턴 payload: "+err.Error())
		}
		return buildWeekdayWeekendPrompt(&d), nil
	default:
		return "", ErrInvalidAnalysisType(analysisType)
	}
}

func comparisonLabel(isAverage bool) string {
	if isAverage {
		return "비교 매장 평균"
	}
	return "비교 매장"
}

const promptInstructions = "위 수치만을 근거로 다음 네 가지를 담아 분석해 주세요.\n" +
	"1. 유사도 또는 차이 수준을 수치로 언급할 것\n" +
	"2. 가장 비슷한 항목을 짚을 것\n" +
	"3. 차이가 두드러지는 항목 하나와 그 의미를 설명할 것\n" +
	"4. 상권과 고객층에 대한 시사점을 주어진 수치 안에서만 추론할 것\n" +
	"정확히 두 줄로만 답변하세요."

func buildCategoryPrompt(d *CategoryAnalysisData) string {
	label := comparisonLabel(d.IsAverage)
	var b strings.Builder
	fmt.Fprintf(&b, "내 매장과 %s의 카테고리별 매출 비중 데이터입니다.\n\n", label)
	b.WriteString("내 매장 카테고리별 매출 비중:\n")
	for _, c := range d.Categories {
		fmt.Fprintf(&b, "- %s: %.2f%%\n", c, d.MyStoreData[c])
	}
	fmt.Fprintf(&b, "\n%s 카테고리별 매출 비중:\n", label)
	for _, c := range d.Categories {
		fmt.Fprintf(&b, "- %s: %.2f%%\n", c, d.ComparisonData[c])
	}
	fmt.Fprintf(&b, "\n유사도 점수: %d%%\n", int(math.Round(d.SimilarityScore)))
	fmt.Fprintf(&b, "\n카테고리별 차이(내 매장 - %s):\n", label)
	for _, cd := range d.CategoryDiffs {
		fmt.Fprintf(&b, "- %s: %+.2f%%p\n", cd.Category, cd.Diff)
	}
	b.WriteString("\n")
	b.WriteString(promptInstructions)
	return b.String()
}

func buildTimeSlotPrompt(d *TimeSlotAnalysisData) string {
	label := comparisonLabel(d.IsAverage)
	var b strings.Builder
	fmt.Fprintf(&b, "내 매장과 %s의 %s 시간대별 매출 비중 데이터입니다.\n\n", label, d.TimeType)
	for i, slot := range d.TimeSlots {
		fmt.Fprintf(&b, "- %s: 내 매장 %.2f%%, %s %.2f%%\n",
			slot, slotAt(d.MyStoreData, i), label, slotAt(d.ComparisonData, i))
	}
	b.WriteString("\n")
	b.WriteString(promptInstructions)
	return b.String()
}

func buildWeekdayWeekendPrompt(d *WeekdayWeekendAnalysisData) string {
	label := comparisonLabel(d.IsAverage)
	diff := math.Abs(d.MyWeekendRatio - d.ComparisonWeekendRatio)
	var b strings.Builder
	fmt.Fprintf(&b, "내 매장과 %s의 주중 대비 주말 매출 비율 데이터입니다. 주중 매출을 1.0으로 둔 값입니다.\n\n", label)
	fmt.Fprintf(&b, "내 매장 주말 매출 비율: %.2f (%s)\n", d.MyWeekendRatio, ratioFraming(d.MyWeekendRatio))
	fmt.Fprintf(&b, "%s 주말 매출 비율: %.2f (%s)\n", label, d.ComparisonWeekendRatio, ratioFraming(d.ComparisonWeekendRatio))
	fmt.Fprintf(&b, "두 비율의 차이: %.2f\n", diff)
	b.WriteString("\n")
	b.WriteString(promptInstructions)
	return b.String()
}

// ratioFraming renders a weekend ratio as a sign-aware "% higher/lower than
// weekday" phrase with one decimal.
func ratioFraming(ratio float64) string {
	pct := (ratio - 1) * 100
	if pct >= 0 {
		return fmt.Sprintf("주중보다 %.1f%% 높음", pct)
	}
	return fmt.Sprintf("주중보다 %.1f%% 낮음", -pct)
}
