package biz

// Store 매장 기본 정보
type Store struct {
	Code           string
	Name           string
	Address        string
	Latitude       float64
	Longitude      float64
	AccessCodeHash string
}

// CategoryPattern maps a merchandise category to its sales share in percent.
// Categories outside the tracked vocabulary may be omitted; a missing key
// reads as zero.
type CategoryPattern map[string]float64

// StorePattern is a read-only snapshot of one store's sales patterns for one
// reporting month. It is fetched per request and never mutated.
type StorePattern struct {
	StoreCode    string
	StoreName    string
	Month        string // "2006-01"
	Categories   CategoryPattern
	WeekdaySlots []float64 // aligned to TimeSlots, percent of weekday total
	WeekendSlots []float64 // aligned to TimeSlots, percent of weekend total
	WeekendRatio float64   // weekend sales / weekday sales, weekday = 1.0
}

// Categories 추적 대상 카테고리 목록 (표시 순서 고정)
var Categories = []string{
	"과자", "음료", "라면", "냉장", "맥주", "아이스크림", "생활용품", "담배",
}

// TimeSlots 시간대 구간 목록 (표시 순서 고정)
var TimeSlots = []string{
	"심야(0-6)", "오전(6-11)", "점심(11-14)", "오후(14-17)", "저녁(17-21)", "밤(21-24)",
}
