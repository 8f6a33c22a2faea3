package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	klog "github.com/go-kratos/kratos/v2/log"

	"github.com/d0gyunkim/seveneleven-website-sub000/internal/biz"
	"github.com/d0gyunkim/seveneleven-website-sub000/internal/conf"
	"github.com/d0gyunkim/seveneleven-website-sub000/internal/data"
	"github.com/d0gyunkim/seveneleven-website-sub000/pkg/config"
	"github.com/d0gyunkim/seveneleven-website-sub000/pkg/logger"
)

// 단건 비교 리포트 CLI. 매장 하나를 같은 달의 나머지 매장 평균과 비교하고
// 세 가지 내러티브를 생성해 출력한다.
func main() {
	confPath := flag.String("conf", "configs/analyze.yaml", "config path")
	storeCode := flag.String("store", "", "store code (required)")
	month := flag.String("month", time.Now().Format("2006-01"), "reporting month, e.g. 2026-07")
	flag.Parse()

	if *storeCode == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -store CODE [-month YYYY-MM] [-conf path]")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*confPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *storeCode, *month); err != nil {
		logger.Log.Errorf("analyze failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, storeCode, month string) error {
	ctx := context.Background()
	kl := klog.DefaultLogger

	d, cleanup, err := data.NewData(&conf.Data{Database: &conf.Database{
		Driver: "postgres",
		Source: cfg.DB.DSN(),
	}}, kl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer cleanup()

	repo := data.NewStoreRepo(d, kl)
	chat := data.NewChatClient(&conf.Narrative{
		BaseUrl: cfg.LLM.BaseURL,
		ApiKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	}, kl)
	similarity := biz.NewSimilarityUseCase(repo, kl)
	narrative := biz.NewNarrativeUseCase(chat, kl)

	logger.Log.Infof("comparing store [%s] against the %s average", storeCode, month)
	result, err := similarity.Compare(ctx, storeCode, month, nil)
	if err != nil {
		return err
	}

	fmt.Printf("== 비교 리포트: %s (%s, %d개 매장 평균 대비) ==\n\n",
		storeCode, month, len(result.ComparedWith))
	fmt.Printf("카테고리 유사도 점수: %.1f\n", result.Category.Score)
	for _, cd := range result.Category.Diffs {
		fmt.Printf("  %-8s 내 매장 %6.2f%%  평균 %6.2f%%  차이 %5.2f%%p\n",
			cd.Category, cd.Mine, cd.Other, cd.AbsDiff)
	}
	fmt.Printf("주말/주중 비율: 내 매장 %.2f, 평균 %.2f (차이 %.2f)\n\n",
		result.Ratio.Mine, result.Ratio.Other, result.Ratio.AbsDiff)

	for _, section := range buildSections(result) {
		text, err := narrative.Generate(ctx, section.analysisType, section.payload)
		if err != nil {
			logger.Log.Errorf("narrative [%s] failed: %v", section.title, err)
			continue
		}
		fmt.Printf("[%s]\n%s\n\n", section.title, text)
	}
	return nil
}

type section struct {
	title        string
	analysisType string
	payload      json.RawMessage
}

// buildSections converts one comparison result into the three narrative
// request payloads, mirroring what the web UI sends to POST /api/v1/analysis.
func buildSections(r *biz.SimilarityResult) []section {
	diffs := make([]biz.CategoryDiffInput, 0, len(r.Category.Diffs))
	for _, d := range r.Category.Diffs {
		diffs = append(diffs, biz.CategoryDiffInput{Category: d.Category, Diff: d.Mine - d.Other})
	}

	sections := []section{
		{
			title:        "판매 패턴 분석",
			analysisType: biz.AnalysisTypeCategory,
			payload: mustMarshal(biz.CategoryAnalysisData{
				MyStoreData:     r.Mine.Categories,
				ComparisonData:  r.Other.Categories,
				Categories:      biz.Categories,
				SimilarityScore: r.Category.Score,
				CategoryDiffs:   diffs,
				IsAverage:       r.IsAverage,
			}),
		},
		{
			title:        "주중 시간대 분석",
			analysisType: biz.AnalysisTypeTimeSlot,
			payload: mustMarshal(biz.TimeSlotAnalysisData{
				MyStoreData:    r.Mine.WeekdaySlots,
				ComparisonData: r.Other.WeekdaySlots,
				TimeSlots:      biz.TimeSlots,
				TimeType:       "주중",
				IsAverage:      r.IsAverage,
			}),
		},
		{
			title:        "주말 시간대 분석",
			analysisType: biz.AnalysisTypeTimeSlot,
			payload: mustMarshal(biz.TimeSlotAnalysisData{
				MyStoreData:    r.Mine.WeekendSlots,
				ComparisonData: r.Other.WeekendSlots,
				TimeSlots:      biz.TimeSlots,
				TimeType:       "주말",
				IsAverage:      r.IsAverage,
			}),
		},
		{
			title:        "주중/주말 패턴 분석",
			analysisType: biz.AnalysisTypeWeekdayWeekend,
			payload: mustMarshal(biz.WeekdayWeekendAnalysisData{
				MyWeekendRatio:         r.Ratio.Mine,
				ComparisonWeekendRatio: r.Ratio.Other,
				IsAverage:              r.IsAverage,
			}),
		},
	}
	return sections
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
