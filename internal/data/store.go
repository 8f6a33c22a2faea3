package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/d0gyunkim/seveneleven-website-sub000/internal/biz"
)

type storeRepo struct {
	data *Data
	log  *log.Helper
}

func NewStoreRepo(data *Data, logger log.Logger) biz.StoreRepo {
	return &storeRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *storeRepo) GetStore(ctx context.Context, code string) (*biz.Store, error) {
	row := r.data.db.QueryRowContext(ctx,
		`SELECT code, name, address, latitude, longitude, access_code_hash
		 FROM stores WHERE code = $1`, code)

	var s biz.Store
	if err := row.Scan(&s.Code, &s.Name, &s.Address, &s.Latitude, &s.Longitude, &s.AccessCodeHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("STORE_NOT_FOUND", "store not found: "+code)
		}
		return nil, fmt.Errorf("query store: %w", err)
	}
	return &s, nil
}

const patternColumns = `p.store_code, s.name, p.month, p.categories, p.weekday_slots, p.weekend_slots, p.weekend_ratio`

func (r *storeRepo) GetPattern(ctx context.Context, code, month string) (*biz.StorePattern, error) {
	row := r.data.db.QueryRowContext(ctx,
		`SELECT `+patternColumns+`
		 FROM store_patterns p JOIN stores s ON s.code = p.store_code
		 WHERE p.store_code = $1 AND p.month = $2`, code, month)

	p, err := scanPattern(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("PATTERN_NOT_FOUND",
				fmt.Sprintf("no pattern for store %s in %s", code, month))
		}
		return nil, fmt.Errorf("query pattern: %w", err)
	}
	return p, nil
}

func (r *storeRepo) ListPatterns(ctx context.Context, month, excludeCode string) ([]*biz.StorePattern, error) {
	rows, err := r.data.db.QueryContext(ctx,
		`SELECT `+patternColumns+`
		 FROM store_patterns p JOIN stores s ON s.code = p.store_code
		 WHERE p.month = $1 AND p.store_code <> $2
		 ORDER BY p.store_code`, month, excludeCode)
	if err != nil {
		return nil, fmt.Errorf("query patterns: %w", err)
	}
	defer rows.Close()

	var patterns []*biz.StorePattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPattern(row rowScanner) (*biz.StorePattern, error) {
	var p biz.StorePattern
	var catJSON, wdJSON, weJSON []byte
	if err := row.Scan(&p.StoreCode, &p.StoreName, &p.Month, &catJSON, &wdJSON, &weJSON, &p.WeekendRatio); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(catJSON, &p.Categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if err := json.Unmarshal(wdJSON, &p.WeekdaySlots); err != nil {
		return nil, fmt.Errorf("decode weekday slots: %w", err)
	}
	if err := json.Unmarshal(weJSON, &p.WeekendSlots); err != nil {
		return nil, fmt.Errorf("decode weekend slots: %w", err)
	}
	return &p, nil
}
