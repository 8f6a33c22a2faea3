package data

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/d0gyunkim/seveneleven-website-sub000/internal/biz"
)

type productRepo struct {
	data *Data
	log  *log.Helper
}

func NewProductRepo(data *Data, logger log.Logger) biz.ProductRepo {
	return &productRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *productRepo) ListByRank(ctx context.Context, month, category string, limit int, asc bool) ([]*biz.Product, error) {
	order := "DESC"
	if asc {
		order = "ASC"
	}

	query := `SELECT id, name, category, price, image_url, month, monthly_sales, sales_rank
		 FROM products WHERE month = $1`
	args := []any{month}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY sales_rank ` + order
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := r.data.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*biz.Product
	for rows.Next() {
		var p biz.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.ImageURL, &p.Month, &p.MonthlySales, &p.SalesRank); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}
