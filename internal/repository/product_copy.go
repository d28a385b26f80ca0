package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
)

// CopyProductRow COPY 写入的一行商品及其图片
type CopyProductRow struct {
	Product model.Product
	Images  []string
}

// CopyResult COPY 写入统计
type CopyResult struct {
	Inserted int
	Updated  int
	Skipped  int // slug 已被非种子商品占用
}

var copyProductColumns = []string{
	"store_id", "category_id", "vendor_id", "title", "slug", "description", "sku",
	"price", "compare_at_price", "currency", "stock", "status", "is_featured",
	"source", "source_id", "created_at", "updated_at",
}

const copyUpsertSQL = `
INSERT INTO products (store_id, category_id, vendor_id, title, slug, description, sku,
	price, compare_at_price, currency, stock, status, is_featured, source, source_id, created_at, updated_at)
SELECT store_id, category_id, vendor_id, title, slug, description, sku,
	price, compare_at_price, currency, stock, status, is_featured, source, source_id, created_at, updated_at
FROM product_staging
ON CONFLICT (store_id, slug) DO UPDATE SET
	category_id = EXCLUDED.category_id,
	vendor_id = EXCLUDED.vendor_id,
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	sku = EXCLUDED.sku,
	price = EXCLUDED.price,
	compare_at_price = EXCLUDED.compare_at_price,
	currency = EXCLUDED.currency,
	stock = EXCLUDED.stock,
	status = EXCLUDED.status,
	is_featured = EXCLUDED.is_featured,
	updated_at = EXCLUDED.updated_at,
	deleted_at = NULL
WHERE products.source = EXCLUDED.source
RETURNING id, slug, (xmax = 0) AS inserted`

// CopyProducts 通过 COPY 写入临时表后合并到 products，仅支持 PostgreSQL
// 以 (store_id, slug) 为键，不会覆盖非种子来源的商品
func CopyProducts(ctx context.Context, db *gorm.DB, storeID int64, rows []CopyProductRow) (*CopyResult, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`CREATE TEMP TABLE product_staging (LIKE products INCLUDING DEFAULTS) ON COMMIT DROP`); err != nil {
		return nil, fmt.Errorf("创建临时表失败: %w", err)
	}

	now := time.Now()
	err = copyIn(ctx, tx, "product_staging", copyProductColumns, len(rows), func(i int) []interface{} {
		p := rows[i].Product
		return []interface{}{
			storeID, nullableID(p.CategoryID), nullableID(p.VendorID), p.Title, p.Slug, p.Description, p.SKU,
			p.Price, p.CompareAtPrice, p.Currency, p.Stock, p.Status, p.IsFeatured,
			p.Source, p.SourceID, now, now,
		}
	})
	if err != nil {
		return nil, err
	}

	result, err := tx.QueryContext(ctx, copyUpsertSQL)
	if err != nil {
		return nil, fmt.Errorf("合并商品失败: %w", err)
	}
	ids := make(map[string]int64, len(rows))
	res := &CopyResult{}
	for result.Next() {
		var (
			id       int64
			slug     string
			inserted bool
		)
		if err := result.Scan(&id, &slug, &inserted); err != nil {
			result.Close()
			return nil, err
		}
		ids[slug] = id
		if inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
	}
	if err := result.Close(); err != nil {
		return nil, err
	}
	res.Skipped = len(rows) - len(ids)

	if err := copyImages(ctx, tx, rows, ids, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// copyImages 替换已写入商品的图片
func copyImages(ctx context.Context, tx *sql.Tx, rows []CopyProductRow, ids map[string]int64, now time.Time) error {
	productIDs := make([]int64, 0, len(ids))
	for _, id := range ids {
		productIDs = append(productIDs, id)
	}
	if len(productIDs) == 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = ANY($1)`, pq.Array(productIDs)); err != nil {
		return fmt.Errorf("清理商品图片失败: %w", err)
	}

	type imageRow struct {
		productID int64
		url, alt  string
		order     int
	}
	var images []imageRow
	for _, r := range rows {
		id, ok := ids[r.Product.Slug]
		if !ok {
			continue
		}
		for i, u := range r.Images {
			images = append(images, imageRow{productID: id, url: u, alt: r.Product.Title, order: i})
		}
	}
	cols := []string{"product_id", "url", "alt", "sort_order", "created_at", "updated_at"}
	return copyIn(ctx, tx, "product_images", cols, len(images), func(i int) []interface{} {
		img := images[i]
		return []interface{}{img.productID, img.url, img.alt, img.order, now, now}
	})
}

func copyIn(ctx context.Context, tx *sql.Tx, table string, cols []string, n int, row func(i int) []interface{}) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, cols...))
	if err != nil {
		return fmt.Errorf("准备 COPY %s 失败: %w", table, err)
	}
	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, row(i)...); err != nil {
			stmt.Close()
			return fmt.Errorf("COPY %s 第 %d 行失败: %w", table, i+1, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("COPY %s 提交失败: %w", table, err)
	}
	return stmt.Close()
}

func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
