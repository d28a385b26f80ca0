package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
)

func newSeedFixture(t *testing.T) (*SeedService, *gorm.DB, *model.Store, context.Context) {
	t.Helper()
	db := setupServiceDB(t)
	store := seedStore(t, db, "boutique")

	categoryRepo := repository.NewCategoryRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	productRepo := repository.NewProductRepository(db)
	categories := NewCategoryService(categoryRepo)
	vendors := NewVendorService(vendorRepo)
	products := NewProductService(productRepo, repository.NewStoreRepository(db), categories, vendors, nil)

	svc := NewSeedService(db, categories, vendors, products, categoryRepo, vendorRepo, productRepo)
	return svc, db, store, context.Background()
}

const seedJSON = `{
  "categories": [
    {"name": "Lampes", "slug": "lampes", "parent_slug": "maison"},
    {"name": "Maison"},
    {"name": ""},
    {"name": "Orpheline", "parent_slug": "inconnu"}
  ],
  "vendors": [
    {"name": "Atelier Dakar", "email": "contact@atelier.sn", "commission_bps": 0},
    {"name": "Mauvais", "email": "pas-un-email"}
  ],
  "products": [
    {"title": "Lampe Tressée", "price": 4500, "stock": 3, "status": "active",
     "category_slug": "lampes", "vendor_slug": "atelier-dakar", "images": ["https://cdn.example.com/l.jpg"]},
    {"title": "Prix négatif", "price": -1},
    {"title": "Sans catégorie", "price": 100, "category_slug": "introuvable"}
  ]
}`

func rowErrors(report *SeedReport, sheet string) map[int]string {
	out := map[int]string{}
	for _, e := range report.Errors {
		if e.Sheet == sheet {
			out[e.Row] = e.Message
		}
	}
	return out
}

func TestSeedService_JSON(t *testing.T) {
	svc, db, store, ctx := newSeedFixture(t)

	ds, err := ParseSeedJSON(strings.NewReader(seedJSON))
	require.NoError(t, err)

	report, err := svc.Seed(ctx, store.ID, ds, SeedOptions{})
	require.NoError(t, err)

	assert.Equal(t, SeedCounts{Created: 2, Skipped: 2}, report.Categories)
	assert.Equal(t, SeedCounts{Created: 1, Skipped: 1}, report.Vendors)
	assert.Equal(t, SeedCounts{Created: 1, Skipped: 2}, report.Products)

	catErrs := rowErrors(report, SheetCategories)
	assert.Contains(t, catErrs[3], "name")
	assert.Contains(t, catErrs[4], "inconnu")
	assert.Contains(t, rowErrors(report, SheetVendors)[2], "email")
	prodErrs := rowErrors(report, SheetProducts)
	assert.Contains(t, prodErrs[2], "price")
	assert.Contains(t, prodErrs[3], "introuvable")

	// 子分类写在父分类之后
	var parent, child model.Category
	require.NoError(t, db.Where("store_id = ? AND slug = ?", store.ID, "maison").First(&parent).Error)
	require.NoError(t, db.Where("store_id = ? AND slug = ?", store.ID, "lampes").First(&child).Error)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	var vendor model.Vendor
	require.NoError(t, db.Where("store_id = ? AND slug = ?", store.ID, "atelier-dakar").First(&vendor).Error)
	assert.Equal(t, model.VendorStatusActive, vendor.Status)
	assert.Equal(t, int64(0), vendor.CommissionBps)

	var product model.Product
	require.NoError(t, db.Preload("Images").Where("store_id = ? AND slug = ?", store.ID, "lampe-tressee").First(&product).Error)
	assert.Equal(t, model.ProductSourceSeed, product.Source)
	assert.Equal(t, int64(4500), product.Price)
	assert.Equal(t, child.ID, *product.CategoryID)
	assert.Equal(t, vendor.ID, *product.VendorID)
	assert.Equal(t, "EUR", product.Currency, "未填写币种时沿用店铺币种")
	require.Len(t, product.Images, 1)

	// 重复导入只更新
	ds, err = ParseSeedJSON(strings.NewReader(seedJSON))
	require.NoError(t, err)
	again, err := svc.Seed(ctx, store.ID, ds, SeedOptions{Copy: true})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Categories.Created+again.Vendors.Created+again.Products.Created)
	assert.Equal(t, 2, again.Categories.Updated)
	assert.Equal(t, 1, again.Products.Updated)

	var count int64
	require.NoError(t, db.Model(&model.Product{}).Where("store_id = ?", store.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSeedService_CategoryCycle(t *testing.T) {
	svc, _, store, ctx := newSeedFixture(t)

	report, err := svc.Seed(ctx, store.ID, &Dataset{Categories: []SeedCategory{
		{Row: 1, Name: "A", ParentSlug: "b"},
		{Row: 2, Name: "B", ParentSlug: "a"},
		{Row: 3, Name: "C"},
		{Row: 4, Name: "D", ParentSlug: "d"},
	}}, SeedOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Categories.Created)
	assert.Equal(t, 3, report.Categories.Skipped)
	errs := rowErrors(report, SheetCategories)
	assert.Contains(t, errs, 1)
	assert.Contains(t, errs, 2)
	assert.Contains(t, errs, 4)
}

func TestSeedService_ForeignCurrencyRow(t *testing.T) {
	svc, db, store, ctx := newSeedFixture(t)

	report, err := svc.Seed(ctx, store.ID, &Dataset{Products: []SeedProduct{
		{Row: 1, Title: "Panier USD", Price: 1999, Currency: "USD"},
		{Row: 2, Title: "Panier EUR", Price: 1999, Currency: "eur"},
		{Row: 3, Title: "Panier", Price: 1999},
	}}, SeedOptions{})
	require.NoError(t, err)

	assert.Equal(t, SeedCounts{Created: 2, Skipped: 1}, report.Products)
	assert.Contains(t, rowErrors(report, SheetProducts)[1], ErrCurrencyMismatch.Message)

	var currencies []string
	require.NoError(t, db.Model(&model.Product{}).Where("store_id = ?", store.ID).Pluck("currency", &currencies).Error)
	assert.ElementsMatch(t, []string{"EUR", "EUR"}, currencies)
}

func TestDemoDataset_Deterministic(t *testing.T) {
	a := DemoDataset(20, 7)
	b := DemoDataset(20, 7)
	assert.Equal(t, a, b)
	assert.Len(t, a.Products, 20)
	assert.Len(t, a.Categories, len(demoCategories))

	for _, p := range a.Products {
		assert.NoError(t, validateRow(p), p.Title)
	}
}

func TestSeedService_ExportRoundTrip(t *testing.T) {
	svc, _, store, ctx := newSeedFixture(t)

	report, err := svc.Seed(ctx, store.ID, DemoDataset(12, 42), SeedOptions{})
	require.NoError(t, err)
	require.Empty(t, report.Errors)
	assert.Equal(t, 12, report.Products.Created)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCatalog(ctx, store.ID, &buf))

	ds, rowErrs, err := ParseSeedXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	assert.Len(t, ds.Categories, len(demoCategories))
	assert.Len(t, ds.Vendors, len(demoVendors))
	require.Len(t, ds.Products, 12)
	for _, p := range ds.Products {
		assert.NotEmpty(t, p.Slug)
		assert.Greater(t, p.Price, int64(0))
		assert.Len(t, p.Images, 1)
	}

	again, err := svc.Seed(ctx, store.ID, ds, SeedOptions{})
	require.NoError(t, err)
	assert.Empty(t, again.Errors)
	assert.Equal(t, SeedCounts{Updated: 12}, again.Products)
	assert.Equal(t, SeedCounts{Updated: len(demoCategories)}, again.Categories)
}

func TestParseSeedXLSX_RowErrors(t *testing.T) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Products")
	rows := [][]interface{}{
		{"Title *", "Price", "Stock", "Images", "Is_Featured"},
		{"Bol", "1200", "4", "https://a.example.com/1.jpg; https://a.example.com/2.jpg", "oui"},
		{"Tasse", "douze", "1", "", ""},
		{"Plat", "900", "2", "", "peut-être"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Products", cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	ds, rowErrs, err := ParseSeedXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, ds.Products, 1)
	p := ds.Products[0]
	assert.Equal(t, "Bol", p.Title)
	assert.Equal(t, int64(1200), p.Price)
	assert.True(t, p.IsFeatured)
	assert.Equal(t, []string{"https://a.example.com/1.jpg", "https://a.example.com/2.jpg"}, p.Images)
	assert.Equal(t, 2, p.Row)

	require.Len(t, rowErrs, 2)
	assert.Equal(t, 3, rowErrs[0].Row)
	assert.Equal(t, 4, rowErrs[1].Row)

	_, _, err = ParseSeedXLSX(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}
