package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/aliexpress"
	"laboutique_erp_202610/pkg/config"
	"laboutique_erp_202610/pkg/events"
	"laboutique_erp_202610/pkg/retry"
)

// fakeAliExpress 模拟开放平台与图片 CDN
type fakeAliExpress struct {
	mu       sync.Mutex
	srv      *httptest.Server
	refresh  int
	products int
}

func newFakeAliExpress(t *testing.T) *fakeAliExpress {
	f := &fakeAliExpress{}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAliExpress) handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case r.URL.Path == "/rest/auth/token/create":
		w.Header().Set("Content-Type", "application/json")
		if q.Get("code") != "good-code" {
			fmt.Fprint(w, `{"code":"InvalidCode","message":"authorization code invalid"}`)
			return
		}
		fmt.Fprint(w, `{"code":"0","access_token":"tok-1","refresh_token":"rt-1","expires_in":86400,"refresh_expires_in":2592000,"seller_id":"2001","account":"seller@example.com"}`)

	case r.URL.Path == "/rest/auth/token/refresh":
		w.Header().Set("Content-Type", "application/json")
		f.mu.Lock()
		f.refresh++
		n := f.refresh
		f.mu.Unlock()
		if q.Get("refresh_token") == "rt-bad" {
			fmt.Fprint(w, `{"error_response":{"code":"InvalidRefreshToken","msg":"refresh token invalid"}}`)
			return
		}
		fmt.Fprintf(w, `{"code":"0","access_token":"tok-r%d","refresh_token":"rt-r%d","expires_in":86400}`, n, n)

	case r.URL.Path == "/sync":
		w.Header().Set("Content-Type", "application/json")
		if q.Get("access_token") != "tok-1" {
			fmt.Fprint(w, `{"code":"IllegalAccessToken","message":"The specified access token is invalid or expired","type":"ISV"}`)
			return
		}
		f.mu.Lock()
		f.products++
		f.mu.Unlock()
		fmt.Fprint(w, f.productBody(q.Get("product_id")))

	case r.URL.Path == "/img/a.jpg":
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("\xff\xd8\xff\xe0fake-jpeg"))

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAliExpress) productBody(id string) string {
	return `{"aliexpress_ds_product_get_response":{"result":{
		"ae_item_base_info_dto":{"subject":"Lampe Nordique","detail":"<p>lumière chaude</p>","product_id":` + id + `,"currency_code":"EUR","category_id":39050508},
		"ae_multimedia_info_dto":{"image_urls":"` + f.srv.URL + `/img/a.jpg;` + f.srv.URL + `/img/missing.jpg"},
		"ae_item_sku_info_dtos":{"ae_item_sku_info_d_t_o":[
			{"sku_id":"12000036","offer_sale_price":"19.99","sku_price":"25.00","sku_available_stock":12,
			 "ae_sku_property_dtos":{"ae_sku_property_d_t_o":[{"sku_property_name":"Couleur","sku_property_value":"white","property_value_definition_name":"Blanc","sku_image":"` + f.srv.URL + `/img/a.jpg"}]}},
			{"sku_id":"12000037","offer_sale_price":"","sku_price":"17.50","sku_available_stock":"3",
			 "ae_sku_property_dtos":{"ae_sku_property_d_t_o":[{"sku_property_name":"Couleur","sku_property_value":"Noir"}]}}
		]},
		"ae_store_info":{"store_name":"Lumi Store"}
	},"rsp_code":"200"}}`
}

type aliFixture struct {
	db       *gorm.DB
	store    *model.Store
	svc      *AliExpressService
	repo     repository.AliExpressRepository
	fake     *fakeAliExpress
	events   *events.Recorder
	notifier *notifyRecorder
}

func newAliFixture(t *testing.T) (*aliFixture, context.Context) {
	t.Helper()
	db := setupServiceDB(t)
	store := seedStore(t, db, "boutique")
	fake := newFakeAliExpress(t)

	client := aliexpress.NewClient(aliexpress.Config{
		AppKey:      "12345",
		AppSecret:   "secret",
		BaseURL:     fake.srv.URL,
		AuthURL:     fake.srv.URL + "/oauth/authorize",
		CallbackURL: "https://admin.example.com/api/aliexpress/callback",
	}, aliexpress.WithRetrier(retry.NewRetrier(retry.Config{
		MaxRetries:     1,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		BackoffFactor:  1,
	})))

	local, err := NewLocalStorage(config.StorageConfig{LocalDir: t.TempDir()})
	require.NoError(t, err)

	repo := repository.NewAliExpressRepository(db)
	products := NewProductService(
		repository.NewProductRepository(db),
		repository.NewStoreRepository(db),
		NewCategoryService(repository.NewCategoryRepository(db)),
		NewVendorService(repository.NewVendorRepository(db)),
		nil,
	)
	rec := &events.Recorder{}
	notifier := &notifyRecorder{}
	svc := NewAliExpressService(client, repo, products, NewStorageServiceWithProvider(local), nil, rec, notifier,
		config.AliExpressConfig{DefaultMarkupBps: 5000})

	return &aliFixture{db: db, store: store, svc: svc, repo: repo, fake: fake, events: rec, notifier: notifier}, context.Background()
}

func (f *aliFixture) seedToken(t *testing.T, storeID int64, access, refresh string, expiresIn time.Duration) {
	t.Helper()
	require.NoError(t, f.repo.UpsertToken(context.Background(), &model.AliExpressToken{
		StoreID:      storeID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(expiresIn),
		Status:       model.TokenStatusValid,
	}))
}

func TestApplyMarkup(t *testing.T) {
	tests := []struct {
		price, bps, want int64
	}{
		{1999, 5000, 2999},
		{1750, 5000, 2625},
		{1000, 0, 1000},
		{333, 1500, 383},
		{0, 5000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ApplyMarkup(tt.price, tt.bps), "ApplyMarkup(%d, %d)", tt.price, tt.bps)
	}
}

func TestMapAliExpressProduct(t *testing.T) {
	p := &aliexpress.Product{
		ProductID:   "1005",
		Subject:     "Lampe",
		Currency:    "eur",
		CategoryID:  "39050508",
		StoreName:   "Lumi Store",
		ImageURLs:   []string{"https://ae01.alicdn.com/a.jpg"},
		MinPrice:    1000,
		TotalStock:  7,
		OriginalURL: "https://www.aliexpress.com/item/1005.html",
		SKUs: []aliexpress.SKU{
			{SKUID: "1", Price: 1000, ListPrice: 1200, Stock: 4, Properties: []aliexpress.SKUProperty{{Name: "Color", Value: "Red"}, {Name: "Size", Value: "M"}}},
			{SKUID: "2", Price: 1100, ListPrice: 1300, Stock: 3},
		},
	}
	category := int64Ptr(9)

	req := MapAliExpressProduct(p, ImportOptions{CategoryID: category, MarkupBps: 10000})
	assert.Equal(t, "Lampe", req.Title)
	assert.Equal(t, int64(2000), req.Price)
	assert.Equal(t, int64(2600), req.CompareAtPrice)
	assert.Equal(t, "EUR", req.Currency)
	assert.Equal(t, 7, req.Stock)
	assert.Equal(t, model.ProductStatusDraft, req.Status)
	assert.Equal(t, model.ProductSourceAliExpress, req.Source)
	assert.Equal(t, "1005", req.SourceID)
	assert.Equal(t, category, req.CategoryID)
	assert.Contains(t, string(req.Attributes), "Lumi Store")
	require.Len(t, req.Images, 1)

	require.Len(t, req.Variants, 2)
	assert.Equal(t, "Red / M", req.Variants[0].Name)
	assert.Equal(t, map[string]string{"Color": "Red", "Size": "M"}, req.Variants[0].Options)
	assert.Equal(t, int64(2000), req.Variants[0].Price)
	assert.Equal(t, "1", req.Variants[0].SourceSKUID)
	assert.Equal(t, "Option 2", req.Variants[1].Name)

	single := MapAliExpressProduct(&aliexpress.Product{ProductID: "9", Subject: "Mug", MinPrice: 500,
		SKUs: []aliexpress.SKU{{SKUID: "9-1", Price: 500}}}, ImportOptions{Status: model.ProductStatusActive})
	assert.Empty(t, single.Variants, "单规格无属性不生成变体")
	assert.Equal(t, int64(0), single.CompareAtPrice)
	assert.Equal(t, model.ProductStatusActive, single.Status)
}

func TestAliExpressService_OAuthFlow(t *testing.T) {
	f, ctx := newAliFixture(t)

	status, err := f.svc.Status(ctx, f.store.ID)
	require.NoError(t, err)
	assert.True(t, status.Configured)
	assert.False(t, status.Connected)

	auth, err := f.svc.AuthorizeURL(ctx, f.store.ID)
	require.NoError(t, err)
	u, err := url.Parse(auth.URL)
	require.NoError(t, err)
	assert.Equal(t, auth.State, u.Query().Get("state"))
	assert.Equal(t, "12345", u.Query().Get("client_id"))

	_, err = f.svc.Callback(ctx, "good-code", "forged-state")
	assert.True(t, errors.Is(err, ErrInvalidOAuthState))

	tok, err := f.svc.Callback(ctx, "good-code", auth.State)
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, f.store.ID, tok.StoreID)
	assert.Equal(t, "tok-1", tok.AccessToken)
	assert.Equal(t, "seller@example.com", tok.Account)
	assert.Equal(t, model.TokenStatusValid, tok.Status)
	assert.NotNil(t, tok.LastRefreshedAt)

	_, err = f.svc.Callback(ctx, "good-code", auth.State)
	assert.True(t, errors.Is(err, ErrInvalidOAuthState), "state 只能使用一次")

	status, err = f.svc.Status(ctx, f.store.ID)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, model.TokenStatusValid, status.Status)
	assert.Equal(t, "2001", status.SellerID)

	require.NoError(t, f.svc.Disconnect(ctx, f.store.ID))
	status, err = f.svc.Status(ctx, f.store.ID)
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestAliExpressService_CallbackRejectedCode(t *testing.T) {
	f, ctx := newAliFixture(t)

	auth, err := f.svc.AuthorizeURL(ctx, f.store.ID)
	require.NoError(t, err)
	_, err = f.svc.Callback(ctx, "bad-code", auth.State)
	require.Error(t, err)

	tok, err := f.repo.GetToken(ctx, f.store.ID)
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestAliExpressService_ImportProduct(t *testing.T) {
	f, ctx := newAliFixture(t)
	f.seedToken(t, f.store.ID, "tok-1", "rt-1", 24*time.Hour)

	res, err := f.svc.ImportProduct(ctx, f.store.ID, 7, &dto.ImportRequest{
		URL: "https://fr.aliexpress.com/item/1005006123456789.html?spm=abc",
	})
	require.NoError(t, err)
	assert.True(t, res.Created)

	p := res.Product
	assert.Equal(t, "Lampe Nordique", p.Title)
	assert.Equal(t, model.ProductSourceAliExpress, p.Source)
	assert.Equal(t, "1005006123456789", p.SourceID)
	assert.Equal(t, int64(2625), p.Price, "最低价 17.50 加价 50%")
	assert.Equal(t, int64(3750), p.CompareAtPrice)
	assert.Equal(t, 15, p.Stock)
	assert.Equal(t, model.ProductStatusDraft, p.Status)

	var images []model.ProductImage
	require.NoError(t, f.db.Where("product_id = ?", p.ID).Order("id").Find(&images).Error)
	require.Len(t, images, 2)
	assert.True(t, strings.HasPrefix(images[0].URL, "/uploads/products/"), "可下载的图片转存到本地: %s", images[0].URL)
	assert.Equal(t, f.fake.srv.URL+"/img/missing.jpg", images[1].URL, "转存失败保留原链接")

	var variants []model.ProductVariant
	require.NoError(t, f.db.Where("product_id = ?", p.ID).Order("id").Find(&variants).Error)
	require.Len(t, variants, 2)
	assert.Equal(t, "Blanc", variants[0].Name)
	assert.Equal(t, int64(2999), variants[0].Price)
	assert.Equal(t, images[0].URL, variants[0].ImageURL, "同一张图只转存一次")

	assert.Equal(t, model.ImportStatusSuccess, res.Job.Status)
	assert.Equal(t, []string{events.ProductImported}, f.events.Types())
	assert.Contains(t, f.notifier.types, "import_done")

	// 再次导入更新同一商品
	again, err := f.svc.ImportProduct(ctx, f.store.ID, 7, &dto.ImportRequest{URL: "1005006123456789", Status: model.ProductStatusActive})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, p.ID, again.Product.ID)
	assert.Equal(t, model.ProductStatusActive, again.Product.Status)

	jobs, total, err := f.svc.ListJobs(ctx, f.store.ID, &dto.ImportJobListRequest{Status: model.ImportStatusSuccess})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.NotNil(t, jobs[0].ProductID)
	assert.Equal(t, p.ID, *jobs[0].ProductID)
	assert.Equal(t, int64(7), jobs[0].CreatedBy)
}

func TestAliExpressService_ImportFailures(t *testing.T) {
	f, ctx := newAliFixture(t)

	_, err := f.svc.ImportProduct(ctx, f.store.ID, 1, &dto.ImportRequest{URL: "https://item.taobao.com/item.htm?id=1"})
	require.Error(t, err)
	_, total, err := f.svc.ListJobs(ctx, f.store.ID, &dto.ImportJobListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total, "链接无效时不创建任务")

	_, err = f.svc.ImportProduct(ctx, f.store.ID, 1, &dto.ImportRequest{URL: "1005006123456789"})
	assert.True(t, errors.Is(err, ErrAliExpressAuthRequired))

	jobs, total, err := f.svc.ListJobs(ctx, f.store.ID, &dto.ImportJobListRequest{Status: model.ImportStatusFailed})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.NotEmpty(t, jobs[0].Error)
	assert.Nil(t, jobs[0].ProductID)
	assert.Empty(t, f.events.Types())
}

func TestAliExpressService_RefreshExpiring(t *testing.T) {
	f, ctx := newAliFixture(t)
	soon := f.store
	later := seedStore(t, f.db, "later")
	revoked := seedStore(t, f.db, "revoked")

	f.seedToken(t, soon.ID, "tok-old", "rt-1", 10*time.Minute)
	f.seedToken(t, later.ID, "tok-later", "rt-2", 5*time.Hour)
	f.seedToken(t, revoked.ID, "tok-rev", "rt-bad", 20*time.Minute)

	refreshed, failed, err := f.svc.RefreshExpiring(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed)
	assert.Equal(t, 1, failed)

	tok, err := f.repo.GetToken(ctx, soon.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tok.AccessToken, "tok-r"))
	assert.Equal(t, model.TokenStatusValid, tok.Status)
	assert.True(t, tok.ExpiresAt.After(time.Now().Add(TokenRefreshWindow)))

	tok, err = f.repo.GetToken(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok-later", tok.AccessToken, "窗口外不刷新")

	tok, err = f.repo.GetToken(ctx, revoked.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TokenStatusAuthInvalid, tok.Status)
	assert.NotEmpty(t, tok.LastError)

	// 失效的授权不再参与刷新
	refreshed, failed, err = f.svc.RefreshExpiring(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, refreshed)
	assert.Equal(t, 0, failed)
}
