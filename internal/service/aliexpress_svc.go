package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/realtime"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/aliexpress"
	"laboutique_erp_202610/pkg/apperr"
	"laboutique_erp_202610/pkg/cache"
	"laboutique_erp_202610/pkg/config"
	"laboutique_erp_202610/pkg/events"
	"laboutique_erp_202610/pkg/logger"
)

const (
	oauthStateTTL    = 10 * time.Minute
	oauthStatePrefix = "aliexpress:oauth:"

	// TokenRefreshWindow 定时任务提前刷新的窗口
	TokenRefreshWindow = 40 * time.Minute

	imageConcurrency   = 4
	refreshConcurrency = 4
	importImageFolder  = "products"
)

// ErrAliExpressAuthRequired 店铺未授权或授权失效
var ErrAliExpressAuthRequired = apperr.NewForbiddenError("AliExpress 未授权或授权已失效，请重新授权")

// ==================== TokenStore ====================

// dbTokenStore 以 aliexpress_tokens 表为存储
type dbTokenStore struct {
	repo    repository.AliExpressRepository
	storeID int64
	now     func() time.Time
}

func (s *dbTokenStore) Load(ctx context.Context) (*aliexpress.Token, error) {
	row, err := s.repo.GetToken(ctx, s.storeID)
	if err != nil || row == nil {
		return nil, err
	}
	return &aliexpress.Token{
		AccessToken:      row.AccessToken,
		RefreshToken:     row.RefreshToken,
		ExpiresAt:        row.ExpiresAt,
		RefreshExpiresAt: row.RefreshExpiresAt,
		SellerID:         row.SellerID,
		Account:          row.Account,
		Invalid:          row.Status == model.TokenStatusAuthInvalid,
	}, nil
}

func (s *dbTokenStore) Save(ctx context.Context, t *aliexpress.Token) error {
	now := s.now()
	return s.repo.UpsertToken(ctx, &model.AliExpressToken{
		StoreID:          s.storeID,
		AccessToken:      t.AccessToken,
		RefreshToken:     t.RefreshToken,
		ExpiresAt:        t.ExpiresAt,
		RefreshExpiresAt: t.RefreshExpiresAt,
		SellerID:         t.SellerID,
		Account:          t.Account,
		Status:           model.TokenStatusValid,
		LastRefreshedAt:  &now,
	})
}

func (s *dbTokenStore) MarkInvalid(ctx context.Context, reason string) error {
	return s.repo.UpdateTokenStatus(ctx, s.storeID, model.TokenStatusAuthInvalid, truncateText(reason, 1000))
}

// ==================== Service ====================

// AliExpressService 授权管理与商品导入
type AliExpressService struct {
	client    *aliexpress.Client
	repo      repository.AliExpressRepository
	products  *ProductService
	storage   *StorageService
	states    cache.Store
	publisher events.Publisher
	notifier  realtime.Notifier
	cfg       config.AliExpressConfig
	now       func() time.Time
}

// NewAliExpressClient 按配置创建签名客户端
func NewAliExpressClient(cfg config.AliExpressConfig) *aliexpress.Client {
	return aliexpress.NewClient(aliexpress.Config{
		AppKey:      cfg.AppKey,
		AppSecret:   cfg.AppSecret,
		BaseURL:     cfg.BaseURL,
		AuthURL:     cfg.AuthURL,
		CallbackURL: cfg.CallbackURL,
		SignMethod:  cfg.SignMethod,
	})
}

func NewAliExpressService(
	client *aliexpress.Client,
	repo repository.AliExpressRepository,
	products *ProductService,
	storage *StorageService,
	states cache.Store,
	publisher events.Publisher,
	notifier realtime.Notifier,
	cfg config.AliExpressConfig,
) *AliExpressService {
	if states == nil {
		states = cache.NewMemoryStore()
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &AliExpressService{
		client:    client,
		repo:      repo,
		products:  products,
		storage:   storage,
		states:    states,
		publisher: publisher,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *AliExpressService) session(storeID int64) *aliexpress.Session {
	key := strconv.FormatInt(storeID, 10)
	return s.client.Session(key, &dbTokenStore{repo: s.repo, storeID: storeID, now: s.now})
}

// ==================== OAuth ====================

// AuthorizeURL 生成授权地址，state 一次性有效
func (s *AliExpressService) AuthorizeURL(ctx context.Context, storeID int64) (*dto.AliExpressAuthResponse, error) {
	if !s.client.Configured() {
		return nil, ErrAliExpressNotConfigured
	}
	state := uuid.NewString()
	if err := s.states.Set(ctx, oauthStatePrefix+state, []byte(strconv.FormatInt(storeID, 10)), oauthStateTTL); err != nil {
		return nil, apperr.NewInternalError("保存授权状态失败", err)
	}
	return &dto.AliExpressAuthResponse{URL: s.client.AuthorizeURL(state), State: state}, nil
}

// Callback 校验 state 并用授权码换取 token
func (s *AliExpressService) Callback(ctx context.Context, code, state string) (*model.AliExpressToken, error) {
	if code == "" || state == "" {
		return nil, ErrInvalidOAuthState
	}
	raw, err := s.states.Take(ctx, oauthStatePrefix+state)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrInvalidOAuthState
	}
	if err != nil {
		return nil, apperr.NewInternalError("读取授权状态失败", err)
	}
	storeID, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return nil, ErrInvalidOAuthState
	}

	tok, err := s.client.CreateToken(ctx, code)
	if err != nil {
		logger.Warn("[AliExpress] 授权码换取 token 失败", zap.Int64("store_id", storeID), zap.Error(err))
		return nil, apperr.NewExternalError("AliExpress", err)
	}
	store := &dbTokenStore{repo: s.repo, storeID: storeID, now: s.now}
	if err := store.Save(ctx, tok); err != nil {
		return nil, apperr.NewInternalError("保存授权失败", err)
	}
	logger.Info("[AliExpress] 店铺授权成功",
		zap.Int64("store_id", storeID),
		zap.String("account", tok.Account),
		zap.Time("expires_at", tok.ExpiresAt))
	return s.repo.GetToken(ctx, storeID)
}

// Status 授权概况
func (s *AliExpressService) Status(ctx context.Context, storeID int64) (*dto.AliExpressStatus, error) {
	out := &dto.AliExpressStatus{Configured: s.client.Configured()}
	row, err := s.repo.GetToken(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return out, nil
	}

	status := row.Status
	if status == model.TokenStatusValid && !row.ExpiresAt.After(s.now()) {
		status = model.TokenStatusExpired
	}
	expires := row.ExpiresAt
	out.Connected = status != model.TokenStatusAuthInvalid
	out.Status = status
	out.Account = row.Account
	out.SellerID = row.SellerID
	out.ExpiresAt = &expires
	out.LastRefreshedAt = row.LastRefreshedAt
	out.LastError = row.LastError
	return out, nil
}

// Disconnect 解除授权，保留导入记录
func (s *AliExpressService) Disconnect(ctx context.Context, storeID int64) error {
	return s.repo.UpdateTokenStatus(ctx, storeID, model.TokenStatusAuthInvalid, "disconnected")
}

// ==================== 导入 ====================

// ImportProduct 拉取商品、转存图片并按 source_id 更新到店铺
func (s *AliExpressService) ImportProduct(ctx context.Context, storeID, actorID int64, req *dto.ImportRequest) (*dto.ImportResult, error) {
	productID, err := aliexpress.ParseProductURL(req.URL)
	if err != nil {
		return nil, apperr.NewValidationError(err.Error())
	}
	if !s.client.Configured() {
		return nil, ErrAliExpressNotConfigured
	}

	job := &model.ImportJob{
		StoreID:   storeID,
		SourceURL: req.URL,
		SourceID:  productID,
		Status:    model.ImportStatusRunning,
	}
	job.CreatedBy = actorID
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	start := s.now()
	product, created, err := s.importProduct(ctx, storeID, productID, req)
	job.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		job.Status = model.ImportStatusFailed
		job.Error = truncateText(err.Error(), 1000)
		s.finishJob(ctx, job)
		logger.Warn("[AliExpress] 商品导入失败",
			zap.Int64("store_id", storeID),
			zap.String("product_id", productID),
			zap.Error(err))
		return nil, importError(err)
	}

	job.Status = model.ImportStatusSuccess
	job.ProductID = &product.ID
	s.finishJob(ctx, job)

	payload := map[string]interface{}{
		"job_id":     job.ID,
		"product_id": product.ID,
		"source_id":  productID,
		"title":      product.Title,
		"created":    created,
	}
	events.PublishSafe(ctx, s.publisher, storeID, events.ProductImported, payload)
	s.notifier.Notify(storeID, realtime.TypeImportDone, payload)

	logger.Info("[AliExpress] 商品导入完成",
		zap.Int64("store_id", storeID),
		zap.String("source_id", productID),
		zap.Int64("product_id", product.ID),
		zap.Bool("created", created),
		zap.Int64("duration_ms", job.DurationMs))
	return &dto.ImportResult{Job: job, Product: product, Created: created}, nil
}

func (s *AliExpressService) importProduct(ctx context.Context, storeID int64, productID string, req *dto.ImportRequest) (*model.Product, bool, error) {
	// 按店铺币种取价，AliExpress 负责换算
	currency, err := s.products.StoreCurrency(ctx, storeID)
	if err != nil {
		return nil, false, err
	}
	src, err := s.session(storeID).GetProduct(ctx, productID, aliexpress.ProductOptions{
		ShipToCountry:  s.cfg.ShipToCountry,
		TargetCurrency: currency,
		TargetLanguage: s.cfg.TargetLanguage,
	})
	if err != nil {
		return nil, false, err
	}

	markup := s.cfg.DefaultMarkupBps
	if req.MarkupBps != nil {
		markup = *req.MarkupBps
	}
	preq := MapAliExpressProduct(src, ImportOptions{
		CategoryID: req.CategoryID,
		VendorID:   req.VendorID,
		MarkupBps:  markup,
		Status:     req.Status,
	})
	if preq.SourceURL == "" {
		preq.SourceURL = req.URL
	}
	s.rehostImages(ctx, storeID, preq)

	return s.products.UpsertBySource(ctx, storeID, preq)
}

func (s *AliExpressService) finishJob(ctx context.Context, job *model.ImportJob) {
	fields := map[string]interface{}{
		"status":      job.Status,
		"error":       job.Error,
		"product_id":  job.ProductID,
		"duration_ms": job.DurationMs,
	}
	if err := s.repo.UpdateJob(ctx, job.ID, fields); err != nil {
		logger.Error("[AliExpress] 更新导入记录失败", zap.Int64("job_id", job.ID), zap.Error(err))
	}
}

// rehostImages 并发转存主图和规格图，失败时保留原链接
func (s *AliExpressService) rehostImages(ctx context.Context, storeID int64, req *dto.ProductRequest) {
	if s.storage == nil {
		return
	}

	var urls []*string
	for i := range req.Images {
		urls = append(urls, &req.Images[i].URL)
	}
	for i := range req.Variants {
		if req.Variants[i].ImageURL != "" {
			urls = append(urls, &req.Variants[i].ImageURL)
		}
	}

	// 同一张图只下载一次
	rehosted := make(map[string]string)
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := rehosted[*u]; !ok {
			rehosted[*u] = *u
			unique = append(unique, *u)
		}
	}
	results := make([]string, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imageConcurrency)
	for i, src := range unique {
		i, src := i, src
		g.Go(func() error {
			url, err := s.storage.UploadFromURL(gctx, storeID, importImageFolder, src)
			if err != nil {
				logger.Warn("[AliExpress] 图片转存失败，保留原链接", zap.String("url", src), zap.Error(err))
				results[i] = src
				return nil
			}
			results[i] = url
			return nil
		})
	}
	_ = g.Wait()

	for i, src := range unique {
		rehosted[src] = results[i]
	}
	for _, u := range urls {
		*u = rehosted[*u]
	}
}

// ListJobs 导入记录
func (s *AliExpressService) ListJobs(ctx context.Context, storeID int64, req *dto.ImportJobListRequest) ([]model.ImportJob, int64, error) {
	return s.repo.ListJobs(ctx, storeID, req.Status, req.Page, req.PageSize)
}

// ==================== 定时刷新 ====================

// RefreshExpiring 刷新窗口内即将过期的授权
func (s *AliExpressService) RefreshExpiring(ctx context.Context) (refreshed, failed int, err error) {
	if !s.client.Configured() {
		return 0, 0, nil
	}
	tokens, err := s.repo.FindExpiring(ctx, s.now().Add(TokenRefreshWindow))
	if err != nil {
		return 0, 0, err
	}

	var ok, bad int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for _, t := range tokens {
		storeID := t.StoreID
		g.Go(func() error {
			if _, err := s.session(storeID).Refresh(gctx); err != nil {
				atomic.AddInt64(&bad, 1)
				logger.Warn("[AliExpress] 定时刷新失败", zap.Int64("store_id", storeID), zap.Error(err))
				if !errors.Is(err, aliexpress.ErrAuthorizationRequired) {
					_ = s.repo.UpdateTokenStatus(gctx, storeID, model.TokenStatusValid, truncateText(err.Error(), 1000))
				}
				return nil
			}
			atomic.AddInt64(&ok, 1)
			return nil
		})
	}
	_ = g.Wait()
	return int(ok), int(bad), nil
}

func importError(err error) error {
	var appErr *apperr.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, aliexpress.ErrAuthorizationRequired):
		return ErrAliExpressAuthRequired
	case errors.Is(err, aliexpress.ErrNotConfigured):
		return ErrAliExpressNotConfigured
	default:
		return apperr.NewExternalError("AliExpress", err)
	}
}

// ==================== 字段映射 ====================

// ImportOptions 导入时的店铺侧设置
type ImportOptions struct {
	CategoryID *int64
	VendorID   *int64
	MarkupBps  int64
	Status     string
}

// ApplyMarkup 按万分比加价，四舍五入到最小货币单位
func ApplyMarkup(price, bps int64) int64 {
	if price <= 0 || bps <= 0 {
		return price
	}
	return price + (price*bps+5000)/10000
}

// MapAliExpressProduct 把 AliExpress 商品转换为店铺商品请求
func MapAliExpressProduct(p *aliexpress.Product, opts ImportOptions) *dto.ProductRequest {
	status := opts.Status
	if status == "" {
		status = model.ProductStatusDraft
	}

	req := &dto.ProductRequest{
		Title:       truncateText(p.Subject, 255),
		Description: p.Detail,
		SKU:         "AE-" + p.ProductID,
		Price:       ApplyMarkup(p.MinPrice, opts.MarkupBps),
		Currency:    strings.ToUpper(p.Currency),
		Stock:       p.TotalStock,
		Status:      status,
		CategoryID:  opts.CategoryID,
		VendorID:    opts.VendorID,
		Source:      model.ProductSourceAliExpress,
		SourceID:    p.ProductID,
		SourceURL:   p.OriginalURL,
	}

	var listMax int64
	for _, sku := range p.SKUs {
		if sku.ListPrice > listMax {
			listMax = sku.ListPrice
		}
	}
	if compare := ApplyMarkup(listMax, opts.MarkupBps); compare > req.Price {
		req.CompareAtPrice = compare
	}

	attrs := map[string]string{}
	if p.CategoryID != "" {
		attrs["aliexpress_category_id"] = p.CategoryID
	}
	if p.StoreName != "" {
		attrs["aliexpress_store"] = p.StoreName
	}
	if len(attrs) > 0 {
		req.Attributes, _ = json.Marshal(attrs)
	}

	for _, u := range p.ImageURLs {
		req.Images = append(req.Images, dto.ImageInput{URL: u, Alt: req.Title})
	}

	// 单一规格且无属性时不生成变体
	if len(p.SKUs) == 1 && len(p.SKUs[0].Properties) == 0 {
		return req
	}
	for i, sku := range p.SKUs {
		v := dto.VariantInput{
			SKU:         "AE-" + sku.SKUID,
			Price:       ApplyMarkup(sku.Price, opts.MarkupBps),
			Stock:       sku.Stock,
			SourceSKUID: sku.SKUID,
			ImageURL:    sku.ImageURL,
		}
		if len(sku.Properties) > 0 {
			v.Options = make(map[string]string, len(sku.Properties))
			names := make([]string, 0, len(sku.Properties))
			for _, prop := range sku.Properties {
				v.Options[prop.Name] = prop.Value
				names = append(names, prop.Value)
			}
			v.Name = strings.Join(names, " / ")
		}
		if v.Name == "" {
			v.Name = fmt.Sprintf("Option %d", i+1)
		}
		req.Variants = append(req.Variants, v)
	}
	return req
}
