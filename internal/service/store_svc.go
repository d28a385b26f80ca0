package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/logger"
	"laboutique_erp_202610/pkg/utils"
)

// StoreService 店铺（租户）管理
type StoreService struct {
	storeRepo repository.StoreRepository
}

func NewStoreService(storeRepo repository.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// CreateStore 创建店铺，未指定 slug 时由名称生成
func (s *StoreService) CreateStore(ctx context.Context, req *dto.CreateStoreRequest) (*model.Store, error) {
	slug := utils.Slugify(req.Slug)
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}
	if slug == "" {
		slug = "store"
	}
	exists, err := s.storeRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrStoreSlugTaken
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}
	store := &model.Store{
		Name:         strings.TrimSpace(req.Name),
		Slug:         slug,
		Currency:     currency,
		Status:       model.StoreStatusActive,
		SupportEmail: req.SupportEmail,
		LogoURL:      req.LogoURL,
	}
	if len(req.Settings) > 0 {
		store.Settings = datatypes.JSON(req.Settings)
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}
	logger.Info("[Store] 店铺已创建", zap.Int64("store_id", store.ID), zap.String("slug", slug))
	return store, nil
}

func (s *StoreService) GetStore(ctx context.Context, id int64) (*model.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStoreNotFound
	}
	return store, err
}

func (s *StoreService) UpdateStore(ctx context.Context, id int64, req *dto.UpdateStoreRequest) (*model.Store, error) {
	store, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		store.Name = strings.TrimSpace(*req.Name)
	}
	if req.Currency != nil {
		store.Currency = strings.ToUpper(*req.Currency)
	}
	if req.SupportEmail != nil {
		store.SupportEmail = *req.SupportEmail
	}
	if req.LogoURL != nil {
		store.LogoURL = *req.LogoURL
	}
	if len(req.Settings) > 0 {
		store.Settings = datatypes.JSON(req.Settings)
	}
	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *StoreService) ListStores(ctx context.Context, req *dto.StoreListRequest) (*dto.PageResult[model.Store], error) {
	page, pageSize := model.ClampPage(req.Page, req.PageSize)
	list, total, err := s.storeRepo.List(ctx, repository.StoreFilter{
		Status:   req.Status,
		Keyword:  req.Keyword,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(list, total, page, pageSize), nil
}

// SuspendStore 停用后前台请求一律 403
func (s *StoreService) SuspendStore(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, model.StoreStatusSuspended)
}

func (s *StoreService) ActivateStore(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, model.StoreStatusActive)
}

func (s *StoreService) setStatus(ctx context.Context, id int64, status string) error {
	if _, err := s.GetStore(ctx, id); err != nil {
		return err
	}
	if err := s.storeRepo.UpdateFields(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return err
	}
	logger.Info("[Store] 店铺状态变更", zap.Int64("store_id", id), zap.String("status", status))
	return nil
}
