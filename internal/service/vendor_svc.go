package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/logger"
	"laboutique_erp_202610/pkg/utils"
)

// DefaultCommissionBps 未指定时平台抽成 10%
const DefaultCommissionBps = 1000

// VendorService 供应商管理
type VendorService struct {
	vendorRepo repository.VendorRepository
}

func NewVendorService(vendorRepo repository.VendorRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo}
}

// Create 新建供应商默认待审核
func (s *VendorService) Create(ctx context.Context, storeID int64, req *dto.VendorRequest) (*model.Vendor, error) {
	base := utils.Slugify(req.Slug)
	if base == "" {
		base = utils.Slugify(req.Name)
	}
	slug, err := utils.UniqueSlug(base, func(candidate string) (bool, error) {
		return s.vendorRepo.SlugExists(ctx, storeID, candidate, 0)
	})
	if err != nil {
		return nil, err
	}

	v := &model.Vendor{
		StoreID:       storeID,
		Name:          strings.TrimSpace(req.Name),
		Slug:          slug,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         req.Phone,
		Description:   req.Description,
		LogoURL:       req.LogoURL,
		Status:        model.VendorStatusPending,
		CommissionBps: DefaultCommissionBps,
	}
	if req.CommissionBps != nil {
		v.CommissionBps = *req.CommissionBps
	}
	if err := s.vendorRepo.Create(ctx, v); err != nil {
		return nil, err
	}
	// commission_bps 为 0 时被 default 覆盖
	if req.CommissionBps != nil && *req.CommissionBps == 0 {
		v.CommissionBps = 0
		if err := s.vendorRepo.Update(ctx, v); err != nil {
			return nil, err
		}
	}
	logger.Info("[Catalog] 供应商已创建", zap.Int64("store_id", storeID), zap.String("slug", slug))
	return v, nil
}

func (s *VendorService) Update(ctx context.Context, storeID, id int64, req *dto.VendorRequest) (*model.Vendor, error) {
	v, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if req.Slug != "" && utils.Slugify(req.Slug) != v.Slug {
		slug := utils.Slugify(req.Slug)
		taken, err := s.vendorRepo.SlugExists(ctx, storeID, slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlugTaken
		}
		v.Slug = slug
	}
	v.Name = strings.TrimSpace(req.Name)
	v.Email = strings.ToLower(strings.TrimSpace(req.Email))
	v.Phone = req.Phone
	v.Description = req.Description
	v.LogoURL = req.LogoURL
	if req.CommissionBps != nil {
		v.CommissionBps = *req.CommissionBps
	}
	if err := s.vendorRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VendorService) Get(ctx context.Context, storeID, id int64) (*model.Vendor, error) {
	v, err := s.vendorRepo.GetByID(ctx, storeID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVendorNotFound
	}
	return v, err
}

func (s *VendorService) GetBySlug(ctx context.Context, storeID int64, slug string) (*model.Vendor, error) {
	v, err := s.vendorRepo.GetBySlug(ctx, storeID, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVendorNotFound
	}
	return v, err
}

func (s *VendorService) List(ctx context.Context, storeID int64, req *dto.VendorListRequest) (*dto.PageResult[model.Vendor], error) {
	page, pageSize := model.ClampPage(req.Page, req.PageSize)
	list, total, err := s.vendorRepo.List(ctx, repository.VendorFilter{
		StoreID:  storeID,
		Status:   req.Status,
		Keyword:  strings.TrimSpace(req.Keyword),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(list, total, page, pageSize), nil
}

func (s *VendorService) Approve(ctx context.Context, storeID, id int64) error {
	return s.setStatus(ctx, storeID, id, model.VendorStatusActive)
}

func (s *VendorService) Suspend(ctx context.Context, storeID, id int64) error {
	return s.setStatus(ctx, storeID, id, model.VendorStatusSuspended)
}

// Delete 仍有商品时拒绝
func (s *VendorService) Delete(ctx context.Context, storeID, id int64) error {
	if _, err := s.Get(ctx, storeID, id); err != nil {
		return err
	}
	count, err := s.vendorRepo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrVendorHasProducts
	}
	return s.vendorRepo.Delete(ctx, storeID, id)
}

// Stats 经营统计，佣金 = 销售额 * 万分比
func (s *VendorService) Stats(ctx context.Context, storeID, id int64) (*model.VendorStats, error) {
	v, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.vendorRepo.Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	stats.Commission = stats.GrossSales * v.CommissionBps / 10000
	return stats, nil
}

func (s *VendorService) setStatus(ctx context.Context, storeID, id int64, status string) error {
	if _, err := s.Get(ctx, storeID, id); err != nil {
		return err
	}
	if err := s.vendorRepo.UpdateStatus(ctx, storeID, id, status); err != nil {
		return err
	}
	logger.Info("[Catalog] 供应商状态变更", zap.Int64("vendor_id", id), zap.String("status", status))
	return nil
}
