package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/apperr"
	"laboutique_erp_202610/pkg/logger"
	"laboutique_erp_202610/pkg/utils"
)

// DefaultBannerPosition 未指定位置时投放首页
const DefaultBannerPosition = "home"

var ErrBannerWindow = apperr.NewValidationError("结束时间必须晚于开始时间")

// PageService 内容页、横幅与邮件订阅
type PageService struct {
	pageRepo repository.PageRepository
	now      func() time.Time
}

func NewPageService(pageRepo repository.PageRepository) *PageService {
	return &PageService{pageRepo: pageRepo, now: time.Now}
}

// ==================== 内容页 ====================

func (s *PageService) CreatePage(ctx context.Context, storeID int64, req *dto.PageRequest) (*model.Page, error) {
	slug, err := s.uniquePageSlug(ctx, storeID, req.Slug, req.Title, 0)
	if err != nil {
		return nil, err
	}
	page := &model.Page{
		StoreID:         storeID,
		Slug:            slug,
		Title:           strings.TrimSpace(req.Title),
		Body:            req.Body,
		Status:          model.PageStatusDraft,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
	}
	if req.Publish {
		page.Status = model.PageStatusPublished
		page.PublishedAt = model.NowPtr()
	}
	if err := s.pageRepo.CreatePage(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// UpdatePage 修改 slug 时检查冲突，不自动追加后缀
func (s *PageService) UpdatePage(ctx context.Context, storeID, id int64, req *dto.PageRequest) (*model.Page, error) {
	page, err := s.GetPage(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if slug := utils.Slugify(req.Slug); slug != "" && slug != page.Slug {
		exists, err := s.pageRepo.PageSlugExists(ctx, storeID, slug, page.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrSlugTaken
		}
		page.Slug = slug
	}
	page.Title = strings.TrimSpace(req.Title)
	page.Body = req.Body
	page.MetaTitle = req.MetaTitle
	page.MetaDescription = req.MetaDescription
	if req.Publish && page.Status != model.PageStatusPublished {
		page.Status = model.PageStatusPublished
		page.PublishedAt = model.NowPtr()
	}
	if err := s.pageRepo.UpdatePage(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *PageService) DeletePage(ctx context.Context, storeID, id int64) error {
	if _, err := s.GetPage(ctx, storeID, id); err != nil {
		return err
	}
	return s.pageRepo.DeletePage(ctx, storeID, id)
}

func (s *PageService) GetPage(ctx context.Context, storeID, id int64) (*model.Page, error) {
	page, err := s.pageRepo.GetPage(ctx, storeID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPageNotFound
	}
	return page, err
}

func (s *PageService) ListPages(ctx context.Context, storeID int64, status string) ([]model.Page, error) {
	return s.pageRepo.ListPages(ctx, storeID, status)
}

// Publish 重复发布保留首次发布时间
func (s *PageService) Publish(ctx context.Context, storeID, id int64) (*model.Page, error) {
	page, err := s.GetPage(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if page.Status == model.PageStatusPublished {
		return page, nil
	}
	page.Status = model.PageStatusPublished
	if page.PublishedAt == nil {
		now := s.now()
		page.PublishedAt = &now
	}
	if err := s.pageRepo.UpdatePage(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *PageService) Unpublish(ctx context.Context, storeID, id int64) (*model.Page, error) {
	page, err := s.GetPage(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if page.Status == model.PageStatusDraft {
		return page, nil
	}
	page.Status = model.PageStatusDraft
	if err := s.pageRepo.UpdatePage(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// PublishedPage 前台按 slug 查看，仅已发布
func (s *PageService) PublishedPage(ctx context.Context, storeID int64, slug string) (*model.Page, error) {
	page, err := s.pageRepo.GetPageBySlug(ctx, storeID, strings.ToLower(strings.TrimSpace(slug)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	if page.Status != model.PageStatusPublished {
		return nil, ErrPageNotFound
	}
	return page, nil
}

func (s *PageService) uniquePageSlug(ctx context.Context, storeID int64, slug, title string, excludeID int64) (string, error) {
	base := utils.Slugify(slug)
	if base == "" {
		base = utils.Slugify(title)
	}
	if base == "" {
		base = "page"
	}
	return utils.UniqueSlug(base, func(candidate string) (bool, error) {
		return s.pageRepo.PageSlugExists(ctx, storeID, candidate, excludeID)
	})
}

// ==================== 横幅 ====================

func (s *PageService) CreateBanner(ctx context.Context, storeID int64, req *dto.BannerRequest) (*model.Banner, error) {
	if err := validateWindow(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}
	banner := &model.Banner{StoreID: storeID}
	applyBanner(banner, req)
	active := banner.IsActive
	if err := s.pageRepo.CreateBanner(ctx, banner); err != nil {
		return nil, err
	}
	// is_active 默认值为 true，创建后再写入 false
	if !active {
		banner.IsActive = false
		if err := s.pageRepo.UpdateBanner(ctx, banner); err != nil {
			return nil, err
		}
	}
	return banner, nil
}

func (s *PageService) UpdateBanner(ctx context.Context, storeID, id int64, req *dto.BannerRequest) (*model.Banner, error) {
	if err := validateWindow(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}
	banner, err := s.GetBanner(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	applyBanner(banner, req)
	if err := s.pageRepo.UpdateBanner(ctx, banner); err != nil {
		return nil, err
	}
	return banner, nil
}

func (s *PageService) DeleteBanner(ctx context.Context, storeID, id int64) error {
	if _, err := s.GetBanner(ctx, storeID, id); err != nil {
		return err
	}
	return s.pageRepo.DeleteBanner(ctx, storeID, id)
}

func (s *PageService) GetBanner(ctx context.Context, storeID, id int64) (*model.Banner, error) {
	banner, err := s.pageRepo.GetBanner(ctx, storeID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBannerNotFound
	}
	return banner, err
}

func (s *PageService) ListBanners(ctx context.Context, storeID int64, position string) ([]model.Banner, error) {
	return s.pageRepo.ListBanners(ctx, storeID, position)
}

// ActiveBanners 启用且处于投放窗口内
func (s *PageService) ActiveBanners(ctx context.Context, storeID int64, position string) ([]model.Banner, error) {
	list, err := s.pageRepo.ListLiveBanners(ctx, storeID, position, s.now())
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Banner{}
	}
	return list, nil
}

func applyBanner(b *model.Banner, req *dto.BannerRequest) {
	b.Title = strings.TrimSpace(req.Title)
	b.ImageURL = strings.TrimSpace(req.ImageURL)
	b.LinkURL = strings.TrimSpace(req.LinkURL)
	b.Position = strings.ToLower(strings.TrimSpace(req.Position))
	if b.Position == "" {
		b.Position = DefaultBannerPosition
	}
	b.SortOrder = req.SortOrder
	b.StartsAt = req.StartsAt
	b.EndsAt = req.EndsAt
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	} else if b.ID == 0 {
		b.IsActive = true
	}
}

func validateWindow(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return ErrBannerWindow
	}
	return nil
}

// ==================== 邮件订阅 ====================

// Subscribe 幂等；已退订的重新订阅
func (s *PageService) Subscribe(ctx context.Context, storeID int64, email string) (*model.NewsletterSubscriber, error) {
	email = normalizeEmail(email)
	sub, err := s.pageRepo.GetSubscriber(ctx, storeID, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = &model.NewsletterSubscriber{StoreID: storeID, Email: email}
	case err != nil:
		return nil, err
	case sub.Status == model.SubscriberStatusSubscribed:
		return sub, nil
	}
	sub.Status = model.SubscriberStatusSubscribed
	if err := s.pageRepo.SaveSubscriber(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发订阅
			return s.pageRepo.GetSubscriber(ctx, storeID, email)
		}
		return nil, err
	}
	logger.Info("[Newsletter] 新订阅", zap.Int64("store_id", storeID), zap.String("email", email))
	return sub, nil
}

// Unsubscribe 幂等；未订阅过的邮箱也返回成功
func (s *PageService) Unsubscribe(ctx context.Context, storeID int64, email string) error {
	sub, err := s.pageRepo.GetSubscriber(ctx, storeID, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if sub.Status == model.SubscriberStatusUnsubscribed {
		return nil
	}
	sub.Status = model.SubscriberStatusUnsubscribed
	return s.pageRepo.SaveSubscriber(ctx, sub)
}

func (s *PageService) ListSubscribers(ctx context.Context, storeID int64, req *dto.SubscriberListRequest) (*dto.PageResult[model.NewsletterSubscriber], error) {
	page, pageSize := model.ClampPage(req.Page, req.PageSize)
	list, total, err := s.pageRepo.ListSubscribers(ctx, storeID, req.Status, page, pageSize)
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(list, total, page, pageSize), nil
}
