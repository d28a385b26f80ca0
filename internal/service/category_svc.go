package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/logger"
	"laboutique_erp_202610/pkg/utils"
)

// CategoryService 分类管理
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// ==================== 增删改查 ====================

func (s *CategoryService) Create(ctx context.Context, storeID int64, req *dto.CategoryRequest) (*model.Category, error) {
	if req.ParentID != nil {
		if _, err := s.Get(ctx, storeID, *req.ParentID); err != nil {
			return nil, err
		}
	}
	slug, err := s.resolveSlug(ctx, storeID, req.Slug, req.Name, 0)
	if err != nil {
		return nil, err
	}

	c := &model.Category{
		StoreID:     storeID,
		ParentID:    req.ParentID,
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	// default:true 的布尔字段创建时无法写入 false
	if req.IsActive != nil && !*req.IsActive {
		c.IsActive = false
		if err := s.categoryRepo.Update(ctx, c); err != nil {
			return nil, err
		}
	}
	logger.Info("[Catalog] 分类已创建", zap.Int64("store_id", storeID), zap.String("slug", slug))
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, storeID, id int64, req *dto.CategoryRequest) (*model.Category, error) {
	c, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil && *req.ParentID > 0 {
		if err := s.checkParent(ctx, storeID, id, *req.ParentID); err != nil {
			return nil, err
		}
		c.ParentID = req.ParentID
	} else {
		c.ParentID = nil
	}

	if req.Slug != "" && utils.Slugify(req.Slug) != c.Slug {
		slug := utils.Slugify(req.Slug)
		taken, err := s.categoryRepo.SlugExists(ctx, storeID, slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlugTaken
		}
		c.Slug = slug
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Description = req.Description
	c.ImageURL = req.ImageURL
	c.SortOrder = req.SortOrder
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete 存在子分类或商品时拒绝
func (s *CategoryService) Delete(ctx context.Context, storeID, id int64) error {
	if _, err := s.Get(ctx, storeID, id); err != nil {
		return err
	}
	children, err := s.categoryRepo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrCategoryHasChildren
	}
	products, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if products > 0 {
		return ErrCategoryHasProducts
	}
	return s.categoryRepo.Delete(ctx, storeID, id)
}

func (s *CategoryService) Get(ctx context.Context, storeID, id int64) (*model.Category, error) {
	c, err := s.categoryRepo.GetByID(ctx, storeID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	return c, err
}

func (s *CategoryService) GetBySlug(ctx context.Context, storeID int64, slug string) (*model.Category, error) {
	c, err := s.categoryRepo.GetBySlug(ctx, storeID, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	return c, err
}

func (s *CategoryService) List(ctx context.Context, storeID int64, activeOnly bool) ([]model.Category, error) {
	return s.categoryRepo.ListByStore(ctx, storeID, activeOnly)
}

// ==================== 树形结构 ====================

// Tree 按 sort_order 组装分类树，附带在售商品数
// 父分类不可见时其子树一并隐藏
func (s *CategoryService) Tree(ctx context.Context, storeID int64, activeOnly bool) ([]*model.CategoryNode, error) {
	list, err := s.categoryRepo.ListByStore(ctx, storeID, activeOnly)
	if err != nil {
		return nil, err
	}
	counts, err := s.categoryRepo.ProductCounts(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(list, counts), nil
}

// BuildCategoryTree 由扁平列表构建树
func BuildCategoryTree(list []model.Category, counts map[int64]int64) []*model.CategoryNode {
	nodes := make(map[int64]*model.CategoryNode, len(list))
	for _, c := range list {
		nodes[c.ID] = &model.CategoryNode{Category: c, ProductCount: counts[c.ID], Children: []*model.CategoryNode{}}
	}

	var roots []*model.CategoryNode
	for _, c := range list {
		node := nodes[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*c.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}
	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*model.CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].Name < nodes[j].Name
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// Descendants 返回分类自身及所有子孙分类 ID
func (s *CategoryService) Descendants(ctx context.Context, storeID, id int64) ([]int64, error) {
	list, err := s.categoryRepo.ListByStore(ctx, storeID, false)
	if err != nil {
		return nil, err
	}
	found := false
	children := make(map[int64][]int64)
	for _, c := range list {
		if c.ID == id {
			found = true
		}
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}
	if !found {
		return nil, ErrCategoryNotFound
	}

	ids := []int64{id}
	seen := map[int64]bool{id: true}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if !seen[child] {
				seen[child] = true
				ids = append(ids, child)
			}
		}
	}
	return ids, nil
}

// ==================== 内部方法 ====================

// checkParent 沿祖先链向上查找，遇到自身即为环
func (s *CategoryService) checkParent(ctx context.Context, storeID, id, parentID int64) error {
	if parentID == id {
		return ErrCategoryCycle
	}
	list, err := s.categoryRepo.ListByStore(ctx, storeID, false)
	if err != nil {
		return err
	}
	parents := make(map[int64]*int64, len(list))
	for _, c := range list {
		parents[c.ID] = c.ParentID
	}
	if _, ok := parents[parentID]; !ok {
		return ErrCategoryNotFound
	}

	cur := parentID
	for steps := 0; steps <= len(list); steps++ {
		p := parents[cur]
		if p == nil {
			return nil
		}
		if *p == id {
			return ErrCategoryCycle
		}
		cur = *p
	}
	return ErrCategoryCycle
}

func (s *CategoryService) resolveSlug(ctx context.Context, storeID int64, slug, name string, excludeID int64) (string, error) {
	base := utils.Slugify(slug)
	if base == "" {
		base = utils.Slugify(name)
	}
	return utils.UniqueSlug(base, func(candidate string) (bool, error) {
		return s.categoryRepo.SlugExists(ctx, storeID, candidate, excludeID)
	})
}
