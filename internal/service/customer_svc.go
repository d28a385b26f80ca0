package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
)

// CustomerService 前台顾客账号
type CustomerService struct {
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository, orderRepo repository.OrderRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, orderRepo: orderRepo}
}

// Register 同一店铺内邮箱唯一
func (s *CustomerService) Register(ctx context.Context, storeID int64, req *dto.CustomerRegisterRequest) (*dto.CustomerAuthResponse, error) {
	email := normalizeEmail(req.Email)
	existing, err := s.customerRepo.GetByEmail(ctx, storeID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	customer := &model.Customer{
		StoreID:  storeID,
		Email:    email,
		Password: string(hashed),
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
		IsActive: true,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return s.issue(customer)
}

// Login 顾客登录
func (s *CustomerService) Login(ctx context.Context, storeID int64, req *dto.CustomerLoginRequest) (*dto.CustomerAuthResponse, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, storeID, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrInvalidCredentials
	}
	if !customer.IsActive {
		return nil, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	_ = s.customerRepo.UpdateFields(ctx, customer.ID, map[string]interface{}{"last_login_at": time.Now()})
	return s.issue(customer)
}

// Profile 当前顾客资料
func (s *CustomerService) Profile(ctx context.Context, storeID, customerID int64) (*dto.CustomerInfo, error) {
	customer, err := s.get(ctx, storeID, customerID)
	if err != nil {
		return nil, err
	}
	return toCustomerInfo(customer), nil
}

// UpdateProfile nil 字段不修改
func (s *CustomerService) UpdateProfile(ctx context.Context, storeID, customerID int64, req *dto.UpdateProfileRequest) (*dto.CustomerInfo, error) {
	customer, err := s.get(ctx, storeID, customerID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		customer.Name = strings.TrimSpace(*req.Name)
		fields["name"] = customer.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
		fields["phone"] = customer.Phone
	}
	if req.Address != nil {
		customer.Address = toAddress(*req.Address)
		fields["addr_line1"] = customer.Address.Line1
		fields["addr_line2"] = customer.Address.Line2
		fields["addr_city"] = customer.Address.City
		fields["addr_state"] = customer.Address.State
		fields["addr_postal_code"] = customer.Address.PostalCode
		fields["addr_country"] = customer.Address.Country
	}
	if len(fields) > 0 {
		if err := s.customerRepo.UpdateFields(ctx, customerID, fields); err != nil {
			return nil, err
		}
	}
	return toCustomerInfo(customer), nil
}

// ListMyOrders 顾客自己的订单
func (s *CustomerService) ListMyOrders(ctx context.Context, storeID, customerID int64, page, pageSize int) (*dto.PageResult[model.Order], error) {
	page, pageSize = model.ClampPage(page, pageSize)
	orders, total, err := s.orderRepo.List(ctx, repository.OrderFilter{
		StoreID:    storeID,
		CustomerID: customerID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(orders, total, page, pageSize), nil
}

// ListCustomers 后台顾客列表
func (s *CustomerService) ListCustomers(ctx context.Context, storeID int64, keyword string, page, pageSize int) (*dto.PageResult[*dto.CustomerInfo], error) {
	page, pageSize = model.ClampPage(page, pageSize)
	customers, total, err := s.customerRepo.List(ctx, storeID, keyword, page, pageSize)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.CustomerInfo, len(customers))
	for i := range customers {
		list[i] = toCustomerInfo(&customers[i])
	}
	return dto.NewPageResult(list, total, page, pageSize), nil
}

func (s *CustomerService) get(ctx context.Context, storeID, customerID int64) (*model.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.StoreID != storeID {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

func (s *CustomerService) issue(c *model.Customer) (*dto.CustomerAuthResponse, error) {
	access, refresh, err := middleware.GenerateTokenPair(middleware.Identity{
		UserID:   c.ID,
		Username: c.Email,
		Role:     middleware.RoleCustomer,
		StoreID:  c.StoreID,
		Kind:     middleware.KindCustomer,
	})
	if err != nil {
		return nil, err
	}
	return &dto.CustomerAuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(middleware.GetJWTConfig().AccessTokenTTL),
		Customer:     toCustomerInfo(c),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toAddress(a dto.AddressDTO) model.Address {
	return model.Address{
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.ToUpper(a.Country),
	}
}

func toAddressDTO(a model.Address) dto.AddressDTO {
	return dto.AddressDTO{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func toCustomerInfo(c *model.Customer) *dto.CustomerInfo {
	return &dto.CustomerInfo{
		ID:        c.ID,
		StoreID:   c.StoreID,
		Email:     c.Email,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   toAddressDTO(c.Address),
		CreatedAt: c.CreatedAt,
	}
}
