package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/logger"
)

// InvoiceService 发票：开票、作废、PDF
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	orderRepo   repository.OrderRepository
	storeRepo   repository.StoreRepository
	storage     *StorageService
	now         func() time.Time
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	storeRepo repository.StoreRepository,
	storage *StorageService,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		storeRepo:   storeRepo,
		storage:     storage,
		now:         time.Now,
	}
}

// Generate 幂等：同一订单重复调用返回已有发票
func (s *InvoiceService) Generate(ctx context.Context, storeID, orderID int64) (*model.Invoice, error) {
	order, err := s.orderRepo.GetByID(ctx, storeID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.invoiceRepo.GetByOrderID(ctx, order.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if order.Status == model.OrderStatusCancelled ||
		(order.Status == model.OrderStatusPending && order.PaymentStatus != model.PaymentStatusPaid) {
		return nil, ErrInvoiceNotAllowed
	}

	now := s.now()
	inv := &model.Invoice{
		StoreID:      storeID,
		OrderID:      order.ID,
		Status:       model.InvoiceStatusIssued,
		BillingName:  order.Name,
		BillingEmail: order.Email,
		Subtotal:     order.Subtotal,
		ShippingFee:  order.ShippingFee,
		Tax:          order.Tax,
		Total:        order.Total,
		Currency:     order.Currency,
		IssuedAt:     now,
	}
	if order.PaymentStatus == model.PaymentStatusPaid {
		inv.Status = model.InvoiceStatusPaid
		inv.PaidAt = order.PaidAt
	}

	// 编号冲突（并发开票）时重取序号
	for attempt := 0; attempt < 3; attempt++ {
		count, err := s.invoiceRepo.CountForYear(ctx, storeID, now.Year())
		if err != nil {
			return nil, err
		}
		inv.ID = 0
		inv.InvoiceNumber = fmt.Sprintf("INV-%04d-%06d", now.Year(), count+1+int64(attempt))
		err = s.invoiceRepo.Create(ctx, inv)
		if err == nil {
			logger.Info("[Invoice] 已开票", zap.Int64("order_id", order.ID), zap.String("number", inv.InvoiceNumber))
			return inv, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// 同一订单已被并发开票
		if existing, err := s.invoiceRepo.GetByOrderID(ctx, order.ID); err == nil {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("生成发票编号失败")
}

func (s *InvoiceService) Get(ctx context.Context, storeID, id int64) (*model.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, storeID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvoiceNotFound
	}
	return inv, err
}

func (s *InvoiceService) List(ctx context.Context, storeID int64, req *dto.InvoiceListRequest) (*dto.PageResult[model.Invoice], error) {
	page, pageSize := model.ClampPage(req.Page, req.PageSize)
	list, total, err := s.invoiceRepo.List(ctx, storeID, req.Status, page, pageSize)
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(list, total, page, pageSize), nil
}

// Void 作废，编号保留不复用
func (s *InvoiceService) Void(ctx context.Context, storeID, id int64) (*model.Invoice, error) {
	inv, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == model.InvoiceStatusVoid {
		return inv, nil
	}
	if err := s.invoiceRepo.UpdateFields(ctx, inv.ID, map[string]interface{}{"status": model.InvoiceStatusVoid}); err != nil {
		return nil, err
	}
	inv.Status = model.InvoiceStatusVoid
	return inv, nil
}

func (s *InvoiceService) MarkPaid(ctx context.Context, storeID, id int64) (*model.Invoice, error) {
	inv, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := s.markPaid(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// MarkOrderPaid 订单支付后同步发票，无发票时忽略
func (s *InvoiceService) MarkOrderPaid(ctx context.Context, orderID int64) error {
	inv, err := s.invoiceRepo.GetByOrderID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if inv.Status == model.InvoiceStatusVoid {
		return nil
	}
	return s.markPaid(ctx, inv)
}

func (s *InvoiceService) markPaid(ctx context.Context, inv *model.Invoice) error {
	switch inv.Status {
	case model.InvoiceStatusPaid:
		return nil
	case model.InvoiceStatusVoid:
		return ErrInvoiceVoid
	}
	now := s.now()
	if err := s.invoiceRepo.UpdateFields(ctx, inv.ID, map[string]interface{}{
		"status":  model.InvoiceStatusPaid,
		"paid_at": now,
	}); err != nil {
		return err
	}
	inv.Status = model.InvoiceStatusPaid
	inv.PaidAt = &now
	return nil
}

// ==================== PDF ====================

// RenderPDF 生成发票 PDF
func (s *InvoiceService) RenderPDF(ctx context.Context, storeID, id int64) ([]byte, *model.Invoice, error) {
	inv, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, nil, err
	}
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, nil, err
	}
	order, err := s.orderRepo.GetByID(ctx, storeID, inv.OrderID)
	if err != nil {
		return nil, nil, err
	}
	data, err := RenderInvoicePDF(store, inv, order)
	if err != nil {
		return nil, nil, err
	}
	return data, inv, nil
}

// Download 渲染后归档到对象存储 invoices/<store>/<number>.pdf
// 归档失败不影响下载
func (s *InvoiceService) Download(ctx context.Context, storeID, id int64) ([]byte, string, error) {
	data, inv, err := s.RenderPDF(ctx, storeID, id)
	if err != nil {
		return nil, "", err
	}
	filename := inv.InvoiceNumber + ".pdf"
	if s.storage == nil {
		return data, filename, nil
	}

	key := InvoiceKey(storeID, inv.InvoiceNumber)
	if err := s.storage.PutObject(ctx, key, data, "application/pdf"); err != nil {
		logger.Warn("[Invoice] 归档 PDF 失败", zap.String("key", key), zap.Error(err))
		return data, filename, nil
	}
	if inv.PDFKey != key {
		if err := s.invoiceRepo.UpdateFields(ctx, inv.ID, map[string]interface{}{"pdf_key": key}); err != nil {
			logger.Warn("[Invoice] 更新 PDF 路径失败", zap.Int64("invoice_id", inv.ID), zap.Error(err))
		}
	}
	return data, filename, nil
}

// InvoiceKey 发票在对象存储中的路径
func InvoiceKey(storeID int64, number string) string {
	return fmt.Sprintf("invoices/%d/%s.pdf", storeID, number)
}
