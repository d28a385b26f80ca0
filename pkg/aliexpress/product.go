package aliexpress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"laboutique_erp_202610/pkg/utils"
)

const MethodProductGet = "aliexpress.ds.product.get"

// Product 归一化后的商品
type Product struct {
	ProductID   string
	Subject     string
	Detail      string
	Currency    string
	CategoryID  string
	StoreName   string
	ImageURLs   []string
	SKUs        []SKU
	MinPrice    int64 // 最小货币单位
	TotalStock  int
	OriginalURL string
}

// SKU 商品规格
type SKU struct {
	SKUID      string
	SKUAttr    string
	Price      int64 // 促销价，最小货币单位
	ListPrice  int64
	Stock      int
	ImageURL   string
	Properties []SKUProperty
}

// SKUProperty 规格属性
type SKUProperty struct {
	Name  string
	Value string
}

// ProductOptions 查询参数
type ProductOptions struct {
	ShipToCountry  string
	TargetCurrency string
	TargetLanguage string
}

type productGetResponse struct {
	Result struct {
		BaseInfo struct {
			Subject      string     `json:"subject"`
			Detail       string     `json:"detail"`
			ProductID    flexString `json:"product_id"`
			CurrencyCode string     `json:"currency_code"`
			CategoryID   flexString `json:"category_id"`
		} `json:"ae_item_base_info_dto"`
		Multimedia struct {
			ImageURLs string `json:"image_urls"`
		} `json:"ae_multimedia_info_dto"`
		SKUInfos struct {
			Items []struct {
				SKUID          flexString `json:"sku_id"`
				SKUAttr        string     `json:"sku_attr"`
				OfferSalePrice flexString `json:"offer_sale_price"`
				SKUPrice       flexString `json:"sku_price"`
				Stock          flexString `json:"sku_available_stock"`
				CurrencyCode   string     `json:"currency_code"`
				Properties     struct {
					Items []struct {
						Name           string `json:"sku_property_name"`
						Value          string `json:"sku_property_value"`
						DefinitionName string `json:"property_value_definition_name"`
						Image          string `json:"sku_image"`
					} `json:"ae_sku_property_d_t_o"`
				} `json:"ae_sku_property_dtos"`
			} `json:"ae_item_sku_info_d_t_o"`
		} `json:"ae_item_sku_info_dtos"`
		StoreInfo struct {
			StoreName string `json:"store_name"`
		} `json:"ae_store_info"`
	} `json:"result"`
}

// GetProduct 拉取商品详情
func (s *Session) GetProduct(ctx context.Context, productID string, opts ProductOptions) (*Product, error) {
	params := map[string]string{
		"product_id":      productID,
		"ship_to_country": defaultStr(opts.ShipToCountry, "US"),
		"target_currency": defaultStr(opts.TargetCurrency, "USD"),
		"target_language": defaultStr(opts.TargetLanguage, "EN"),
	}
	raw, err := s.Call(ctx, MethodProductGet, params)
	if err != nil {
		return nil, err
	}
	p, err := parseProduct(raw, params["target_currency"])
	if err != nil {
		return nil, err
	}
	if p.ProductID == "" {
		p.ProductID = productID
	}
	return p, nil
}

// ParseProduct 解析 aliexpress.ds.product.get 的 response 节点
func ParseProduct(raw []byte) (*Product, error) {
	return parseProduct(raw, "")
}

// parseProduct 响应未带币种时使用 fallbackCurrency 换算价格
func parseProduct(raw []byte, fallbackCurrency string) (*Product, error) {
	var resp productGetResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("解析商品数据失败: %w", err)
	}
	r := resp.Result
	if r.BaseInfo.Subject == "" && len(r.SKUInfos.Items) == 0 {
		return nil, &APIError{Code: "EmptyProduct", Message: "商品数据为空"}
	}

	p := &Product{
		ProductID:  r.BaseInfo.ProductID.String(),
		Subject:    strings.TrimSpace(r.BaseInfo.Subject),
		Detail:     r.BaseInfo.Detail,
		Currency:   r.BaseInfo.CurrencyCode,
		CategoryID: r.BaseInfo.CategoryID.String(),
		StoreName:  r.StoreInfo.StoreName,
		ImageURLs:  splitImages(r.Multimedia.ImageURLs),
	}
	if p.ProductID != "" {
		p.OriginalURL = "https://www.aliexpress.com/item/" + p.ProductID + ".html"
	}

	for _, it := range r.SKUInfos.Items {
		if p.Currency == "" {
			p.Currency = it.CurrencyCode
		}
		if p.Currency == "" {
			p.Currency = fallbackCurrency
		}
		sku := SKU{
			SKUID:     it.SKUID.String(),
			SKUAttr:   it.SKUAttr,
			ListPrice: ToMinorUnits(it.SKUPrice.String(), p.Currency),
			Price:     ToMinorUnits(it.OfferSalePrice.String(), p.Currency),
		}
		if sku.Price == 0 {
			sku.Price = sku.ListPrice
		}
		sku.Stock, _ = strconv.Atoi(it.Stock.String())
		for _, prop := range it.Properties.Items {
			value := prop.DefinitionName
			if value == "" {
				value = prop.Value
			}
			sku.Properties = append(sku.Properties, SKUProperty{Name: prop.Name, Value: value})
			if sku.ImageURL == "" && prop.Image != "" {
				sku.ImageURL = prop.Image
			}
		}
		p.SKUs = append(p.SKUs, sku)
		p.TotalStock += sku.Stock
		if sku.Price > 0 && (p.MinPrice == 0 || sku.Price < p.MinPrice) {
			p.MinPrice = sku.Price
		}
	}
	if p.Currency == "" {
		p.Currency = fallbackCurrency
	}
	return p, nil
}

// ToMinorUnits 按币种小数位换算，"12.34" EUR -> 1234，"1500" JPY -> 1500
func ToMinorUnits(s, currency string) int64 {
	return utils.ParseMinorUnits(s, currency)
}

func splitImages(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ==================== 链接解析 ====================

var (
	itemPathRe = regexp.MustCompile(`/item/(?:[^/]+/)?(\d+)\.html`)
	bareIDRe   = regexp.MustCompile(`^\d{6,20}$`)
)

// ParseProductURL 从商品链接或纯数字中提取商品 ID
// 支持 /item/<id>.html、?productId=<id>、纯数字
func ParseProductURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("链接为空")
	}
	if bareIDRe.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("无效的链接: %w", err)
	}
	host := strings.ToLower(u.Hostname())
	if !strings.Contains(host, "aliexpress.") {
		return "", fmt.Errorf("不是 AliExpress 链接: %s", host)
	}
	if m := itemPathRe.FindStringSubmatch(u.Path); len(m) == 2 {
		return m[1], nil
	}
	for _, key := range []string{"productId", "product_id", "itemId"} {
		if id := u.Query().Get(key); bareIDRe.MatchString(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("无法从链接中解析商品ID: %s", raw)
}
