package aliexpress

import (
	"testing"
)

const sampleProductResponse = `{
  "result": {
    "ae_item_base_info_dto": {
      "subject": "  Nordic Table Lamp  ",
      "detail": "<p>warm light</p>",
      "product_id": 1005006123456789,
      "currency_code": "USD",
      "category_id": 39050508
    },
    "ae_multimedia_info_dto": {
      "image_urls": "https://ae01.alicdn.com/a.jpg;https://ae01.alicdn.com/b.jpg;"
    },
    "ae_item_sku_info_dtos": {
      "ae_item_sku_info_d_t_o": [
        {
          "sku_id": "12000036",
          "sku_attr": "14:193#White",
          "offer_sale_price": "19.99",
          "sku_price": "25.00",
          "sku_available_stock": 12,
          "ae_sku_property_dtos": {
            "ae_sku_property_d_t_o": [
              {"sku_property_name": "Color", "sku_property_value": "white", "property_value_definition_name": "White", "sku_image": "https://ae01.alicdn.com/w.jpg"}
            ]
          }
        },
        {
          "sku_id": 12000037,
          "sku_attr": "14:175#Black",
          "offer_sale_price": "",
          "sku_price": "17.50",
          "sku_available_stock": "3",
          "ae_sku_property_dtos": {
            "ae_sku_property_d_t_o": [
              {"sku_property_name": "Color", "sku_property_value": "black"}
            ]
          }
        }
      ]
    },
    "ae_store_info": {"store_name": "Lumi Store"}
  },
  "rsp_code": "200"
}`

func TestParseProduct(t *testing.T) {
	p, err := ParseProduct([]byte(sampleProductResponse))
	if err != nil {
		t.Fatalf("ParseProduct() error = %v", err)
	}

	if p.ProductID != "1005006123456789" {
		t.Errorf("ProductID = %s", p.ProductID)
	}
	if p.Subject != "Nordic Table Lamp" {
		t.Errorf("Subject = %q", p.Subject)
	}
	if len(p.ImageURLs) != 2 {
		t.Errorf("ImageURLs = %v, want 2", p.ImageURLs)
	}
	if len(p.SKUs) != 2 {
		t.Fatalf("SKUs = %d, want 2", len(p.SKUs))
	}

	white := p.SKUs[0]
	if white.Price != 1999 || white.ListPrice != 2500 || white.Stock != 12 {
		t.Errorf("white sku = %+v", white)
	}
	if white.Properties[0].Value != "White" || white.ImageURL == "" {
		t.Errorf("white properties = %+v", white)
	}

	black := p.SKUs[1]
	if black.SKUID != "12000037" || black.Price != 1750 || black.Stock != 3 {
		t.Errorf("black sku = %+v", black)
	}

	if p.MinPrice != 1750 {
		t.Errorf("MinPrice = %d, want 1750", p.MinPrice)
	}
	if p.TotalStock != 15 {
		t.Errorf("TotalStock = %d, want 15", p.TotalStock)
	}
	if p.StoreName != "Lumi Store" {
		t.Errorf("StoreName = %s", p.StoreName)
	}
}

func TestParseProduct_Empty(t *testing.T) {
	if _, err := ParseProduct([]byte(`{"result":{}}`)); err == nil {
		t.Error("ParseProduct() should fail on empty result")
	}
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		in       string
		currency string
		want     int64
	}{
		{"12.34", "EUR", 1234},
		{"0.1", "USD", 10},
		{"19.99", "", 1999},
		{"1500", "JPY", 1500},
		{"2500", "XOF", 2500},
		{"1.5", "KWD", 1500},
		{"", "EUR", 0},
		{"abc", "EUR", 0},
		{"-3", "EUR", 0},
	}
	for _, tt := range tests {
		if got := ToMinorUnits(tt.in, tt.currency); got != tt.want {
			t.Errorf("ToMinorUnits(%q, %q) = %d, want %d", tt.in, tt.currency, got, tt.want)
		}
	}
}

func TestParseProduct_ZeroDecimalCurrency(t *testing.T) {
	raw := []byte(`{"result":{
		"ae_item_base_info_dto":{"subject":"Lampe","product_id":1005001},
		"ae_item_sku_info_dtos":{"ae_item_sku_info_d_t_o":[
			{"sku_id":"1","sku_price":"2400","offer_sale_price":"1800","sku_available_stock":3}
		]}}}`)
	p, err := parseProduct(raw, "JPY")
	if err != nil {
		t.Fatalf("parseProduct() error = %v", err)
	}
	if p.Currency != "JPY" {
		t.Errorf("Currency = %s, want JPY", p.Currency)
	}
	if p.MinPrice != 1800 {
		t.Errorf("MinPrice = %d, want 1800", p.MinPrice)
	}
	if p.SKUs[0].ListPrice != 2400 {
		t.Errorf("ListPrice = %d, want 2400", p.SKUs[0].ListPrice)
	}
}

func TestParseProductURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"item page", "https://www.aliexpress.com/item/1005006123456789.html", "1005006123456789", false},
		{"item page with query", "https://fr.aliexpress.com/item/1005006123456789.html?spm=a2g0o&gatewayAdapt=glo2fra", "1005006123456789", false},
		{"store item path", "https://www.aliexpress.us/item/3256805/1005006123456789.html", "1005006123456789", false},
		{"productId query", "https://m.aliexpress.com/detail?productId=1005006123456789", "1005006123456789", false},
		{"bare id", "1005006123456789", "1005006123456789", false},
		{"other platform", "https://item.taobao.com/item.htm?id=123456789", "", true},
		{"no id", "https://www.aliexpress.com/store/123", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProductURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProductURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseProductURL() = %s, want %s", got, tt.want)
			}
		})
	}
}
