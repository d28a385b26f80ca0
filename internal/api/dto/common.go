package dto

// PageResult 通用分页响应
type PageResult[T any] struct {
	List     []T   `json:"list"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// NewPageResult nil 切片序列化为 []
func NewPageResult[T any](list []T, total int64, page, pageSize int) *PageResult[T] {
	if list == nil {
		list = []T{}
	}
	return &PageResult[T]{List: list, Total: total, Page: page, PageSize: pageSize}
}

// AddressDTO 地址
type AddressDTO struct {
	Line1      string `json:"line1" binding:"required,max=255"`
	Line2      string `json:"line2" binding:"max=255"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=32"`
	Country    string `json:"country" binding:"required,len=2"`
}
