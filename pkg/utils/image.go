package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// MaxImageSize 单张图片上限
const MaxImageSize = 15 << 20

// DownloadImage 下载网络图片，返回内容与 Content-Type，读取超过 MaxImageSize 即中止
func DownloadImage(ctx context.Context, client *resty.Client, url string) ([]byte, string, error) {
	resp, err := client.R().SetContext(ctx).SetResponseBodyLimit(MaxImageSize).Get(url)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return nil, "", fmt.Errorf("图片过大: 超过 %d bytes", MaxImageSize)
	}
	if err != nil {
		return nil, "", fmt.Errorf("下载失败: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, "", fmt.Errorf("下载失败: HTTP %d", resp.StatusCode())
	}

	data := resp.Body()
	if len(data) == 0 {
		return nil, "", fmt.Errorf("下载失败: 空文件")
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// ExtForContentType 根据 Content-Type 推断扩展名
func ExtForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "application/pdf":
		return ".pdf"
	default:
		return ".jpg"
	}
}
