package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"laboutique_erp_202610/pkg/config"
	"laboutique_erp_202610/pkg/utils"
)

// ErrObjectNotFound 对象不存在
var ErrObjectNotFound = errors.New("对象不存在")

// ==================== 接口定义 ====================

// StorageProvider 存储提供者接口，key 为相对路径
type StorageProvider interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// URL 公开访问地址
	URL(key string) string
	// SignedURL 私有对象的临时地址
	SignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// ==================== 工厂方法 ====================

func NewStorageProvider(cfg config.StorageConfig) (StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Storage(cfg)
	case "local", "":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s", cfg.Provider)
	}
}

// ==================== StorageService ====================

// StorageService 按店铺隔离目录的文件服务
type StorageService struct {
	provider StorageProvider
	http     *resty.Client
}

// NewStorageService 创建存储服务
func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	provider, err := NewStorageProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewStorageServiceWithProvider(provider), nil
}

func NewStorageServiceWithProvider(p StorageProvider) *StorageService {
	return &StorageService{provider: p, http: utils.NewHTTPClient(30 * time.Second)}
}

// ObjectKey folder/<store>/2026/01/02/<uuid>.ext
func ObjectKey(folder string, storeID int64, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%d/%s/%s%s", folder, storeID, time.Now().Format("2006/01/02"), uuid.New().String(), ext)
}

// Upload 上传文件，返回 key 与访问地址
func (s *StorageService) Upload(ctx context.Context, storeID int64, folder, filename string, data []byte, contentType string) (string, string, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("文件为空")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	key := ObjectKey(folder, storeID, filename)
	if err := s.provider.Put(ctx, key, data, contentType); err != nil {
		return "", "", err
	}
	return key, s.provider.URL(key), nil
}

// UploadFromURL 下载远程图片并转存
func (s *StorageService) UploadFromURL(ctx context.Context, storeID int64, folder, sourceURL string) (string, error) {
	data, contentType, err := utils.DownloadImage(ctx, s.http, sourceURL)
	if err != nil {
		return "", err
	}
	_, url, err := s.Upload(ctx, storeID, folder, "image"+utils.ExtForContentType(contentType), data, contentType)
	return url, err
}

// PutObject 以固定 key 写入（发票 PDF 等）
func (s *StorageService) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	return s.provider.Put(ctx, key, data, contentType)
}

func (s *StorageService) GetObject(ctx context.Context, key string) ([]byte, error) {
	return s.provider.Get(ctx, key)
}

func (s *StorageService) Delete(ctx context.Context, key string) error {
	return s.provider.Delete(ctx, key)
}

func (s *StorageService) URL(key string) string {
	return s.provider.URL(key)
}

func (s *StorageService) SignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return s.provider.SignedURL(ctx, key, expires)
}

// SaveBase64 保存 Base64 图片，支持 data URL
func (s *StorageService) SaveBase64(ctx context.Context, storeID int64, folder, base64Data string) (string, error) {
	if idx := strings.Index(base64Data, ","); idx != -1 {
		base64Data = base64Data[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return "", fmt.Errorf("Base64 解码失败: %v", err)
	}
	contentType := http.DetectContentType(data)
	_, url, err := s.Upload(ctx, storeID, folder, "upload"+utils.ExtForContentType(contentType), data, contentType)
	return url, err
}

// ==================== S3 实现（兼容 R2 / MinIO / COS） ====================

type S3Storage struct {
	client    *s3.Client
	bucket    string
	region    string
	publicURL string
}

func NewS3Storage(cfg config.StorageConfig) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("未配置存储桶")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("加载S3配置失败: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

func (s *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("上传S3失败: %v", err)
	}
	return nil
}

func (s *S3Storage) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NoSuchKey") {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("读取S3失败: %v", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Storage) URL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Storage) SignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(s.client)
	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// ==================== 本地存储 ====================

type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(cfg config.StorageConfig) (*LocalStorage, error) {
	dir := cfg.LocalDir
	if dir == "" {
		dir = "./data/uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %v", err)
	}
	baseURL := strings.TrimRight(cfg.PublicURL, "/")
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &LocalStorage{dir: dir, baseURL: baseURL}, nil
}

// Dir 静态文件根目录
func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("非法路径: %s", key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}

func (s *LocalStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("创建目录失败: %v", err)
	}
	return os.WriteFile(full, data, 0o644)
}

func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	return data, err
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return s.baseURL + "/" + strings.TrimPrefix(key, "/")
}

func (s *LocalStorage) SignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return s.URL(key), nil // 本地存储无需签名
}
