// Package source 打开源工作簿：本地文件或 s3://bucket/key（兼容 R2 等 S3 协议存储）
package source

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/xuri/excelize/v2"
)

// S3Config 对象存储配置
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// objectGetter s3.Client 的子集（便于测试替换）
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Opener 工作簿打开器
type Opener struct {
	s3cfg     S3Config
	newClient func(ctx context.Context, cfg S3Config) (objectGetter, error)
}

// NewOpener 创建打开器
func NewOpener(cfg S3Config) *Opener {
	return &Opener{
		s3cfg:     cfg,
		newClient: newS3Client,
	}
}

// IsRemote 是否为 s3:// 地址
func IsRemote(loc string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(loc)), "s3://")
}

// Name 返回用于展示的文件名
func Name(loc string) string {
	if IsRemote(loc) {
		if _, key, err := ParseS3URL(loc); err == nil {
			return path.Base(key)
		}
	}
	return filepath.Base(loc)
}

// Open 打开工作簿，调用方负责 Close
func (o *Opener) Open(ctx context.Context, loc string) (*excelize.File, error) {
	if !IsRemote(loc) {
		f, err := excelize.OpenFile(loc)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook %s: %w", loc, err)
		}
		return f, nil
	}

	bucket, key, err := ParseS3URL(loc)
	if err != nil {
		return nil, err
	}

	client, err := o.newClient(ctx, o.s3cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", loc, err)
	}
	defer out.Body.Close()

	f, err := excelize.OpenReader(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", loc, err)
	}
	return f, nil
}

// ParseS3URL 解析 s3://bucket/key
func ParseS3URL(loc string) (bucket, key string, err error) {
	u, err := url.Parse(strings.TrimSpace(loc))
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 url %q: %w", loc, err)
	}
	if !strings.EqualFold(u.Scheme, "s3") {
		return "", "", fmt.Errorf("invalid s3 url %q: scheme must be s3", loc)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: bucket and key are required", loc)
	}
	return bucket, key, nil
}

func newS3Client(ctx context.Context, cfg S3Config) (objectGetter, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
		if cfg.Endpoint != "" {
			region = "auto"
		}
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
