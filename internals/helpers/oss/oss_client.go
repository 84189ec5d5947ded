// internals/helpers/oss/oss_client.go
package helper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"

	"internhub_backend/internals/helpers/apperror"
)

// BlobService stores user uploaded images and returns their public URL.
type BlobService interface {
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) (string, error)
	DeleteByPublicURL(ctx context.Context, publicURL string) error
}

// ReadFormFile reads an uploaded part, refusing anything above MaxAvatarSize.
func ReadFormFile(fh *multipart.FileHeader) ([]byte, error) {
	if fh == nil {
		return nil, apperror.ValidationField("avatar", "is required")
	}
	if fh.Size > MaxAvatarSize {
		return nil, apperror.ValidationField("avatar", "must be at most 5MB")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperror.ValidationField("avatar", "cannot be read")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxAvatarSize+1))
	if err != nil {
		return nil, apperror.ValidationField("avatar", "cannot be read")
	}
	if int64(len(data)) > MaxAvatarSize {
		return nil, apperror.ValidationField("avatar", "must be at most 5MB")
	}
	return data, nil
}

func avatarKey(prefix string, userID uuid.UUID) string {
	key := fmt.Sprintf("avatars/%s/%s.webp", userID, uuid.NewString())
	if prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

/* =======================================================================
   OSS implementation
======================================================================= */

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	PublicBase string // ALI_OSS_PUBLIC_BASE, e.g. a CDN domain
	Prefix     string
	WebP       WebPOptions
}

// NewOSSServiceFromEnv returns (nil, nil) when OSS is not configured.
func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := getEnv("ALI_OSS_ENDPOINT")
	ak := getEnv("ALI_OSS_ACCESS_KEY")
	sk := getEnv("ALI_OSS_SECRET_KEY")
	sts := getEnv("ALI_OSS_SECURITY_TOKEN")
	bucketName := getEnv("ALI_OSS_BUCKET")
	if endpoint == "" && ak == "" && sk == "" && bucketName == "" {
		return nil, nil
	}
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var opts []oss.ClientOption
	if sts != "" {
		opts = append(opts, oss.SecurityToken(sts))
	}
	client, err := oss.New(endpoint, ak, sk, opts...)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	if loc, err := client.GetBucketLocation(bucketName); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 {
			log.Printf("[OSS] warn: skip location check (bucket=%s): %s", bucketName, se.Code)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", bucketName, loc)
	}

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		PublicBase: strings.TrimRight(getEnv("ALI_OSS_PUBLIC_BASE"), "/"),
		Prefix:     strings.Trim(prefix, "/"),
		WebP:       AvatarWebPOptions(),
	}, nil
}

// UploadAvatar re-encodes to webp and stores it under avatars/<user>/.
func (s *OSSService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) (string, error) {
	webpData, err := ConvertToWebP(data, filename, s.WebP)
	if err != nil {
		return "", err
	}
	key := avatarKey(s.Prefix, userID)
	err = s.Bucket.PutObject(key, bytes.NewReader(webpData),
		oss.WithContext(ctx),
		oss.ContentType("image/webp"),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	)
	if err != nil {
		return "", apperror.Remote(fmt.Errorf("oss put %s: %w", key, err), true)
	}
	return s.PublicURL(key), nil
}

// DeleteByPublicURL ignores URLs that do not point into this bucket.
func (s *OSSService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key, ok := s.KeyFromPublicURL(publicURL)
	if !ok {
		return nil
	}
	if err := s.Bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 404 {
			return nil
		}
		return apperror.Remote(fmt.Errorf("oss delete %s: %w", key, err), true)
	}
	return nil
}

func (s *OSSService) baseURL() string {
	if s.PublicBase != "" {
		return s.PublicBase
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s", s.BucketName, end)
}

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL() + "/" + key
}

func (s *OSSService) KeyFromPublicURL(publicURL string) (string, bool) {
	base := s.baseURL() + "/"
	if !strings.HasPrefix(publicURL, base) {
		return "", false
	}
	key := strings.TrimPrefix(publicURL, base)
	return key, key != ""
}

/* =======================================================================
   In-memory implementation (tests, local runs without OSS)
======================================================================= */

type MemoryBlobService struct {
	BaseURL string
	WebP    WebPOptions

	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryBlobService(baseURL string) *MemoryBlobService {
	if baseURL == "" {
		baseURL = "memory://blobs"
	}
	return &MemoryBlobService{
		BaseURL: strings.TrimRight(baseURL, "/"),
		WebP:    AvatarWebPOptions(),
		objects: map[string][]byte{},
	}
}

func (m *MemoryBlobService) UploadAvatar(_ context.Context, userID uuid.UUID, filename string, data []byte) (string, error) {
	webpData, err := ConvertToWebP(data, filename, m.WebP)
	if err != nil {
		return "", err
	}
	key := avatarKey("", userID)
	m.mu.Lock()
	m.objects[key] = webpData
	m.mu.Unlock()
	return m.BaseURL + "/" + key, nil
}

func (m *MemoryBlobService) DeleteByPublicURL(_ context.Context, publicURL string) error {
	key := strings.TrimPrefix(publicURL, m.BaseURL+"/")
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// Object returns the stored bytes for a public URL.
func (m *MemoryBlobService) Object(publicURL string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[strings.TrimPrefix(publicURL, m.BaseURL+"/")]
	return data, ok
}
