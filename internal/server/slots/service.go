package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/avilovp/mediashuttle/internal/common"
	sc "github.com/avilovp/mediashuttle/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const presignExpiry = 15 * time.Minute

// Grant is a matched pair of presigned URLs for one object.
type Grant struct {
	PutURL string
	GetURL string
}

type Service struct {
	repo   Repository
	config *sc.Config
}

func NewService(repo Repository, config *sc.Config) *Service {
	return &Service{repo: repo, config: config}
}

func randomObjectKey() string {
	d := time.Now()
	return fmt.Sprintf("uploads/%d/%d/%d/%v", d.Year(), int(d.Month()), d.Day(), uuid.New())
}

// startOfDay truncates t to local midnight. The daily quota window
// resets there rather than on a rolling 24h basis.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *Service) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// Issue validates the request against the size ceiling and the user's
// daily quota, presigns a PUT/GET pair and records the slot in the
// ledger. Quota counts bytes of issued slots, not confirmed uploads.
func (s *Service) Issue(ctx context.Context, userID string, filename string, size int64, contentType string) (*Grant, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive", common.ErrUnknown)
	}
	if size > s.config.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", common.ErrExceedsMaxSize, size, s.config.MaxFileSize)
	}

	if s.config.DailyQuota > 0 {
		issued, err := s.repo.IssuedBytesSince(ctx, userID, startOfDay(time.Now()))
		if err != nil {
			return nil, err
		}
		if issued+size > s.config.DailyQuota {
			return nil, fmt.Errorf("%w: %d of %d bytes used today", common.ErrQuotaExceeded, issued, s.config.DailyQuota)
		}
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := randomObjectKey()

	putReq, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, err
	}

	getReq, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, err
	}

	slot := &IssuedSlot{
		ID:          uuid.NewString(),
		UserID:      userID,
		ObjectKey:   key,
		Filename:    filename,
		Size:        size,
		ContentType: contentType,
		IssuedAt:    time.Now(),
	}
	if err := s.repo.Insert(ctx, slot); err != nil {
		return nil, err
	}

	return &Grant{PutURL: putReq.URL, GetURL: getReq.URL}, nil
}
