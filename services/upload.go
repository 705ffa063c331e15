package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// File is one uploaded file as received from the client
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores a file and returns the public URL it is served from
type Uploader interface {
	Upload(ctx context.Context, file File) (string, error)
}

// objectPutter is the part of the S3 client the uploader uses
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader puts files into an S3 (or S3-compatible) bucket under
// <prefix>/<yyyy>/<mm>/<uuid><ext>. There is no retry: a failed put is
// returned to the caller as is.
type S3Uploader struct {
	client        objectPutter
	bucket        string
	prefix        string
	region        string
	endpoint      string
	publicBaseURL string
	now           func() time.Time
	logger        zerolog.Logger
}

// NewS3Uploader builds the S3 client from cfg. A non-empty endpoint points
// the client at an S3-compatible store using path-style addressing.
func NewS3Uploader(cfg aws.Config, bucket, prefix, endpoint, publicBaseURL string) *S3Uploader {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Uploader(client, bucket, prefix, cfg.Region, endpoint, publicBaseURL)
}

func newS3Uploader(client objectPutter, bucket, prefix, region, endpoint, publicBaseURL string) *S3Uploader {
	return &S3Uploader{
		client:        client,
		bucket:        bucket,
		prefix:        strings.Trim(prefix, "/"),
		region:        region,
		endpoint:      strings.TrimRight(endpoint, "/"),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
		logger:        log.With().Str("service", "upload").Logger(),
	}
}

func (u *S3Uploader) Upload(ctx context.Context, file File) (string, error) {
	if file.Body == nil {
		return "", fmt.Errorf("upload %q: empty body", file.Filename)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := path.Join(u.prefix, u.now().UTC().Format("2006/01"), uuid.NewString()+ext)

	contentType := file.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			contentType = byExt
		} else {
			contentType = "application/octet-stream"
		}
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        file.Body,
		ContentType: aws.String(contentType),
	}
	if file.Size > 0 {
		input.ContentLength = aws.Int64(file.Size)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	url := u.objectURL(key)
	u.logger.Info().Str("key", key).Str("contentType", contentType).Int64("size", file.Size).Msg("file uploaded")
	return url, nil
}

func (u *S3Uploader) objectURL(key string) string {
	switch {
	case u.publicBaseURL != "":
		return u.publicBaseURL + "/" + key
	case u.endpoint != "":
		return u.endpoint + "/" + u.bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
	}
}
