// Package publish hands assembled artifacts to cloud storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/util"
)

// ErrNotConfigured is returned when publishing is requested without a destination.
var ErrNotConfigured = errors.New("publishing is not configured, set publish.bucket")

// Publisher uploads a local artifact. A failed upload never affects the local file.
type Publisher interface {
	Publish(ctx context.Context, path string) error
}

// Nop discards publish requests.
type Nop struct{}

func (Nop) Publish(context.Context, string) error { return nil }

// Options configures an S3 publisher.
type Options struct {
	Bucket string
	// Folder is the key prefix every artifact is placed under.
	Folder string
	Region string
	// Endpoint targets an S3-compatible store instead of AWS.
	Endpoint string
	// AccessKeyID and SecretAccessKey, when both set, replace the default credential chain.
	AccessKeyID     string
	SecretAccessKey string
}

// S3 uploads artifacts into a folder of a bucket.
type S3 struct {
	Uploader *s3manager.Uploader
	Bucket   string
	Folder   string
}

// NewS3 creates an S3 publisher.
func NewS3(opts Options) (*S3, error) {
	if opts.Bucket == "" {
		return nil, ErrNotConfigured
	}

	cfg := aws.NewConfig().WithRegion(opts.Region)
	if opts.Endpoint != "" {
		cfg = cfg.WithEndpoint(opts.Endpoint).WithS3ForcePathStyle(true)
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(opts.AccessKeyID, opts.SecretAccessKey, ""))
	}

	sess, err := awssession.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return &S3{
		Uploader: s3manager.NewUploader(sess),
		Bucket:   opts.Bucket,
		Folder:   opts.Folder,
	}, nil
}

// Key returns the object key an artifact is stored under.
func (s *S3) Key(localPath string) string {
	return path.Join(s.Folder, filepath.Base(localPath))
}

// Publish uploads the artifact at localPath.
func (s *S3) Publish(ctx context.Context, localPath string) error {
	f, err := filesystem.API().Open(localPath)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer util.Ignore(f.Close)

	out, err := s.Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key(localPath)),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", filepath.Base(localPath), err)
	}

	log.WithFields(log.Fields{"path": localPath, "location": out.Location}).Info("artifact published")
	return nil
}
