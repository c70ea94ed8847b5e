package publish

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/nanohtml/internal/errors"
)

// ContentType is the content type of published pages.
const ContentType = "text/html; charset=utf-8"

// API is the part of the S3 client the publisher uses. *s3.Client satisfies
// it.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// Options configure an S3Publisher.
type Options struct {
	// Bucket is the target bucket. Required.
	Bucket string

	// Prefix is prepended to every key, e.g. "site/".
	Prefix string

	// CacheControl is sent with every page when set.
	CacheControl string

	Logger *slog.Logger
}

// Page is a published object.
type Page struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// S3Publisher uploads rendered HTML pages to an S3 bucket.
type S3Publisher struct {
	client API
	opts   Options
	logger *slog.Logger
}

// NewS3Publisher creates a publisher writing through client.
func NewS3Publisher(client API, opts Options) (*S3Publisher, error) {
	if opts.Bucket == "" {
		return nil, errors.New("N060").
			WithSuggestion(`Set "publish.bucket" in nanohtml.json or pass --bucket`)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Publisher{
		client: client,
		opts:   opts,
		logger: logger.With("component", "publish"),
	}, nil
}

// Bucket returns the target bucket.
func (p *S3Publisher) Bucket() string { return p.opts.Bucket }

// ObjectKey returns the full key for key, with the prefix applied.
func (p *S3Publisher) ObjectKey(key string) string {
	return p.opts.Prefix + strings.TrimPrefix(key, "/")
}

// Publish uploads markup under key and returns the object URI,
// s3://bucket/prefix+key.
func (p *S3Publisher) Publish(ctx context.Context, key, markup string) (string, error) {
	if strings.TrimPrefix(key, "/") == "" {
		return "", errors.New("N062").
			WithSuggestion("Pass a key such as index.html")
	}
	full := p.ObjectKey(key)

	in := &s3.PutObjectInput{
		Bucket:        aws.String(p.opts.Bucket),
		Key:           aws.String(full),
		Body:          strings.NewReader(markup),
		ContentLength: aws.Int64(int64(len(markup))),
		ContentType:   aws.String(ContentType),
		Metadata: map[string]string{
			"generator":    "nanohtml",
			"publish-time": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if p.opts.CacheControl != "" {
		in.CacheControl = aws.String(p.opts.CacheControl)
	}

	if _, err := p.client.PutObject(ctx, in); err != nil {
		return "", errors.New("N061").
			WithDetail(fmt.Sprintf("Uploading %s to bucket %s failed.", full, p.opts.Bucket)).
			Wrap(err)
	}

	uri := "s3://" + p.opts.Bucket + "/" + full
	p.logger.InfoContext(ctx, "published", "uri", uri, "bytes", len(markup))
	return uri, nil
}

// List returns the pages under the prefix.
func (p *S3Publisher) List(ctx context.Context) ([]Page, error) {
	paginator := s3.NewListObjectsV2Paginator(p.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(p.opts.Bucket),
		Prefix: aws.String(p.opts.Prefix),
	})

	var pages []Page
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.New("N061").
				WithDetail("Listing bucket " + p.opts.Bucket + " failed.").
				Wrap(err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || path.Ext(*obj.Key) != ".html" {
				continue
			}
			pg := Page{Key: *obj.Key, Size: aws.ToInt64(obj.Size)}
			if obj.LastModified != nil {
				pg.LastModified = *obj.LastModified
			}
			pages = append(pages, pg)
		}
	}
	return pages, nil
}

// Remove deletes the page stored under key.
func (p *S3Publisher) Remove(ctx context.Context, key string) error {
	full := p.ObjectKey(key)
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.opts.Bucket),
		Key:    aws.String(full),
	})
	if err != nil {
		return errors.New("N061").
			WithDetail(fmt.Sprintf("Deleting %s from bucket %s failed.", full, p.opts.Bucket)).
			Wrap(err)
	}
	p.logger.InfoContext(ctx, "removed", "key", full)
	return nil
}

// Prune deletes pages last modified before cutoff and returns their keys.
func (p *S3Publisher) Prune(ctx context.Context, cutoff time.Time) ([]string, error) {
	pages, err := p.List(ctx)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, pg := range pages {
		if pg.LastModified.IsZero() || !pg.LastModified.Before(cutoff) {
			continue
		}
		key := strings.TrimPrefix(pg.Key, p.opts.Prefix)
		if err := p.Remove(ctx, key); err != nil {
			return removed, err
		}
		removed = append(removed, pg.Key)
	}
	return removed, nil
}
