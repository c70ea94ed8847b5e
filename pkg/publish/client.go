package publish

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/nanohtml/internal/errors"
)

// ClientConfig describes how to reach the object store.
type ClientConfig struct {
	// Region overrides the region from the environment and shared config.
	Region string

	// Profile selects a shared config profile instead of AWS_PROFILE.
	Profile string

	// Endpoint overrides the S3 endpoint, e.g. for MinIO or R2.
	Endpoint string

	// PathStyle addresses buckets as endpoint/bucket instead of
	// bucket.endpoint.
	PathStyle bool
}

// DefaultRegion is used when no region is configured anywhere.
const DefaultRegion = "us-east-1"

// NewClient creates an S3 client from the default AWS credential chain:
// environment variables, shared config and credentials files (AWS_PROFILE,
// SSO), then container and instance roles.
func NewClient(ctx context.Context, cfg ClientConfig) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.New("N063").Wrap(err)
	}
	if awsCfg.Region == "" {
		awsCfg.Region = DefaultRegion
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
