package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nanohtml/internal/config"
	"github.com/vango-dev/nanohtml/pkg/play"
	"github.com/vango-dev/nanohtml/pkg/publish"
)

// newPublishClient creates the object store client. Tests replace it.
var newPublishClient = func(ctx context.Context, cfg config.PublishConfig) (publish.API, error) {
	return publish.NewClient(ctx, publish.ClientConfig{
		Region:    cfg.Region,
		Profile:   cfg.Profile,
		Endpoint:  cfg.Endpoint,
		PathStyle: cfg.PathStyle,
	})
}

func publishCmd(g *globals) *cobra.Command {
	var (
		layout       layoutFlags
		bucket       string
		prefix       string
		cacheControl string
		demo         string
		list         bool
		prune        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "publish [file] [key]",
		Short: "Render a nano document and upload it to S3",
		Long: `Render a nano document and upload the HTML to an S3 bucket.

The key defaults to the file name with an .html extension. Bucket,
prefix, region and endpoint come from the "publish" section of
nanohtml.json; flags override them. Credentials come from the usual
AWS chain: environment, AWS_PROFILE and ~/.aws files, SSO, or the
container or instance role.

Examples:
  nanohtml publish index.json
  nanohtml publish about.yaml about/index.html --bucket my-site
  nanohtml publish --demo bootstrap
  nanohtml publish --list
  nanohtml publish --prune 720h`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			pc := cfg.Publish
			if bucket != "" {
				pc.Bucket = bucket
			}
			if cmd.Flags().Changed("prefix") {
				pc.Prefix = prefix
			}
			if cacheControl != "" {
				pc.CacheControl = cacheControl
			}

			w := cmd.OutOrStdout()
			ctx := cmd.Context()

			client, err := newPublishClient(ctx, pc)
			if err != nil {
				return err
			}
			p, err := publish.NewS3Publisher(client, publish.Options{
				Bucket:       pc.Bucket,
				Prefix:       pc.Prefix,
				CacheControl: pc.CacheControl,
			})
			if err != nil {
				return err
			}

			switch {
			case list:
				pages, err := p.List(ctx)
				if err != nil {
					return err
				}
				for _, pg := range pages {
					fmt.Fprintf(w, "%s\t%d\t%s\n", pg.Key, pg.Size, pg.LastModified.Format(time.RFC3339))
				}
				return nil

			case prune > 0:
				removed, err := p.Prune(ctx, time.Now().Add(-prune))
				if err != nil {
					return err
				}
				for _, key := range removed {
					info(w, "removed %s", key)
				}
				success(w, "Pruned %d page(s)", len(removed))
				return nil
			}

			var (
				doc any
				key string
			)
			if demo != "" {
				d, err := play.Lookup(demo)
				if err != nil {
					return err
				}
				doc, key = d.Data, d.Name+".html"
			} else {
				if len(args) == 0 {
					return fmt.Errorf("publish needs a source file or --demo")
				}
				doc, err = layout.readSource(cmd, args[0])
				if err != nil {
					return err
				}
				key = pageKey(args[0])
			}
			if n := len(args); n == 2 || (demo != "" && n == 1) {
				key = args[n-1]
			}

			t, err := layout.transformer(cmd, cfg)
			if err != nil {
				return err
			}
			markup, err := t.Encode(ctx, doc)
			if err != nil {
				return err
			}

			uri, err := p.Publish(ctx, key, markup)
			if err != nil {
				return err
			}
			success(w, "Published %s", uri)
			return nil
		},
	}

	layout.register(cmd)
	cmd.Flags().StringVar(&bucket, "bucket", "", "Target bucket (default from nanohtml.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix (default from nanohtml.json)")
	cmd.Flags().StringVar(&cacheControl, "cache-control", "", "Cache-Control header for the page")
	cmd.Flags().StringVar(&demo, "demo", "", "Publish a playground demo instead of a file")
	cmd.Flags().BoolVar(&list, "list", false, "List published pages")
	cmd.Flags().DurationVar(&prune, "prune", 0, "Delete pages older than this duration")

	return cmd
}

// pageKey turns a source path into an object key: pages/about.yaml becomes
// about.html.
func pageKey(path string) string {
	if path == "-" {
		return "index.html"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
}
