// Package publish uploads rendered HTML pages to S3-compatible object stores.
//
// Example usage:
//
//	client, err := publish.NewClient(ctx, publish.ClientConfig{Region: "eu-central-1"})
//	if err != nil {
//	    return err
//	}
//	p, err := publish.NewS3Publisher(client, publish.Options{
//	    Bucket:       "my-site",
//	    Prefix:       "pages/",
//	    CacheControl: "public, max-age=300",
//	})
//	if err != nil {
//	    return err
//	}
//	uri, err := p.Publish(ctx, "index.html", markup)
//
// Pages are stored with Content-Type text/html; charset=utf-8. Credentials
// come from the default AWS chain.
package publish
