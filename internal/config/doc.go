// Package config provides configuration parsing for nanohtml projects.
//
// The configuration is stored in nanohtml.json at the project root. The file
// is read as JSONC, so comments and trailing commas are allowed. This package
// handles loading, saving and validating it, and turns it into transformer
// options.
//
// # Configuration File Structure
//
//	{
//	  // two spaces instead of a tab
//	  "indent": "  ",
//	  "eol": "\n",
//	  "tags": {
//	    "default": "div",
//	    "shortcuts": { "@": "name" },
//	    "children": { "menu": "li" }
//	  },
//	  "server": {
//	    "address": "localhost:8080",
//	    "metrics": true
//	  },
//	  "publish": {
//	    "bucket": "my-site",
//	    "prefix": "pages/",
//	    "region": "eu-central-1",
//	    "cacheControl": "public, max-age=300"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tr := html.NewTransformer(cfg.TransformerOptions()...)
package config
