// Package storage opens CSV inputs by URI.
//
// Three backends are supported, selected by scheme:
//
//	/data/1mayo.csv, ./shards/, data/*.csv   local files, directories and globs
//	gs://bucket/path/object.csv              Google Cloud Storage
//	s3://bucket/path/object.csv              Amazon S3
//
// A URI ending in "/" (or naming a local directory) is a prefix and expands
// to the CSV objects under it. Credentials come from configuration or from
// each SDK's default chain.
//
// # Usage
//
//	router := storage.NewRouter(cfg.Storage, logger)
//	defer router.Close()
//
//	uris, err := router.Expand(ctx, "s3://ieee-dataport/open/54588/")
//	rc, err := router.Open(ctx, uris[0])
//	defer rc.Close()
package storage
