// Package storage archives validation reports in S3-compatible object storage.
//
// Bucket narrows the minio client to the operations the archive needs on its
// one bucket; tests use mocks.Bucket instead. Archive keeps reports under a
// prefix, creates the bucket on first upload and prunes reports older than
// the retention period.
//
//	archive, err := storage.NewArchiveFromConfig(cfg.Storage, logger)
//	key, err := archive.Put(ctx, batchID+".json", "application/json", data)
//	removed, err := archive.Prune(ctx)
package storage
