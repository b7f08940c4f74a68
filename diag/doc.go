// Package diag records the raw page content of failed sign-in steps so wording or
// markup changes on the remote side can be inspected later.
//
// Recording is a side channel: a [Sink] never blocks the flow that calls it and
// never reports an error back to it. Write failures are logged and counted.
//
// Artifacts are named by [ArtifactName] and written through a [Writer]:
// [StorageWriter] for any afs URL (file://, mem://, s3://, gs://) or [RedisWriter]
// for a shared Redis.
package diag
