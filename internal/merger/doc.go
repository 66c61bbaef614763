// Package merger concatenates CSV shards into a single file.
//
// Sources are URIs resolved through internal/storage: local files,
// directories, globs, gs:// and s3:// objects or prefixes. A merge runs in
// three steps:
//
//  1. every source is checked for existence, so a typo fails the run before
//     anything is downloaded
//  2. headers are read to build the output schema, the union of all columns
//     in first-seen order
//  3. rows are streamed into the output, each mapped onto the union schema
//     with absent columns left empty
//
// Records with more fields than their header are malformed. They are skipped
// and counted when SkipBadLines is set and fail the merge otherwise. Short
// records are padded.
//
// After the merge, the first rows of the timestamp columns are logged parsed,
// as a quick sanity check of the combined data.
package merger
