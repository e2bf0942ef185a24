// Package gzcsv converts compressed CSV catalog files into JSON documents.
//
// A conversion opens a gzip-compressed (or zstd, lz4, s2, snappy) file,
// decompresses it lazily, skips '#' comment lines, takes the first row as
// the header and emits one JSON object per data row holding only the
// requested columns, in the requested order. Cell text is typed on the fly:
//
//	""                      -> ""      (never null)
//	identifier columns      -> string  (source_id, solution_id, designation)
//	"42", "3.14", "-1e3"    -> number
//	"null", "TRUE", "false" -> null / boolean, any case
//	anything else           -> string
//
// NaN and infinities become null by default, or fail the conversion when
// the inference.non_finite setting is "reject".
//
// # Entry Points
//
// The C shared library (cmd/libgzcsv) exports parse_gzipped_csv,
// parse_gzipped_csv_ex and free_string. Every returned string is owned by
// the caller and must be released exactly once with free_string.
//
// Go programs use internal/pipeline through the gzcsv command (cmd/gzcsv):
//
//	gzcsv convert gaia_source.csv.gz --columns source_id,ra,dec -o out.json
//	gzcsv header gaia_source.csv.gz --sample 100
//	gzcsv compress catalog.csv catalog.csv.gz
//
// # Configuration
//
// Settings come from an optional YAML file and GZCSV_* environment
// variables, for example:
//
//	GZCSV_INFERENCE_NON_FINITE=reject
//	GZCSV_DECOMPRESSION_ALGORITHM=auto
//	GZCSV_OUTPUT_CHUNK_SIZE=5000
//	GZCSV_OBSERVABILITY_LOG_LEVEL=debug
//
// The shared library reads the environment on every call.
//
// # Development
//
//	go test ./...
//	go build -buildmode=c-shared -o libgzcsv.so ./cmd/libgzcsv
//	go build -o bin/gzcsv ./cmd/gzcsv
package gzcsv
