// Configuration files are YAML:
//
//	name: gaia-export
//	decompression:
//	  algorithm: gzip      # none, gzip, zstd, lz4, s2, snappy, auto
//	  buffer_size: 65536
//	inference:
//	  identifier_columns: [source_id, solution_id, designation]
//	  non_finite: "null"   # "null" or reject
//	output:
//	  chunk_size: 1000
//	observability:
//	  log_level: error
//	  log_encoding: json
//
// Every key can be overridden from the environment with the GZCSV_ prefix and
// dots replaced by underscores, for example GZCSV_DECOMPRESSION_ALGORITHM=auto
// or GZCSV_INFERENCE_IDENTIFIER_COLUMNS=source_id,ref_epoch.
package config
