// Configuration sources are layered:
//
//  1. Default() supplies production defaults.
//  2. A YAML file, if given, overrides them. ${VAR_NAME} references in the
//     file are replaced with environment values before parsing.
//  3. NEBULA_ATOM_* environment variables override both.
//
// # Example file
//
//	name: nightly-import
//	log:
//	  level: debug
//	  encoding: console
//	dump:
//	  codec: avro
//	  compression: zstd
//	  compression_level: better
//	  sort: true
//	tracing:
//	  enabled: ${TRACE_IMPORTS}
//	  sample_rate: 0.25
package config
