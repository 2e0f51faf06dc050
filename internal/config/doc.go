// Package config loads image-nodes settings from a TOML file and
// IMAGE_NODES_* environment variables.
//
// Example file:
//
//	log_level = "debug"
//
//	[storage]
//	backend = "badger"
//	path    = "/var/lib/image-nodes"
//
//	[ocr]
//	language        = "de"
//	tessdata_prefix = "/usr/share/tessdata"
//
//	[svg]
//	rsvg_convert = "/usr/bin/rsvg-convert"
//
//	[metrics]
//	addr = ":9090"
//
// Environment variables win over the file: IMAGE_NODES_LOG_LEVEL,
// IMAGE_NODES_STORAGE_BACKEND, IMAGE_NODES_STORAGE_PATH,
// IMAGE_NODES_TESSDATA_PREFIX, IMAGE_NODES_OCR_LANGUAGE,
// IMAGE_NODES_RSVG_CONVERT and IMAGE_NODES_METRICS_ADDR.
package config
