// Package ocr provides Optical Character Recognition (OCR) using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2) to extract
// text and word boxes from in-memory images.
//
// # Prerequisites
//
// Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//
// A custom traineddata directory can be selected with Options.TessdataPrefix.
//
// # Languages
//
// Short codes are mapped to Tesseract names:
//   - "en" - eng
//   - "de" - deu
//   - "fr" - fra
//   - "zh" - chi_sim
//   - See Languages for the full list
//
// Tesseract names ("eng", "chi_tra") are accepted as-is.
package ocr
