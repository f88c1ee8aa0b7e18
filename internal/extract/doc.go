// Package extract provides implementations of the TextExtractor
// interface for supported document formats, plus the shared page-marker
// parsing they rely on.
//
// Extractors are selected by file extension at upload time.
package extract
