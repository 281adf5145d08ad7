// Package confscan provides a local, CLI-based scanner for confidential
// office documents. It walks a directory tree, classifies word-processing
// and spreadsheet documents by a marker found in their package parts, and
// flags PDF exports of documents already found to be confidential.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, billy/, bloom/).
package confscan
