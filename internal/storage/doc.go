// Package storage provides JSON-based persistence for scraped records.
//
// Each run can save the raw location records it extracted to a snapshot file
// in a data directory, one file per index URL (snapshot_<key>.json). A saved
// snapshot can later be flattened and exported again without fetching any
// page. A data directory starting with ~/ is expanded to the home directory.
package storage
