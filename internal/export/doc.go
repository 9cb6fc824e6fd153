// Package export writes a flattened results table to disk.
//
// CSV is the primary format: UTF-8 with a byte-order mark so spreadsheet
// programs pick up the encoding, a header row, then one row per location.
// JSON, XLSX, SQLite and an aligned text rendering are also available. Every
// format writes fixed columns first and party columns after them.
package export
