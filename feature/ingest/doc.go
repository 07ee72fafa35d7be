// Package ingest turns spreadsheet changes into catalog writes. A
// file event passes the change gate, waits out a debounce window and
// any writer lock, then the sheet is parsed, its columns mapped to
// canonical fields, rows validated, duplicates reported, and each
// product reconciled to a definitive SKU before a single atomic batch
// commit. Reverse sync pushes catalog edits back into the source
// file.
package ingest
