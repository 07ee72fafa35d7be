// Package codec turns spreadsheet files into ordered sequences of row
// mappings and back.
//
// The engine treats spreadsheet parsing as a black box: Read yields the
// header columns in file order plus one cell mapping per non-blank data row,
// and Write produces a workbook from the same shape (used by the reverse-sync
// hook). The current implementation is backed by excelize and handles .xlsx
// and .xlsm workbooks.
package codec
