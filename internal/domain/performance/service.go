package performance

import (
	"context"
	"io"
)

type PerformanceService interface {
	// ImportCSV upserts every valid row and recomputes the efficiencies of the employees it touched.
	ImportCSV(ctx context.Context, file io.Reader) (ImportResult, error)
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordResponse, error)
	// ExportRecords writes an .xlsx workbook of the filtered records to w.
	ExportRecords(ctx context.Context, filter RecordFilter, w io.Writer) error
}
