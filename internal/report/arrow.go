package report

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/mtoledo/siteperc/internal/percolation"
)

// curveSchema returns the Arrow schema of an exported sweep curve.
func curveSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "p", Type: arrow.PrimitiveTypes.Float64},
		{Name: "ncc", Type: arrow.PrimitiveTypes.Int64},
		{Name: "smax", Type: arrow.PrimitiveTypes.Int64},
		{Name: "nmax", Type: arrow.PrimitiveTypes.Float64},
	}, nil)
}

// WriteArrow writes the sweep curve to path as an Arrow IPC file holding a
// single record batch, one row per point. The columnar layout loads
// directly into analysis tools without CSV parsing.
func WriteArrow(path string, points []percolation.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create arrow file: %w", err)
	}

	schema := curveSchema()
	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	pCol := builder.Field(0).(*array.Float64Builder)
	nccCol := builder.Field(1).(*array.Int64Builder)
	smaxCol := builder.Field(2).(*array.Int64Builder)
	nmaxCol := builder.Field(3).(*array.Float64Builder)
	for _, pt := range points {
		pCol.Append(pt.P)
		nccCol.Append(int64(pt.Ncc))
		smaxCol.Append(int64(pt.Smax))
		nmaxCol.Append(pt.Nmax)
	}

	rec := builder.NewRecord()
	defer rec.Release()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema))
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create arrow writer: %w", err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		f.Close()
		return fmt.Errorf("failed to write arrow record: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to close arrow writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close arrow file: %w", err)
	}
	return nil
}
