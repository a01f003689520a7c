package table

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	attrStage = attribute.Key("gridview.stage")
	attrCount = attribute.Key("gridview.count")
)

// stage runs one pipeline stage inside a span named "gridview.<name>". fn
// returns the number of rows it produced.
func (t *Table[Item]) stage(name string, fn func() (int, error)) error {
	_, span := t.tracer.Start(context.Background(), "gridview."+name,
		trace.WithAttributes(attrStage.String(name)))
	defer span.End()

	n, err := fn()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.logger.Debug("Stage failed.", "stage", name, "error", err)
		return err
	}
	span.SetAttributes(attrCount.Int(n))
	t.logger.Debug("Stage derived.", "stage", name, "count", n)
	return nil
}
