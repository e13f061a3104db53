package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func readRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []SpanRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		out = append(out, rec)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestNewFileExporter_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "traces.jsonl")

	exporter, err := NewFileExporter(path)
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestFileExporter_WritesOneLinePerSpan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	traceID := trace.TraceID{1, 2, 3}
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stubs := tracetest.SpanStubs{
		{
			Name: "glossary.load",
			SpanContext: trace.NewSpanContext(trace.SpanContextConfig{
				TraceID: traceID, SpanID: trace.SpanID{1},
			}),
			SpanKind:   trace.SpanKindInternal,
			StartTime:  start,
			EndTime:    start.Add(1500 * time.Microsecond),
			Attributes: []attribute.KeyValue{attribute.Int(AttrGlossaryItems, 3)},
			Status:     sdktrace.Status{Code: codes.Ok},
		},
		{
			Name: "query.resolve",
			SpanContext: trace.NewSpanContext(trace.SpanContextConfig{
				TraceID: traceID, SpanID: trace.SpanID{2},
			}),
			Parent: trace.NewSpanContext(trace.SpanContextConfig{
				TraceID: traceID, SpanID: trace.SpanID{1},
			}),
			SpanKind:  trace.SpanKindServer,
			StartTime: start,
			EndTime:   start,
			Status:    sdktrace.Status{Code: codes.Error, Description: "unknown acronym"},
			Events: []sdktrace.Event{{
				Name:       "miss",
				Time:       start,
				Attributes: []attribute.KeyValue{attribute.String(AttrAcronymID, "nope")},
			}},
		},
	}

	require.NoError(t, exporter.ExportSpans(context.Background(), stubs.Snapshots()))
	require.NoError(t, exporter.Shutdown(context.Background()))

	recs := readRecords(t, path)
	require.Len(t, recs, 2)

	require.Equal(t, "glossary.load", recs[0].Name)
	require.Equal(t, "OK", recs[0].Status)
	require.Equal(t, 1.5, recs[0].DurationMs)
	require.EqualValues(t, 3, recs[0].Attributes[AttrGlossaryItems])
	require.Empty(t, recs[0].ParentSpanID)

	require.Equal(t, "ERROR", recs[1].Status)
	require.Equal(t, "unknown acronym", recs[1].StatusMsg)
	require.Equal(t, "server", recs[1].Kind)
	require.Equal(t, recs[0].SpanID, recs[1].ParentSpanID)
	require.Len(t, recs[1].Events, 1)
	require.Equal(t, "nope", recs[1].Events[0].Attributes[AttrAcronymID])
}

func TestFileExporter_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")

	for i := 0; i < 2; i++ {
		exporter, err := NewFileExporter(path)
		require.NoError(t, err)
		stub := tracetest.SpanStub{Name: "render", StartTime: time.Now(), EndTime: time.Now()}
		require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
		require.NoError(t, exporter.Shutdown(context.Background()))
	}

	require.Len(t, readRecords(t, path), 2)
}

func TestFileExporter_ExportAfterShutdown(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()))

	stub := tracetest.SpanStub{Name: "late"}
	require.Error(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
}
