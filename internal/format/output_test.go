package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteJSONCompactAndPretty(t *testing.T) {
	v := map[string]any{"data": map[string]string{"id": "map-abc"}}

	var buf bytes.Buffer
	if err := Write(&buf, v, "json", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != `{"data":{"id":"map-abc"}}`+"\n" {
		t.Fatalf("compact output: %q", got)
	}

	buf.Reset()
	if err := Write(&buf, v, "", true); err != nil {
		t.Fatalf("Write pretty: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "\n  \"data\"") || !strings.HasSuffix(got, "\n") {
		t.Fatalf("pretty output: %q", got)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]string{}, "yaml", false); err == nil {
		t.Fatalf("unknown format accepted")
	}
	if buf.Len() != 0 {
		t.Fatalf("unknown format still wrote output: %q", buf.String())
	}
}
