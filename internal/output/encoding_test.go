package output

import (
	"bytes"
	"io"
	"testing"
)

func TestTranscodingWriterPassesThroughUTF8(t *testing.T) {
	var buf bytes.Buffer
	w, err := TranscodingWriter(&buf, "utf-8")
	if err != nil {
		t.Fatalf("TranscodingWriter() error = %v", err)
	}
	if w != io.Writer(&buf) {
		t.Fatal("expected utf-8 to return the writer unchanged")
	}
}

func TestTranscodingWriterEmptyNamePassesThrough(t *testing.T) {
	var buf bytes.Buffer
	w, err := TranscodingWriter(&buf, "")
	if err != nil {
		t.Fatalf("TranscodingWriter() error = %v", err)
	}
	if w != io.Writer(&buf) {
		t.Fatal("expected empty encoding name to return the writer unchanged")
	}
}

func TestTranscodingWriterUnknownEncodingErrors(t *testing.T) {
	var buf bytes.Buffer
	if _, err := TranscodingWriter(&buf, "not-a-real-encoding"); err == nil {
		t.Fatal("expected an error for an unknown encoding name")
	}
}

func TestTranscodingWriterKnownNonUTF8Encoding(t *testing.T) {
	var buf bytes.Buffer
	w, err := TranscodingWriter(&buf, "shift_jis")
	if err != nil {
		t.Fatalf("TranscodingWriter() error = %v", err)
	}
	if _, err := io.WriteString(w, "hello"); err != nil {
		t.Fatalf("write through transcoding writer failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected transcoded bytes to be written")
	}
}
