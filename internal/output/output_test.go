package output

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

func TestWithPrinter_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ctx := WithPrinter(context.Background(), &buf)
		p := FromContext(ctx)
		if p == nil {
			t.Fatal("FromContext returned nil")
		}
		if p.Writer() != &buf {
			t.Error("Writer() should return the buffer passed to WithPrinter")
		}
	})

	t.Run("default to stdout when not set", func(t *testing.T) {
		t.Parallel()
		p := FromContext(context.Background())
		if p == nil {
			t.Fatal("FromContext returned nil on empty context")
		}
		if p.Writer() != os.Stdout {
			t.Error("Writer() should default to os.Stdout")
		}
	})
}

func TestPrinter_Print(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Print("hello", " ", "world")
	if got := buf.String(); got != "hello world" {
		t.Errorf("Print() wrote %q, want %q", got, "hello world")
	}
}

func TestPrinter_Printf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Printf("count: %d", 42)
	if got := buf.String(); got != "count: 42" {
		t.Errorf("Printf() wrote %q, want %q", got, "count: 42")
	}
}

func TestPrinter_Println(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Println("line one")
	p.Println("line two")
	want := "line one\nline two\n"
	if got := buf.String(); got != want {
		t.Errorf("Println() wrote %q, want %q", got, want)
	}
}

func TestPrinter_Writer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithPrinter(context.Background(), &buf)
	p := FromContext(ctx)

	w := p.Writer()
	if w != &buf {
		t.Error("Writer() should return the underlying writer")
	}

	// Write directly through the writer
	if _, err := w.Write([]byte("direct")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := buf.String(); got != "direct" {
		t.Errorf("direct Write produced %q, want %q", got, "direct")
	}
}

func TestPrinter_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := New(&buf)

	if err := p.JSON(map[string]string{"name": "Test15"}); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	want := "{\n  \"name\": \"Test15\"\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("JSON() wrote %q, want %q", got, want)
	}
}

func TestPrinter_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := New(&buf)

	rows := [][]string{{"test15", MutedStyle.Render("placeholder")}, {"test39", "resident"}}
	if err := p.Table([]string{"NAME", "STATE"}, rows); err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	got := buf.String()
	if strings.Contains(got, "\x1b[") {
		t.Errorf("Table() to a non-terminal should not contain escape codes: %q", got)
	}
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Table() wrote %d lines, want 3:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], "NAME") || !strings.Contains(lines[0], "STATE") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "placeholder") {
		t.Errorf("row line = %q, want placeholder text kept", lines[1])
	}
	// Columns are aligned.
	if strings.Index(lines[1], "placeholder") != strings.Index(lines[2], "resident") {
		t.Errorf("columns not aligned:\n%s", got)
	}
}

func TestPrinter_TableEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := New(&buf).Table([]string{"NAME"}, nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty table wrote %q, want nothing", buf.String())
	}
}
