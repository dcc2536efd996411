package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/raytris/internal/shape"
)

func TestWriteShapesListsCatalog(t *testing.T) {
	var buf bytes.Buffer
	if err := writeShapes(&buf, nil); err != nil {
		t.Fatalf("writeShapes() failed: %v", err)
	}
	out := buf.String()
	for _, k := range shape.Kinds() {
		if !strings.Contains(out, "  "+k.String()+" ") {
			t.Errorf("listing should contain shape %s:\n%s", k, out)
		}
	}
}

func TestWriteShapesOneKind(t *testing.T) {
	var buf bytes.Buffer
	if err := writeShapes(&buf, []string{"t"}); err != nil {
		t.Fatalf("writeShapes(t) failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Shape T, 10 probes") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "(0,1)") || !strings.Contains(out, "up left right") {
		t.Errorf("top cell of T should list its three probes:\n%s", out)
	}
	if strings.Contains(out, "Available shapes") {
		t.Errorf("a single kind should not print the whole catalog:\n%s", out)
	}
}

func TestWriteShapesUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	err := writeShapes(&buf, []string{"z"})
	if !errors.Is(err, shape.ErrInvalidShape) {
		t.Errorf("writeShapes(z) error = %v, expected ErrInvalidShape", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be printed for an unknown kind, got %q", buf.String())
	}
}
