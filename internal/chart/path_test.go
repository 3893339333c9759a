package chart

import "testing"

func TestPathBuilderCommands(t *testing.T) {
	t.Parallel()

	var b pathBuilder
	b.moveTo(76, 120.5)
	b.lineTo(150.456, 80)
	b.closePath()

	want := "M76.00 120.50 L150.46 80.00 Z"
	if got := b.String(); got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
}

func TestPathBuilderCubic(t *testing.T) {
	t.Parallel()

	var b pathBuilder
	b.moveTo(0, 0)
	b.curveTo(10, 0, 10, 20, 20, 20)

	want := "M0.00 0.00 C10.00 0.00 10.00 20.00 20.00 20.00"
	if got := b.String(); got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
}
