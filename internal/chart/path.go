package chart

import (
	"strconv"
	"strings"
)

// PathPoint is a positioned sample in container pixel space.
type PathPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// pathBuilder assembles SVG path data. Coordinates are written with a
// fixed two-decimal precision so output is deterministic across hosts.
type pathBuilder struct {
	sb strings.Builder
}

func (b *pathBuilder) moveTo(x, y float64) {
	b.cmd('M', x, y)
}

func (b *pathBuilder) lineTo(x, y float64) {
	b.cmd('L', x, y)
}

func (b *pathBuilder) curveTo(c1x, c1y, c2x, c2y, x, y float64) {
	if b.sb.Len() > 0 {
		b.sb.WriteByte(' ')
	}
	b.sb.WriteByte('C')
	b.sb.WriteString(coord(c1x))
	b.sb.WriteByte(' ')
	b.sb.WriteString(coord(c1y))
	b.sb.WriteByte(' ')
	b.sb.WriteString(coord(c2x))
	b.sb.WriteByte(' ')
	b.sb.WriteString(coord(c2y))
	b.sb.WriteByte(' ')
	b.sb.WriteString(coord(x))
	b.sb.WriteByte(' ')
	b.sb.WriteString(coord(y))
}

func (b *pathBuilder) closePath() {
	if b.sb.Len() > 0 {
		b.sb.WriteByte(' ')
	}
	b.sb.WriteByte('Z')
}

func (b *pathBuilder) cmd(op byte, x, y float64) {
	if b.sb.Len() > 0 {
		b.sb.WriteByte(' ')
	}
	b.sb.WriteByte(op)
	b.sb.WriteString(coord(x))
	b.sb.WriteByte(' ')
	b.sb.WriteString(coord(y))
}

func (b *pathBuilder) String() string { return b.sb.String() }

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
