package console

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type borderSet struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	cross, tLeft, tRight, tTop, tBottom        string
}

var (
	lineBorders = borderSet{
		topLeft: "┌", topRight: "┐", bottomLeft: "└", bottomRight: "┘",
		horizontal: "─", vertical: "│",
		cross: "┼", tLeft: "├", tRight: "┤", tTop: "┬", tBottom: "┴",
	}
	asciiBorders = borderSet{
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		cross: "+", tLeft: "|", tRight: "|", tTop: "+", tBottom: "+",
	}
)

// PrintTable prints a table with the given headers and data.
// data is a flat list of cells, row-major; its length should be a
// multiple of len(headers). Cells may contain color tags; column widths
// are computed on the stripped text.
func PrintTable(headers []string, data []string, useLineChars bool) {
	cols := len(headers)
	if cols == 0 {
		return
	}

	chars := asciiBorders
	if useLineChars {
		chars = lineBorders
	}

	widths := make([]int, cols)
	for i, h := range headers {
		if l := utf8.RuneCountInString(Strip(h)); l > widths[i] {
			widths[i] = l
		}
	}
	for i, d := range data {
		col := i % cols
		if l := utf8.RuneCountInString(Strip(d)); l > widths[col] {
			widths[col] = l
		}
	}

	// Fit the table to the terminal; cells in shrunk columns are
	// truncated below. Pipes and files get the full width.
	fitWidths(widths, Width(0))

	border := func(left, junction, right string) string {
		var b strings.Builder
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat(chars.horizontal, w+2))
			if i < cols-1 {
				b.WriteString(junction)
			}
		}
		b.WriteString(right)
		return b.String()
	}

	printRow := func(cells []string) {
		var b strings.Builder
		b.WriteString(chars.vertical)
		for i, cell := range cells {
			cell = TruncateTagged(cell, widths[i])
			pad := widths[i] - utf8.RuneCountInString(Strip(cell))
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(" ")
			b.WriteString(chars.vertical)
		}
		fmt.Println(ToANSI(b.String()))
	}

	fmt.Println(border(chars.topLeft, chars.tTop, chars.topRight))
	printRow(headers)
	fmt.Println(border(chars.tLeft, chars.cross, chars.tRight))

	for i := 0; i < len(data); i += cols {
		end := i + cols
		if end > len(data) {
			end = len(data)
		}
		row := data[i:end]
		if len(row) < cols {
			filled := make([]string, cols)
			copy(filled, row)
			row = filled
		}
		printRow(row)
	}

	fmt.Println(border(chars.bottomLeft, chars.tBottom, chars.bottomRight))
}

// minColWidth is the floor below which fitWidths stops shrinking a
// column; past that point an overflowing table beats an unreadable one.
const minColWidth = 8

// fitWidths shrinks the widest column one cell at a time until the
// rendered table fits in available, or every candidate is at the floor.
// available <= 0 leaves the widths alone.
func fitWidths(widths []int, available int) {
	if available <= 0 {
		return
	}
	total := func() int {
		t := 1
		for _, w := range widths {
			t += w + 3
		}
		return t
	}
	for total() > available {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColWidth {
			return
		}
		widths[widest]--
	}
}
