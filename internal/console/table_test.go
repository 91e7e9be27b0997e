package console

import "testing"

func renderedWidth(widths []int) int {
	t := 1
	for _, w := range widths {
		t += w + 3
	}
	return t
}

func TestFitWidths(t *testing.T) {
	t.Run("already fits", func(t *testing.T) {
		widths := []int{10, 20, 30}
		fitWidths(widths, 200)
		if widths[0] != 10 || widths[1] != 20 || widths[2] != 30 {
			t.Errorf("widths changed despite fitting: %v", widths)
		}
	})

	t.Run("shrinks widest first", func(t *testing.T) {
		widths := []int{10, 60}
		fitWidths(widths, 60)
		if renderedWidth(widths) > 60 {
			t.Errorf("table still overflows: %v renders at %d", widths, renderedWidth(widths))
		}
		if widths[0] != 10 {
			t.Errorf("narrow column was shrunk: %v", widths)
		}
	})

	t.Run("stops at floor", func(t *testing.T) {
		widths := []int{10, 10, 10}
		fitWidths(widths, 20)
		for i, w := range widths {
			if w < minColWidth {
				t.Errorf("column %d shrunk past floor: %d", i, w)
			}
		}
	})

	t.Run("no terminal leaves widths alone", func(t *testing.T) {
		widths := []int{50, 70}
		fitWidths(widths, 0)
		if widths[0] != 50 || widths[1] != 70 {
			t.Errorf("widths changed with no terminal: %v", widths)
		}
	})
}
