// Package grid maps text onto fixed-width character cells.
package grid

import "strings"

// GetGridCoords converts a linear cell index into column and row for a
// grid cols wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Cell is one placed character.
type Cell struct {
	X, Y int
	R    rune
}

// Layout places text into a grid cols wide. Every newline starts a new
// row and lines longer than cols wrap. end is where the next character
// would go, which is where an editor draws its cursor.
func Layout(text string, cols int) (cells []Cell, endX, endY int) {
	if cols <= 0 {
		return nil, 0, 0
	}
	row := 0
	for _, line := range strings.Split(text, "\n") {
		runes := []rune(line)
		for i, r := range runes {
			x, y := GetGridCoords(i, cols)
			cells = append(cells, Cell{X: x, Y: row + y, R: r})
		}
		x, y := GetGridCoords(len(runes), cols)
		endX, endY = x, row+y
		row += y + 1
	}
	return cells, endX, endY
}

// FirstVisibleRow returns the first row to draw so that the last of rows
// stays on a screen visible rows tall.
func FirstVisibleRow(rows, visible int) int {
	if visible <= 0 || rows <= visible {
		return 0
	}
	return rows - visible
}
