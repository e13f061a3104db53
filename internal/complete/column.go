package complete

import "github.com/rivo/uniseg"

// ColumnOffset converts a cursor column counted in user-perceived
// characters (grapheme clusters) into a byte offset within line. Columns
// past the end clamp to len(line).
func ColumnOffset(line string, col int) int {
	if col <= 0 {
		return 0
	}
	offset := 0
	state := -1
	rest := line
	for n := 0; n < col && len(rest) > 0; n++ {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		offset += len(cluster)
	}
	return offset
}
