package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of a definition stream.
// It needs no circuit table: literals are grouped under the APPLY they
// follow, and boundary bytes alternate between DEFINE and END per id.
//
// Malformed streams still produce a listing; this is a debugging aid, not
// a validator.
func Disassemble(data []byte) string {
	var sb strings.Builder
	open := -1
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case isOperation(b) && isBoundary(b):
			id := operand(b)
			if open == id {
				sb.WriteString(fmt.Sprintf("%04d  END    %d\n", i, id))
				open = -1
			} else {
				sb.WriteString(fmt.Sprintf("%04d  DEFINE %d\n", i, id))
				open = id
			}
			i++
		case isOperation(b):
			offset := i
			target := operand(b)
			i++
			var slots []string
			for i < len(data) && !isOperation(data[i]) {
				slots = append(slots, fmt.Sprintf("%d", literal(data[i])))
				i++
			}
			sb.WriteString(fmt.Sprintf("%04d    APPLY %d  (%s)\n", offset, target, strings.Join(slots, " ")))
		default:
			// A literal with no preceding APPLY; the decoder would reject it.
			sb.WriteString(fmt.Sprintf("%04d  LIT    %d\n", i, literal(b)))
			i++
		}
	}
	return sb.String()
}
