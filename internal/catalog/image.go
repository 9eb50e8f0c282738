package catalog

import "strings"

// decodeImageCell turns the catalog export's image column into raw bytes.
// The export writes a Python bytes literal (b'...' with \xNN escapes); a
// plain cell is taken as-is, and an empty cell yields nil.
func decodeImageCell(cell string) []byte {
	if cell == "" {
		return nil
	}

	if strings.HasPrefix(cell, "b'") && strings.HasSuffix(cell, "'") {
		cell = cell[2 : len(cell)-1]
	} else if strings.HasPrefix(cell, `b"`) && strings.HasSuffix(cell, `"`) {
		cell = cell[2 : len(cell)-1]
	}

	out := make([]byte, 0, len(cell))
	for i := 0; i < len(cell); i++ {
		c := cell[i]
		if c != '\\' || i+1 >= len(cell) {
			out = append(out, c)
			continue
		}

		i++
		switch cell[i] {
		case 'x':
			if i+2 < len(cell) {
				if hi, ok1 := hexVal(cell[i+1]); ok1 {
					if lo, ok2 := hexVal(cell[i+2]); ok2 {
						out = append(out, hi<<4|lo)
						i += 2
						continue
					}
				}
			}
			out = append(out, 'x')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case '\\':
			out = append(out, '\\')
		case '\'':
			out = append(out, '\'')
		case '"':
			out = append(out, '"')
		case '0':
			out = append(out, 0)
		default:
			out = append(out, '\\', cell[i])
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
