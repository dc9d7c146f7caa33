package shape

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is one absolute path command: M, L, C or Z
type Command struct {
	Op     byte
	Points [][2]float64
}

var commandArity = map[byte]int{'M': 1, 'L': 1, 'C': 3, 'Z': 0}

// ParsePath decodes path data produced by Line and Area
func ParsePath(d string) ([]Command, error) {
	var out []Command
	i := 0
	for i < len(d) {
		op := d[i]
		arity, ok := commandArity[op]
		if !ok {
			return nil, fmt.Errorf("unsupported path command %q at offset %d", op, i)
		}
		j := i + 1
		for j < len(d) {
			if _, isOp := commandArity[d[j]]; isOp {
				break
			}
			j++
		}
		fields := strings.Fields(d[i+1 : j])
		if len(fields) != arity {
			return nil, fmt.Errorf("command %q expects %d points, got %d", op, arity, len(fields))
		}
		cmd := Command{Op: op}
		for _, f := range fields {
			xs, ys, found := strings.Cut(f, ",")
			if !found {
				return nil, fmt.Errorf("malformed point %q", f)
			}
			x, err := strconv.ParseFloat(xs, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed x in %q: %w", f, err)
			}
			y, err := strconv.ParseFloat(ys, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed y in %q: %w", f, err)
			}
			cmd.Points = append(cmd.Points, [2]float64{x, y})
		}
		out = append(out, cmd)
		i = j
	}
	return out, nil
}
