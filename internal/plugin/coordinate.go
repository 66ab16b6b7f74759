package plugin

import (
	"fmt"
	"strings"
)

// Coordinate locates a task function: a package path, a module within it,
// and a function name. Package may be empty when the coordinate had only
// two components.
type Coordinate struct {
	Package  string
	Module   string
	Function string
}

// ParseCoordinate splits a fully-qualified plugin id from the right on `.`:
// the last component is the function, the second-to-last the module, and
// whatever remains the package.
func ParseCoordinate(plugin string) (Coordinate, error) {
	last := strings.LastIndex(plugin, ".")
	if last < 0 {
		return Coordinate{}, fmt.Errorf("plugin coordinate %q must contain at least one \".\"", plugin)
	}
	function := plugin[last+1:]
	rest := plugin[:last]

	coord := Coordinate{Function: function}
	if i := strings.LastIndex(rest, "."); i >= 0 {
		coord.Package = rest[:i]
		coord.Module = rest[i+1:]
	} else {
		coord.Module = rest
	}
	if coord.Module == "" || coord.Function == "" {
		return Coordinate{}, fmt.Errorf("plugin coordinate %q has empty components", plugin)
	}
	return coord, nil
}

// String renders the coordinate back into its dotted form.
func (c Coordinate) String() string {
	if c.Package == "" {
		return c.Module + "." + c.Function
	}
	return c.Package + "." + c.Module + "." + c.Function
}
