package typesys

// The builtin primitive types. They are never fetched from a registry and
// are always in scope for type-name resolution. Integer sits under Number on
// the supertype lattice, so an integer literal is usable wherever a number
// is expected.
var (
	String  = &Simple{Name: "string"}
	Number  = &Simple{Name: "number"}
	Integer = &Simple{Name: "integer", Super: Number}
	Boolean = &Simple{Name: "boolean"}
	Null    = &Simple{Name: "null"}
)

var builtins = map[string]Type{
	"any":     Any,
	"string":  String,
	"number":  Number,
	"integer": Integer,
	"boolean": Boolean,
	"null":    Null,
}

// Builtin returns the builtin type with the given name.
func Builtin(name string) (Type, bool) {
	t, ok := builtins[name]
	return t, ok
}

// IsBuiltin reports whether name is a builtin type name.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}
