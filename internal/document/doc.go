// Package document loads raw experiment description documents (YAML or
// JSON), validates them against the structural grammar, and decodes them
// into the typed model.
//
// The split into schema validation and decoding is deliberate: schema
// validation accumulates issues over the raw nested mappings so every
// structural problem is reported at once, while decoding runs only on
// schema-valid documents and produces the exhaustively-matchable AST that
// all later passes operate on.
package document
