// Package typesys implements the engine's structural type system: nominal
// simple types on a single-inheritance lattice, structured list/tuple/mapping
// types, unions, a distinguished Any sink, the compatibility relation between
// all of them, and inference of types from literal argument values.
//
// Type is a closed sum: every variant is declared here and all relations are
// written as exhaustive switches over the variants, so there is no open-ended
// "anything else" behavior hiding in a class hierarchy.
package typesys
