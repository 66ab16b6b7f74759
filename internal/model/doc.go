// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model defines the typed, format-agnostic representation of an
// experiment description: global parameters, task definitions, the step
// graph, and named type definitions.
//
// The raw YAML/JSON document is schema-validated and then decoded into these
// structures exactly once, by the document package. Every later stage
// (semantic validation, completion, type-checking, execution) operates on
// this model and never on untyped maps. Variant-bearing structures (step
// forms, parameter specs, type definitions) are tagged so that consumers can
// match on them exhaustively instead of probing map keys.
package model
