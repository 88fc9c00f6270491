// Package output renders linkdrop-cli results as a table, JSON or YAML.
//
// Slices of structs become one row per element. Struct fields are named
// by their json tag; a table:"wide" tag hides a column unless wide output
// is requested and table:"-" hides it always.
package output
