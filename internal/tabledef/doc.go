// Package tabledef loads declarative table definitions from HCL and YAML
// files into one format-agnostic Model.
package tabledef
