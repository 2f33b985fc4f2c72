// Package cli implements the command-line interface for coursecal.
//
// The cli package provides the Cobra-based CLI: a one-shot course search with
// text/JSON/YAML output, the interactive search screen, the GraphQL backend and an
// iCalendar export of a search. It wires the config, search, explorer, storage and
// calendar packages together.
package cli
