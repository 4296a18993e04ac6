// Package cmd implements the command line entry point of the tool binary.
//
// # Flags
//
// The root command takes exactly one of these mutually exclusive flags:
//
//   - --start prints the start banner with the configured port
//   - --terminal, -t runs the interactive session (see internal/session)
//   - --help-ai, -h asks the AI helper one question and returns
//   - --build prints the build notice
//   - --init-config writes a commented config file
//
// --config loads one explicit config file instead of searching for one.
// Cobra's own help flag is --help only, since -h belongs to --help-ai.
//
// # Exit status
//
// No flags prints the usage and exits 0. A flag error prints the error, the
// usage and exits 1. The terminal session decides its own status, an
// interrupt there is a normal exit. A panic anywhere is logged by Execute,
// which exits 1.
package cmd
