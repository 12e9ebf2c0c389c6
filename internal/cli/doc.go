// Package cli implements the cptool command line.
//
// Commands:
//
//	cptool validate --grammar NAME [FILE...]   check inputs, stdin when no files are given
//	cptool gen --grammar NAME [ARGS...]        print a deterministic random input
//	cptool build PROBLEM_FILE                  generate and validate a problem's test cases
//	cptool grammars                            list known grammars
//	cptool show NAME                           print a grammar as a YAML definition
//
// Builtin grammars take their bounds from --max-value and --max-count; more
// grammars are loaded from --grammar-dir. Errors are returned to the caller,
// which turns them into an exit status with ExitCode.
package cli
