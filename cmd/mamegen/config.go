package main

// appName is the single source of truth for the application name, used in
// help text and error hints.
const appName = "mamegen"

// Exit codes. Success falls off the end of main with the default 0; the
// other three separate a failed generation run, a spec that does not parse
// or analyse, and an I/O failure reading the spec or writing the result, so
// a DSL author and a disk-full operator each find a different code in CI
// logs.
const (
	exitGeneration = 1 // row generation failed (e.g. strict null policy tripped)
	exitDSLError   = 2 // the .mgen spec failed to lex, parse, or analyse
	exitIOError    = 3 // reading the spec or writing the output failed
)
