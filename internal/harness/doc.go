// Package harness runs verification checks against the compiler facade.
//
// # Check Format
//
// A suite is a directory of YAML files, one check per file, run in file
// name order:
//
//	name: es2015-no-commonjs
//	description: "arrow functions become named function expressions"
//	source: |-
//	  const getMessage = () => "Hello World"
//	options:
//	  presets: [es2015-no-commonjs]
//	expect:
//	  code: |-
//	    var getMessage = function getMessage() {
//	      return "Hello World";
//	    };
//
// The input is source text (source or source_file), a Babel-shaped syntax
// tree (ast or ast_file, plus optional source), or both. Paths are relative
// to the check file.
//
// # Expectations
//
// Exactly one of:
//
//   - code: the output must equal the text byte for byte
//   - error: the call must fail with a message matching the regexp
//   - eval: the output is run in a JavaScript runtime; expr is evaluated
//     afterwards and must produce value
//
// # Registration
//
// register names test plugins (lolizer) and presets (lulz) to add to the
// registry before the check runs. Under the fresh policy a suite gets its
// own registry, so a registration stays visible to later checks of the same
// suite only.
//
// # Determinism
//
// Check IDs are content hashes of suite, name, input and options. Results
// are numbered by a logical clock, so reruns produce identical reports and
// stored results can be compared across runs.
package harness
