// Package definition loads named mixins from YAML definition files.
//
// A definition file lists script functions and mixins:
//
//	version: "1"
//	functions:
//	  - name: shout
//	    lang: js
//	    source: "function (next) { return next().toUpperCase(); }"
//	mixins:
//	  - name: base
//	    properties:
//	      tag: div
//	      render: !func render
//	    merge:
//	      className: widget
//	  - name: loud
//	    parents: [base]
//	    around: {render: shout}
//
// Function, hook and prototype names are resolved through a Registry: Go
// values are registered by the caller, script functions are compiled into it
// with CompileFunctions. Validate reports problems as diagnostics; Build
// creates the mixins in dependency order.
package definition
