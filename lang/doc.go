// Package lang implements the Phoenix build-configuration language.
//
// Source text is parsed and evaluated in a single pass: there is no syntax
// tree. Each expression is read into a flat list of operands and operators
// which is then reduced by a fixed sequence of passes. The pass order is the
// precedence table of the language.
//
// # Values
//
// A [Value] is one of [Undefined], [Boolean], [Integer] (32-bit), [String],
// [Template], [*Function], [List] or [Map]. Lists and maps have value
// semantics: every assignment and every read stores or returns a deep copy.
//
// A double-quoted string containing '$' is a [Template]. It is realized
// into a [String] only when stringified, so its references see the values
// current at that time.
//
// # Variables
//
// Variables are written $name and resolved through the scope frames of a
// [Stack], innermost first. Paths walk into maps and lists:
//
//	$target.flags[0]
//	$names[$i]
//	${odd-name}.field
//
// Superglobals are written $$name and are read-only to scripts.
//
// # Statements
//
//	$x = 1;
//	$x += 2;
//	if ($x > 2) { print("big"); } else { print("small"); }
//	while ($x > 0) { $x--; }
//	$f = function { return $a + $b; };
//	print($f(a: 1, b: 2));
//
// # Operators
//
// From tightest to loosest binding:
//
//	! !! ++ --
//	/ * %
//	+ -
//	== != < > <= >=
//	/= *=, then += -=
//	=
//	&& ||
//
// # Errors
//
// Failures are reported as [*Error] values with a [Kind] whose numeric value
// is the process exit status used by the command-line runner.
package lang
