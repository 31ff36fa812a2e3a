// Package parse interprets a schema node as a validating parser.
//
// [Compile] folds an [ast.Node] into a [Parser] whose Decode and Encode
// methods consume host-native values (nil, bool, string, float64,
// *big.Int, *ast.Symbol, []any, map[string]any / map[any]any) and return a
// [Result]: either a success carrying the freshly constructed value plus
// any warnings, or a failure carrying a nonempty tree of [Error] values
// with precise path context.
//
// Both directions are compiled from a single traversal; they differ only
// at [ast.Transform] nodes, where decode applies the forward mapping and
// encode the reverse. Recursive schemas work through [ast.Lazy] nodes:
// each compilation memoizes the compiled function per Lazy identity, so a
// thunk is forced exactly once per Compile call and re-entrant
// compilation stays safe.
//
// The interpreter itself never panics and never returns a Go error;
// failures are values. [Format] renders a failure tree as indented text,
// honoring Message annotations, and [Is] derives a boolean guard that
// agrees with Decode on accepted inputs while skipping error
// construction.
//
// Decoding is deterministic: union members are tried in declared order,
// struct properties are visited in declared order, and excess keys are
// visited in sorted order, so equal inputs always produce equal results.
package parse
