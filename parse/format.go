package parse

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/kr/pretty"

	"go.jacobcolvin.com/schema/ast"
)

// Format renders a failure tree as indented text. A single leaf failure
// renders as its bare message; nested failures draw a tree with path
// fragments as branch labels. A Message annotation is used only where a
// failure is anchored: the expected node of a type failure, a refinement
// whose predicate failed, a transform whose mapping failed, or an alias
// whose aliased type failed at the top level. A Message on an enclosing
// refinement or transform does not replace the rendering of failures
// raised inside its from or to side.
func Format(errs ...Error) string {
	forest := make([]formatTree, 0, len(errs))

	for _, e := range errs {
		forest = append(forest, toTree(e))
	}

	if len(forest) == 1 {
		return drawTree(forest[0])
	}

	lines := make([]string, 0, len(forest))

	for _, t := range forest {
		lines = append(lines, drawTree(t))
	}

	return strings.Join(lines, "\n")
}

type formatTree struct {
	label    string
	children []formatTree
}

func toTree(e Error) formatTree {
	switch v := e.(type) {
	case TypeError:
		return formatTree{label: failureMessage(v.Expected, v.Actual)}

	case RefinementError:
		// A message on the refinement site covers the predicate failure;
		// failures deeper in the chain keep their own (deeper-first wins).
		if v.Kind == RefinementFrom {
			return formatTree{label: "refinement input", children: toForest(v.Errors)}
		}

		return formatTree{label: failureMessage(v.Node, v.Actual)}

	case TransformError:
		switch {
		case v.Kind == TransformTransformation && len(v.Errors) > 0:
			return formatTree{label: "transformation", children: toForest(v.Errors)}
		case v.Kind == TransformTransformation:
			if msg, ok := ast.MessageOf(v.Node); ok {
				return formatTree{label: msg(v.Actual)}
			}

			return formatTree{label: v.Message}
		case v.Kind == TransformTo:
			return formatTree{label: "transform output", children: toForest(v.Errors)}
		default:
			return formatTree{label: "transform input", children: toForest(v.Errors)}
		}

	case KeyError:
		return formatTree{label: fmt.Sprintf("[%s]", v.Key), children: toForest(v.Errors)}

	case IndexError:
		return formatTree{label: fmt.Sprintf("[%d]", v.Index), children: toForest(v.Errors)}

	case MissingError:
		return formatTree{label: "is missing"}

	case UnexpectedError:
		return formatTree{label: "is unexpected"}

	case MemberError:
		return formatTree{label: "union member", children: toForest(v.Errors)}

	case UnionMemberError:
		children := make([]formatTree, 0, len(v.Members))

		for _, m := range v.Members {
			children = append(children, toTree(m))
		}

		return formatTree{label: fmt.Sprintf("%d union member(s) failed", len(v.Members)), children: children}
	}

	return formatTree{label: fmt.Sprintf("unknown failure %T", e)}
}

func toForest(errs []Error) []formatTree {
	out := make([]formatTree, 0, len(errs))

	for _, e := range errs {
		out = append(out, toTree(e))
	}

	return out
}

// failureMessage resolves the message for a failed node: its Message
// annotation wins, then a default built from the node rendering and the
// actual value.
func failureMessage(n ast.Node, actual any) string {
	if msg, ok := ast.MessageOf(n); ok {
		return msg(actual)
	}

	return fmt.Sprintf("Expected %s, actual %s", renderNode(n), FormatValue(actual))
}

// renderNode produces a short human rendering of a node for messages,
// preferring the Identifier annotation.
func renderNode(n ast.Node) string {
	if id, ok := ast.IdentifierOf(n); ok {
		return id
	}

	switch v := n.(type) {
	case *ast.Keyword:
		return v.Kind().String()

	case *ast.Literal:
		return FormatValue(v.Value)

	case *ast.UniqueSymbol:
		return v.Symbol.String()

	case *ast.TemplateLiteral:
		var sb strings.Builder

		sb.WriteString("`" + v.Head)

		for _, span := range v.Spans {
			sb.WriteString("${" + renderNode(span.Type) + "}")
			sb.WriteString(span.Literal)
		}

		sb.WriteString("`")

		return sb.String()

	case *ast.Enums:
		parts := make([]string, 0, len(v.Members))

		for _, m := range v.Members {
			parts = append(parts, FormatValue(m.Value))
		}

		return strings.Join(parts, " | ")

	case *ast.Tuple:
		return "a tuple or array"

	case *ast.TypeLiteral:
		return "an object"

	case *ast.Union:
		parts := make([]string, 0, len(v.Members))

		for _, m := range v.Members {
			parts = append(parts, renderNode(m))
		}

		return strings.Join(parts, " | ")

	case *ast.Refinement:
		return renderNode(v.From)

	case *ast.Transform:
		return renderNode(v.From)

	case *ast.Lazy:
		return renderNode(v.Thunk())

	case *ast.TypeAlias:
		return renderNode(v.Type)
	}

	return n.Kind().String()
}

// FormatValue renders a host value for inclusion in failure messages:
// scalars in their canonical spelling, composites via [pretty.Sprint].
func FormatValue(v any) string {
	switch s := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(s)
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case *big.Int:
		return s.String() + "n"
	case *ast.Symbol:
		return s.String()
	}

	return pretty.Sprint(v)
}

const (
	treeTee    = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

func drawTree(t formatTree) string {
	var sb strings.Builder

	sb.WriteString(t.label)
	drawChildren(&sb, t.children, "")

	return sb.String()
}

func drawChildren(sb *strings.Builder, children []formatTree, prefix string) {
	for i, child := range children {
		connector, continuation := treeTee, treePipe
		if i == len(children)-1 {
			connector, continuation = treeCorner, treeBlank
		}

		sb.WriteString("\n" + prefix + connector + child.label)
		drawChildren(sb, child.children, prefix+continuation)
	}
}
