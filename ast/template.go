package ast

import (
	"regexp"
	"strings"
)

const (
	stringSpanPattern = `.*`
	numberSpanPattern = `-?\d+(\.\d+)?`
)

// Regexp builds the anchored regular expression matching exactly the
// string domain of t: the head, then for each span the span alphabet
// followed by the span literal. String spans match any text, number spans
// match an optionally signed decimal.
func (t *TemplateLiteral) Regexp() *regexp.Regexp {
	var sb strings.Builder

	sb.WriteString("^")
	sb.WriteString(regexp.QuoteMeta(t.Head))

	for _, span := range t.Spans {
		if IsNumberKeyword(refinementBase(span.Type)) {
			sb.WriteString("(" + numberSpanPattern + ")")
		} else {
			sb.WriteString("(" + stringSpanPattern + ")")
		}

		sb.WriteString(regexp.QuoteMeta(span.Literal))
	}

	sb.WriteString("$")

	return regexp.MustCompile(sb.String())
}

// IndexParameterAccepts reports whether an index signature parameter
// accepts the given property key. String-flavored parameters (the string
// keyword and template literals) accept string keys, the symbol keyword
// accepts symbol keys, and refinement predicates along the parameter chain
// must all hold for the key value.
func IndexParameterAccepts(parameter Node, key PropertyKey) bool {
	var predicates []Predicate

	base := parameter

	for {
		r, ok := base.(*Refinement)
		if !ok {
			break
		}

		predicates = append(predicates, r.Predicate)
		base = r.From
	}

	switch {
	case IsStringKeyword(base):
		if key.IsSymbol() {
			return false
		}
	case IsSymbolKeyword(base):
		if !key.IsSymbol() {
			return false
		}
	case IsTemplateLiteral(base):
		if key.IsSymbol() {
			return false
		}

		if !base.(*TemplateLiteral).Regexp().MatchString(key.Name()) {
			return false
		}
	default:
		return false
	}

	// Innermost predicate first.
	for i := len(predicates) - 1; i >= 0; i-- {
		if !predicates[i](key.Value()) {
			return false
		}
	}

	return true
}
