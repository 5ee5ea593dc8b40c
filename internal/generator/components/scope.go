package components

import (
	"go/build/constraint"
	"strings"

	"github.com/origadmin/structconv/internal/model"
)

// Wrap places body inside the reconstructed scope: the build constraint collected from
// the frames, outermost first, then the package clause, then body with every non-empty
// line prefixed by indent. Go declarations do not nest, so frames contribute no braces.
func Wrap(scope model.Scope, body, indent string) string {
	var b strings.Builder
	if expr := frameConstraint(scope.Frames); expr != nil {
		b.WriteString("//go:build ")
		b.WriteString(expr.String())
		b.WriteString("\n\n")
	}
	b.WriteString("package ")
	b.WriteString(scope.Package)
	b.WriteString("\n\n")

	if indent == "" {
		b.WriteString(body)
		return b.String()
	}
	for _, line := range strings.SplitAfter(body, "\n") {
		if strings.TrimSpace(line) != "" {
			b.WriteString(indent)
		}
		b.WriteString(line)
	}
	return b.String()
}

func frameConstraint(frames []model.Frame) constraint.Expr {
	var expr constraint.Expr
	seen := make(map[string]bool)
	for i := len(frames) - 1; i >= 0; i-- {
		m := frames[i].Modifiers
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		x, err := constraint.Parse("//go:build " + m)
		if err != nil {
			continue
		}
		if expr == nil {
			expr = x
		} else {
			expr = &constraint.AndExpr{X: expr, Y: x}
		}
	}
	return expr
}
