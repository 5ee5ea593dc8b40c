package components

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/origadmin/structconv/internal/model"
)

// MethodEmitter renders the functions generated for the directives of one owner type.
type MethodEmitter struct {
	reader model.SchemaReader
	types  *TypeFormatter
	frame  model.Frame
}

// NewMethodEmitter creates an emitter for the owner declared by frame.
func NewMethodEmitter(reader model.SchemaReader, formatter *TypeFormatter, frame model.Frame) *MethodEmitter {
	return &MethodEmitter{reader: reader, types: formatter, frame: frame}
}

// OwnerName returns the capitalized owner name used in function names.
func (e *MethodEmitter) OwnerName() string {
	return capitalize(e.frame.Name)
}

// FunctionNames returns the single and batch function names generated for d.
func (e *MethodEmitter) FunctionNames(d *model.ConversionDirective) (single, batch string) {
	tag := CounterpartTag(d.Owner, d.Counterpart)
	owner := e.OwnerName()
	if d.Direction == model.DirectionFrom {
		return "Convert" + owner + "From" + tag, "Convert" + owner + "ListFrom" + tag
	}
	return "ConvertTo" + tag, "Convert" + owner + "ListTo" + tag
}

// Emit renders the single and batch conversion functions of d.
func (e *MethodEmitter) Emit(d *model.ConversionDirective) string {
	synth := NewSynthesizer(e.reader, e.types)
	body := synth.Synthesize(d.Source(), d.Target(), 1, "item", "r", "\t")

	owner := e.types.Format(d.Owner.Type)
	counterpart := e.types.Format(d.Counterpart.Type)
	params, args := e.frame.ParamList(), e.frame.ArgList()
	single, batch := e.FunctionNames(d)

	var b strings.Builder
	if d.Direction == model.DirectionFrom {
		fmt.Fprintf(&b, "// %s converts a %s into a %s.\n", single, counterpart, owner)
		fmt.Fprintf(&b, "func %s%s(item %s) %s {\n%s}\n\n", single, params, counterpart, owner, body)

		fmt.Fprintf(&b, "// %s converts a list of %s into a list of %s.\n", batch, counterpart, owner)
		e.batch(&b, batch+params, counterpart, owner, single+args+"(it)")
	} else {
		fmt.Fprintf(&b, "// %s converts a %s into a %s.\n", single, owner, counterpart)
		fmt.Fprintf(&b, "func (item %s) %s() %s {\n%s}\n\n", owner, single, counterpart, body)

		fmt.Fprintf(&b, "// %s converts a list of %s into a list of %s.\n", batch, owner, counterpart)
		e.batch(&b, batch+params, owner, counterpart, "it."+single+"()")
	}
	return b.String()
}

func (e *MethodEmitter) batch(b *strings.Builder, signature, in, out, call string) {
	fmt.Fprintf(b, "func %s(items []%s) []%s {\n", signature, in, out)
	b.WriteString("\tif items == nil {\n\t\treturn nil\n\t}\n")
	fmt.Fprintf(b, "\tout := make([]%s, 0, len(items))\n", out)
	b.WriteString("\tfor _, it := range items {\n")
	fmt.Fprintf(b, "\t\tout = append(out, %s)\n", call)
	b.WriteString("\t}\n\treturn out\n}\n\n")
}

// CounterpartTag names the counterpart in function names: the capitalized package
// name followed by the type name when it lives in another package, the type name alone
// otherwise.
func CounterpartTag(owner, counterpart *model.TypeSchema) string {
	if counterpart.Named == nil {
		return capitalize(counterpart.Name)
	}
	obj := counterpart.Named.Obj()
	name := capitalize(obj.Name())
	if obj.Pkg() == nil || owner.Named == nil || owner.Named.Obj().Pkg() == obj.Pkg() {
		return name
	}
	return capitalize(obj.Pkg().Name()) + name
}

// capitalize capitalizes the first letter of a string.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	if r := rune(s[0]); unicode.IsUpper(r) {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
