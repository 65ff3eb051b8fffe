package transpiler

import (
	"fmt"
	"strings"

	"github.com/paiml/ruchy-sub011/internal/ast"
)

func (t *Transpiler) funItem(e *ast.FunExpr) (string, error) {
	attrs, err := t.attributes(e.Attributes)
	if err != nil {
		return "", err
	}
	sig, err := t.funSignature(e, false)
	if err != nil {
		return "", err
	}
	body, err := t.blockBody(e.Body)
	if err != nil {
		return "", err
	}
	return attrs + sig + " " + body, nil
}

// funSignature renders `fn name(params) -> ret`. Inside an impl block the
// leading `self` parameter becomes `&mut self`.
func (t *Transpiler) funSignature(e *ast.FunExpr, inImpl bool) (string, error) {
	var b strings.Builder
	if e.Pub {
		b.WriteString("pub ")
	}
	if e.Async {
		b.WriteString("async ")
	}
	b.WriteString("fn ")
	b.WriteString(hygienic(e.Name.Name))
	if len(e.TypeParams) > 0 {
		names := make([]string, len(e.TypeParams))
		for i, tp := range e.TypeParams {
			names[i] = tp.Name
		}
		b.WriteString("<" + strings.Join(names, ", ") + ">")
	}
	b.WriteString("(")
	params := make([]string, 0, len(e.Params))
	for i, p := range e.Params {
		if inImpl && i == 0 && p.Name.Name == "self" {
			params = append(params, "&mut self")
			continue
		}
		s, err := t.param(p)
		if err != nil {
			return "", err
		}
		params = append(params, s)
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(")")
	if e.ReturnType != nil {
		ret, err := t.typeExpr(e.ReturnType)
		if err != nil {
			return "", err
		}
		b.WriteString(" -> " + ret)
	}
	return b.String(), nil
}

// param renders one parameter. Untyped parameters fall back to i64; rest
// parameters collect into a Vec. Defaults have no Rust spelling and are
// dropped.
func (t *Transpiler) param(p *ast.Param) (string, error) {
	ty := "i64"
	if p.Type != nil {
		var err error
		ty, err = t.typeExpr(p.Type)
		if err != nil {
			return "", err
		}
	}
	if p.Rest {
		return fmt.Sprintf("%s: Vec<%s>", hygienic(p.Name.Name), ty), nil
	}
	return fmt.Sprintf("%s: %s", hygienic(p.Name.Name), ty), nil
}

func (t *Transpiler) structFields(fields []*ast.StructField) (string, error) {
	var b strings.Builder
	t.indent++
	for _, f := range fields {
		ty := "i64"
		if f.Type != nil {
			var err error
			ty, err = t.typeExpr(f.Type)
			if err != nil {
				return "", err
			}
		}
		b.WriteString(t.pad())
		if f.Pub {
			b.WriteString("pub ")
		}
		fmt.Fprintf(&b, "%s: %s,\n", hygienic(f.Name.Name), ty)
	}
	t.indent--
	return b.String(), nil
}

func (t *Transpiler) structItem(e *ast.StructDef) (string, error) {
	attrs, err := t.attributes(e.Attributes)
	if err != nil {
		return "", err
	}
	fields, err := t.structFields(e.Fields)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(attrs)
	b.WriteString("#[derive(Debug, Clone)]\n")
	b.WriteString(t.pad())
	if e.Pub {
		b.WriteString("pub ")
	}
	b.WriteString("struct " + e.Name.Name)
	if len(e.TypeParams) > 0 {
		names := make([]string, len(e.TypeParams))
		for i, tp := range e.TypeParams {
			names[i] = tp.Name
		}
		b.WriteString("<" + strings.Join(names, ", ") + ">")
	}
	b.WriteString(" {\n")
	b.WriteString(fields)
	b.WriteString(t.pad())
	b.WriteString("}")
	return b.String(), nil
}

func (t *Transpiler) enumItem(e *ast.EnumDef) (string, error) {
	attrs, err := t.attributes(e.Attributes)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(attrs)
	b.WriteString("#[derive(Debug, Clone)]\n")
	b.WriteString(t.pad())
	if e.Pub {
		b.WriteString("pub ")
	}
	b.WriteString("enum " + e.Name.Name + " {\n")
	t.indent++
	for _, v := range e.Variants {
		b.WriteString(t.pad())
		b.WriteString(v.Name.Name)
		if len(v.Fields) > 0 {
			types := make([]string, len(v.Fields))
			for i, f := range v.Fields {
				types[i], err = t.typeExpr(f)
				if err != nil {
					return "", err
				}
			}
			b.WriteString("(" + strings.Join(types, ", ") + ")")
		}
		b.WriteString(",\n")
	}
	t.indent--
	b.WriteString(t.pad())
	b.WriteString("}")
	return b.String(), nil
}

func (t *Transpiler) traitItem(e *ast.TraitDef) (string, error) {
	var b strings.Builder
	if e.Pub {
		b.WriteString("pub ")
	}
	b.WriteString("trait " + e.Name.Name + " {\n")
	t.indent++
	for _, m := range e.Methods {
		sig, err := t.funSignature(m, true)
		if err != nil {
			return "", err
		}
		b.WriteString(t.pad())
		b.WriteString(sig)
		if m.Body != nil {
			body, err := t.blockBody(m.Body)
			if err != nil {
				return "", err
			}
			b.WriteString(" " + body + "\n")
		} else {
			b.WriteString(";\n")
		}
	}
	t.indent--
	b.WriteString(t.pad())
	b.WriteString("}")
	return b.String(), nil
}

func (t *Transpiler) implItem(e *ast.ImplBlock) (string, error) {
	var b strings.Builder
	if e.Trait != nil {
		fmt.Fprintf(&b, "impl %s for %s {\n", e.Trait.Name, e.Type.Name)
	} else {
		fmt.Fprintf(&b, "impl %s {\n", e.Type.Name)
	}
	t.indent++
	for _, m := range e.Methods {
		f, err := t.implMethod(m)
		if err != nil {
			return "", err
		}
		b.WriteString(t.pad())
		b.WriteString(f)
		b.WriteString("\n")
	}
	t.indent--
	b.WriteString(t.pad())
	b.WriteString("}")
	return b.String(), nil
}

func (t *Transpiler) implMethod(m *ast.FunExpr) (string, error) {
	sig, err := t.funSignature(m, true)
	if err != nil {
		return "", err
	}
	body, err := t.blockBody(m.Body)
	if err != nil {
		return "", err
	}
	return sig + " " + body, nil
}

// classItem lowers a class to a struct plus an inherent impl. A `new` method
// becomes the associated constructor.
func (t *Transpiler) classItem(e *ast.ClassDef) (string, error) {
	fields, err := t.structFields(e.Fields)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("#[derive(Debug, Clone)]\n")
	b.WriteString(t.pad())
	if e.Pub {
		b.WriteString("pub ")
	}
	fmt.Fprintf(&b, "struct %s {\n%s%s}\n\n", e.Name.Name, fields, t.pad())

	b.WriteString(t.pad())
	fmt.Fprintf(&b, "impl %s {\n", e.Name.Name)
	t.indent++
	for _, m := range e.Methods {
		f, err := t.implMethod(m)
		if err != nil {
			return "", err
		}
		b.WriteString(t.pad())
		b.WriteString(f)
		b.WriteString("\n")
	}
	t.indent--
	b.WriteString(t.pad())
	b.WriteString("}")
	return b.String(), nil
}

// actorItem lowers an actor to three pieces: a message enum with one variant
// per handler, a state struct, and an impl whose handle_message dispatches on
// the variant. Delivery is a plain method call, matching the evaluator's
// synchronous semantics.
func (t *Transpiler) actorItem(e *ast.ActorDef) (string, error) {
	msgEnum := e.Name.Name + "Message"
	var b strings.Builder

	b.WriteString("#[derive(Debug, Clone)]\n")
	b.WriteString(t.pad())
	fmt.Fprintf(&b, "enum %s {\n", msgEnum)
	t.indent++
	for _, h := range e.Handlers {
		b.WriteString(t.pad())
		b.WriteString(h.Message.Name)
		if len(h.Params) > 0 {
			types := make([]string, len(h.Params))
			for i, p := range h.Params {
				types[i] = "i64"
				if p.Type != nil {
					var err error
					types[i], err = t.typeExpr(p.Type)
					if err != nil {
						return "", err
					}
				}
			}
			b.WriteString("(" + strings.Join(types, ", ") + ")")
		}
		b.WriteString(",\n")
	}
	t.indent--
	b.WriteString(t.pad())
	b.WriteString("}\n\n")

	fields, err := t.structFields(e.Fields)
	if err != nil {
		return "", err
	}
	b.WriteString(t.pad())
	b.WriteString("#[derive(Debug, Clone)]\n")
	b.WriteString(t.pad())
	fmt.Fprintf(&b, "struct %s {\n%s%s}\n\n", e.Name.Name, fields, t.pad())

	b.WriteString(t.pad())
	fmt.Fprintf(&b, "impl %s {\n", e.Name.Name)
	t.indent++
	b.WriteString(t.pad())
	fmt.Fprintf(&b, "fn handle_message(&mut self, msg: %s) {\n", msgEnum)
	t.indent++
	b.WriteString(t.pad())
	b.WriteString("match msg {\n")
	t.indent++
	for _, h := range e.Handlers {
		b.WriteString(t.pad())
		fmt.Fprintf(&b, "%s::%s", msgEnum, h.Message.Name)
		if len(h.Params) > 0 {
			names := make([]string, len(h.Params))
			for i, p := range h.Params {
				names[i] = hygienic(p.Name.Name)
			}
			b.WriteString("(" + strings.Join(names, ", ") + ")")
		}
		body, err := t.blockBody(h.Body)
		if err != nil {
			return "", err
		}
		b.WriteString(" => " + body + ",\n")
	}
	t.indent--
	b.WriteString(t.pad())
	b.WriteString("}\n")
	t.indent--
	b.WriteString(t.pad())
	b.WriteString("}\n")
	t.indent--
	b.WriteString(t.pad())
	b.WriteString("}")
	return b.String(), nil
}
