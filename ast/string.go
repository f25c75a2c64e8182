package ast

import (
	"strconv"
	"strings"
)

// TypeString renders a type the way it is written in source. A missing
// annotation renders as the empty string.
func TypeString(t Type) string {
	if t == nil {
		return ""
	}

	switch v := t.(type) {
	case TInt:
		return v.Name
	case TBool:
		return "bool"
	case TPtr:
		return TypeString(v.Elem) + "*"
	case TTuple:
		var elems []string
		for _, elem := range v {
			elems = append(elems, TypeString(elem))
		}
		return "(" + strings.Join(elems, ", ") + ")"
	case TVector:
		return "[" + TypeString(v.Elem) + "]"
	}

	panic("unhandled")
}

func (v Lit) String() string {
	switch lit := v.Literal.(type) {
	case Integer:
		return strconv.FormatInt(int64(lit), 10)
	case Boolean:
		return strconv.FormatBool(bool(lit))
	}
	return "<nil>"
}

func (f *FnDecl) String() string {
	var params []string
	for _, param := range f.Params {
		if param.Type == nil {
			params = append(params, string(param.Name))
			continue
		}
		params = append(params, string(param.Name)+": "+TypeString(param.Type))
	}
	return "def " + string(f.Name) + "(" + strings.Join(params, ", ") + ")"
}
