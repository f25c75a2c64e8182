package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type TypeDecls struct {
	Declarations []*Declaration `@@*`
}

// TCase is a variant of a sum type. Without "of Kind" the variant is a
// type declared elsewhere in the package and only gets the marker method.
type TCase struct {
	Name string  `@Ident`
	Kind *string `("of" (@Ident | @String | @RawString))?`
}

type Declaration struct {
	Name  string   `"type" @Ident "="`
	Plain *string  `(  (@Ident | @String | @RawString)`
	Many  *[]TCase ` | ("|" (@@))*)`
	I     struct{} `";"`
}

func (t *TypeDecls) IsSumType(name string) bool {
	for _, decls := range t.Declarations {
		if decls.Name == name && decls.Many != nil {
			return true
		}
	}
	return false
}

func GenerateDecls(pkgname string, t *TypeDecls) string {
	f := NewFile(pkgname)
	f.HeaderComment("Code generated by adtGen. DO NOT EDIT.")

	for _, decl := range t.Declarations {

		if decl.Plain != nil {
			f.Type().Id(decl.Name).Id(*decl.Plain)
		} else if decl.Many != nil {
			f.Type().Id(decl.Name).Interface(
				Id("is_" + decl.Name).Params(),
			)

			for _, it := range *decl.Many {
				switch {
				case it.Kind == nil:
				case t.IsSumType(*it.Kind):
					f.Type().Id(it.Name).Struct(Id(*it.Kind))
				default:
					f.Type().Id(it.Name).Id(*it.Kind)
				}

				f.Func().Params(Id("v").Id(it.Name)).Id("is_" + decl.Name).Params().Block()
			}
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	parser := participle.MustBuild(&TypeDecls{})

	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: adtGen <input.adt> <output.go> <package>")
		os.Exit(2)
	}

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	ast := TypeDecls{}
	err = parser.ParseBytes(inData, &ast)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(pkgname, &ast)), os.ModePerm)
	if err != nil {
		panic(err)
	}
}
