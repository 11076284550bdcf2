package parser

import "fmt"

type Category int

const (
	CategoryClass Category = iota
	CategoryField
	CategoryMethod
	CategoryParameter
	CategoryLocalVariable
	CategoryLocalObjectVariable
)

var categoryNames = map[Category]string{
	CategoryClass:               "Class",
	CategoryField:               "Field",
	CategoryMethod:              "Method",
	CategoryParameter:           "Parameter",
	CategoryLocalVariable:       "LocalVariable",
	CategoryLocalObjectVariable: "LocalObjectVariable",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Symbol records one declaration. The table is an append-only log: redeclared
// names produce separate entries.
type Symbol struct {
	Name     string
	Type     string
	Category Category
	Context  string
	Pos      Position
	// Class and Method name the enclosing scope; Method is empty outside
	// method bodies and signatures.
	Class  string
	Method string
}

// scope names the innermost class and method around a production. It is
// passed down by value, so leaving a production restores the outer scope.
type scope struct {
	className  string
	methodName string
}

func (s scope) inClass(name string) scope {
	s.className = name
	s.methodName = ""
	return s
}

func (s scope) inMethod(name string) scope {
	s.methodName = name
	return s
}

func (s scope) describe(c Category) string {
	switch c {
	case CategoryClass:
		return "class definition"
	case CategoryField:
		return fmt.Sprintf("field of class '%s'", s.className)
	case CategoryMethod:
		return fmt.Sprintf("method of class '%s'", s.className)
	case CategoryParameter:
		return fmt.Sprintf("parameter of method '%s'", s.methodName)
	case CategoryLocalVariable, CategoryLocalObjectVariable:
		return fmt.Sprintf("local variable in method '%s'", s.methodName)
	}
	return ""
}
