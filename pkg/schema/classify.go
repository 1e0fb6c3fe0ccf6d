package schema

// Category is the dispatch class a descriptor falls into. Map and struct
// columns are both unflattenable for row-delimited text targets, but they
// stay distinct categories because JSON targets keep their shapes apart.
type Category int

const (
	CategoryScalar Category = iota
	CategoryList
	CategoryMap
	CategoryStruct
	CategoryBinary
)

func (c Category) String() string {
	switch c {
	case CategoryScalar:
		return "scalar"
	case CategoryList:
		return "list"
	case CategoryMap:
		return "map"
	case CategoryStruct:
		return "struct"
	case CategoryBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Classify maps a descriptor to its dispatch category. Classification is
// total over the closed descriptor set; callers never see an error here
// because FromArrow already rejected anything outside the set.
func Classify(t TypeDescriptor) Category {
	switch t.Shape {
	case ShapeList:
		return CategoryList
	case ShapeMap:
		return CategoryMap
	case ShapeStruct:
		return CategoryStruct
	default:
		if t.Scalar == KindBinary {
			return CategoryBinary
		}
		return CategoryScalar
	}
}

// IsNested reports whether a descriptor holds values without a single
// unambiguous text form (maps and structs).
func IsNested(t TypeDescriptor) bool {
	c := Classify(t)
	return c == CategoryMap || c == CategoryStruct
}
