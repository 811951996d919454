package table

// SemanticType is the inferred logical category of a column
type SemanticType string

const (
	TypeNumeric     SemanticType = "numeric"
	TypeCategorical SemanticType = "categorical"
	TypeDatetime    SemanticType = "datetime"
	TypeText        SemanticType = "text"
	TypeMixed       SemanticType = "mixed"
)

// IsNumeric reports whether values of this type are stored as numbers
func (t SemanticType) IsNumeric() bool { return t == TypeNumeric }

// Valid checks the type is one of the known values
func (t SemanticType) Valid() bool {
	switch t {
	case TypeNumeric, TypeCategorical, TypeDatetime, TypeText, TypeMixed:
		return true
	}
	return false
}
