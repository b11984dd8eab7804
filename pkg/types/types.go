package types

// Type identifies the storage-level type of a catalog column or runtime Field.
// It is the closed enumeration that every Field implementation in this package
// maps onto via Type()/GetType(), and that the catalog's column descriptors
// persist in CATALOG_COLUMNS.type_id.
type Type int

const (
	IntType Type = iota
	StringType
	BoolType
	FloatType
	Int32Type
	Int64Type
	Uint32Type
	Uint64Type
	DateType
)

// String returns a string representation of the type
func (t Type) String() string {
	switch t {
	case IntType:
		return "INT_TYPE"
	case StringType:
		return "STRING_TYPE"
	case BoolType:
		return "BOOL_TYPE"
	case FloatType:
		return "FLOAT_TYPE"
	case Int32Type:
		return "INT32_TYPE"
	case Int64Type:
		return "INT64_TYPE"
	case Uint32Type:
		return "UINT32_TYPE"
	case Uint64Type:
		return "UINT64_TYPE"
	case DateType:
		return "DATE_TYPE"
	default:
		return "UNKNOWN_TYPE"
	}
}

// Size returns the serialized size in bytes for t, matching the Length()
// of the corresponding Field implementation. It returns 0 for types with
// no fixed on-wire size (e.g. an unimplemented or unknown type).
func (t Type) Size() uint32 {
	switch t {
	case IntType:
		return 8
	case StringType:
		return 4 + StringMaxSize
	case BoolType:
		return 1
	case FloatType:
		return 8
	case Int32Type:
		return 4
	case Int64Type:
		return 8
	case Uint32Type:
		return 4
	case Uint64Type:
		return 8
	default:
		return 0
	}
}

// IsValidType reports whether t is one of the enumerated column types.
func IsValidType(t Type) bool {
	switch t {
	case IntType, StringType, BoolType, FloatType, Int32Type, Int64Type, Uint32Type, Uint64Type, DateType:
		return true
	default:
		return false
	}
}
