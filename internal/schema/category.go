package schema

import "strings"

var categoryByType = map[string]Category{
	// numeric
	"smallint": Numeric, "int2": Numeric, "integer": Numeric, "int": Numeric, "int4": Numeric,
	"bigint": Numeric, "int8": Numeric, "tinyint": Numeric, "mediumint": Numeric,
	"real": Numeric, "float": Numeric, "float4": Numeric, "float8": Numeric,
	"double": Numeric, "double precision": Numeric, "binary_float": Numeric, "binary_double": Numeric,
	"serial": Numeric, "bigserial": Numeric, "smallserial": Numeric,

	// string
	"varchar": String, "character varying": String, "nvarchar": String, "varchar2": String,
	"nvarchar2": String, "text": String,

	"boolean": Boolean, "bool": Boolean,

	"date": Date,

	"time": Time, "time without time zone": Time,
	"timetz": Time, "time with time zone": Time,

	"timestamp": Timestamp, "timestamp without time zone": Timestamp,
	"timestamptz": Timestamp, "timestamp with time zone": Timestamp,
	"timestamp with local time zone": Timestamp,
	"datetime": Timestamp, "datetime2": Timestamp, "datetimeoffset": Timestamp,
}

var largeObjectTypes = map[string]bool{
	"blob": true, "clob": true, "nclob": true, "bytea": true,
	"longblob": true, "mediumblob": true, "tinyblob": true,
	"longtext": true, "mediumtext": true,
	"image": true, "ntext": true, "varbinary": true, "binary": true,
}

// baseType lower-cases a type and drops modifiers such as "(255)" or
// " unsigned" so "VARCHAR(50)" and "varchar" classify the same way.
func baseType(dataType string) string {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		rest := ""
		if j := strings.IndexByte(t[i:], ')'); j >= 0 {
			rest = t[i+j+1:]
		}
		t = strings.TrimSpace(t[:i] + rest)
	}
	t = strings.TrimSuffix(t, " unsigned")
	return strings.TrimSpace(t)
}

// Classify maps a raw column type to its Category. Decimal types classify
// as Other; time zone aware types follow their naive counterpart.
func Classify(dataType string) Category {
	if c, ok := categoryByType[baseType(dataType)]; ok {
		return c
	}
	return Other
}

// IsLargeObjectType reports whether values of dataType should be compared
// through a content hash instead of their raw value.
func IsLargeObjectType(dataType string) bool {
	return largeObjectTypes[baseType(dataType)]
}

// NewColumn builds a Column with its derived category and large-object flag.
func NewColumn(name, dataType string, nullable bool) *Column {
	return &Column{
		Name:        name,
		DataType:    dataType,
		Category:    Classify(dataType),
		Nullable:    nullable,
		LargeObject: IsLargeObjectType(dataType),
	}
}
