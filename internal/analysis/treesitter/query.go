package treesitter

import "github.com/dshills/inkwell/internal/annotate"

// Styles assigned to highlight captures.
const (
	StyleComment annotate.Style = iota + 1
	StyleString
	StyleNumber
	StyleKeyword
	StyleConstant
	StyleType
	StyleBuiltin
	StyleFunction
	StyleField
	StyleParameter
	StyleOperator
)

var captureStyles = map[string]annotate.Style{
	"comment":   StyleComment,
	"string":    StyleString,
	"number":    StyleNumber,
	"keyword":   StyleKeyword,
	"constant":  StyleConstant,
	"type":      StyleType,
	"builtin":   StyleBuiltin,
	"function":  StyleFunction,
	"field":     StyleField,
	"parameter": StyleParameter,
	"operator":  StyleOperator,
}

// StyleName returns the capture name of a style, or "" for StyleNormal or
// an unknown style.
func StyleName(s annotate.Style) string {
	for name, style := range captureStyles {
		if style == s {
			return name
		}
	}
	return ""
}

// Patterns listed first win when captures overlap.
const goHighlightQuery = `
((comment) @comment)
((interpreted_string_literal) @string)
((raw_string_literal) @string)
((rune_literal) @string)
((int_literal) @number)
((float_literal) @number)
((imaginary_literal) @number)
[
  "break" "case" "chan" "const" "continue" "default" "defer" "else"
  "fallthrough" "for" "func" "go" "goto" "if" "import" "interface"
  "map" "package" "range" "return" "select" "struct" "switch"
  "type" "var"
] @keyword
((nil) @constant)
((true) @constant)
((false) @constant)
((iota) @constant)
((identifier) @type (#match? @type "^(bool|byte|rune|string|int|int8|int16|int32|int64|uint|uint8|uint16|uint32|uint64|uintptr|float32|float64|complex64|complex128|error|any|comparable)$"))
((identifier) @builtin (#match? @builtin "^(append|cap|clear|close|complex|copy|delete|imag|len|make|max|min|new|panic|print|println|real|recover)$"))
((type_identifier) @type)
((package_identifier) @type)
((function_declaration name: (identifier) @function))
((method_declaration name: (field_identifier) @function))
((call_expression function: (identifier) @function))
((call_expression function: (selector_expression field: (field_identifier) @function)))
((field_identifier) @field)
((parameter_declaration (identifier) @parameter))
[
  "+" "-" "*" "/" "%" "==" "!=" "<=" ">=" "<" ">" "=" ":=" "&&" "||"
  "!" "&" "|" "^" "<<" ">>" "&^" "+=" "-=" "*=" "/=" "%=" "&=" "|="
  "^=" "<<=" ">>=" "&^=" "<-" "++" "--" "..."
] @operator
`

// Table headers are listed before plain keys so they win.
const tomlHighlightQuery = `
((table (bare_key) @type))
((table (quoted_key) @type))
((table (dotted_key) @type))
((table_array_element (bare_key) @type))
((table_array_element (quoted_key) @type))
((table_array_element (dotted_key) @type))
((comment) @comment)
((string) @string)
((integer) @number)
((float) @number)
((boolean) @constant)
((local_date) @string)
((local_time) @string)
((local_date_time) @string)
((offset_date_time) @string)
((bare_key) @field)
((quoted_key) @field)
`

const yamlHighlightQuery = `
((comment) @comment)
((block_mapping_pair key: (_) @field))
((flow_pair key: (_) @field))
((string_scalar) @string)
((double_quote_scalar) @string)
((single_quote_scalar) @string)
((integer_scalar) @number)
((float_scalar) @number)
((null_scalar) @constant)
((boolean_scalar) @constant)
((anchor_name) @keyword)
((alias_name) @keyword)
((tag) @type)
`

const bashHighlightQuery = `
((comment) @comment)
((function_definition name: (word) @function))
((string) @string)
((raw_string) @string)
((heredoc_body) @string)
((number) @number)
((variable_name) @parameter)
((special_variable_name) @parameter)
((command_name) @function)
[
  "if" "then" "else" "elif" "fi" "case" "esac" "for" "while" "until"
  "do" "done" "in" "function"
] @keyword
`
