package lox

import (
	"strconv"
)

// truthy implements Lox's truthiness rule: nil and false are falsy,
// everything else (including 0 and "") is truthy.
func truthy(val interface{}) bool {
	if val == nil {
		return false
	}
	if b, ok := val.(bool); ok {
		return b
	}
	return true
}

// isEqual implements Lox's value equality: no implicit conversion between
// types, nil == nil is true, cross-type comparisons are false.
func isEqual(lhs, rhs interface{}) bool {
	if lhs == nil && rhs == nil {
		return true
	}
	if lhs == nil || rhs == nil {
		return false
	}
	return lhs == rhs
}

// stringify renders a runtime value the way `print` does.
func stringify(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		// Precision -1 emits the shortest decimal that round-trips, which for
		// a whole-valued float never carries a trailing ".0".
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case *function:
		return "<fn " + v.declaration.Name.Lexeme + ">"
	case *boundMethod:
		return "<fn " + v.fn.declaration.Name.Lexeme + ">"
	case *class:
		return v.name
	case *instance:
		return "<instance of " + v.class.name + ">"
	default:
		return "<native fn>"
	}
}
