// Package validate provides struct-tag validation for request payloads.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gte=N               number >= N
//	lte=N               number <= N
//	in=a,b,c            value must be one of the listed items
//	confirmed           value must equal a sibling field named <field>_confirmation
//
// Example:
//
//	type Input struct {
//	    Email    string `json:"email"    validate:"required,email"`
//	    Password string `json:"password" validate:"required,min=8,confirmed"`
//	}
package validate

import (
	"fmt"
	"net/mail"
	"reflect"
	"strconv"
	"strings"
)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value, rv); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func applyRule(rule, field string, v reflect.Value, parent reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "email":
		if _, err := mail.ParseAddress(raw); err != nil {
			return fmt.Sprintf("The %s field must be a valid email address.", field)
		}

	case "min":
		n, _ := strconv.ParseFloat(param, 64)
		if isNumeric(v) {
			if numValue(v) < n {
				return fmt.Sprintf("The %s field must be at least %s.", field, param)
			}
		} else if len([]rune(raw)) < int(n) {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, param)
		}

	case "max":
		n, _ := strconv.ParseFloat(param, 64)
		if isNumeric(v) {
			if numValue(v) > n {
				return fmt.Sprintf("The %s field must not exceed %s.", field, param)
			}
		} else if len([]rune(raw)) > int(n) {
			return fmt.Sprintf("The %s field must not exceed %s characters.", field, param)
		}

	case "gte":
		n, _ := strconv.ParseFloat(param, 64)
		if !isNumeric(v) || numValue(v) < n {
			return fmt.Sprintf("The %s field must be at least %s.", field, param)
		}

	case "lte":
		n, _ := strconv.ParseFloat(param, 64)
		if !isNumeric(v) || numValue(v) > n {
			return fmt.Sprintf("The %s field must be at most %s.", field, param)
		}

	case "in":
		for _, item := range strings.Split(param, ",") {
			if raw == item {
				return ""
			}
		}
		return fmt.Sprintf("The %s field must be one of: %s.", field, param)

	case "confirmed":
		sibling := siblingValue(parent, field+"_confirmation")
		if sibling != raw {
			return fmt.Sprintf("The %s confirmation does not match.", field)
		}
	}

	return ""
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if r == name {
			return true
		}
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func numValue(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

// siblingValue finds a field by its json name in the same struct.
func siblingValue(parent reflect.Value, jsonName string) string {
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if jsonFieldName(rt.Field(i)) == jsonName {
			return fmt.Sprintf("%v", parent.Field(i).Interface())
		}
	}
	return ""
}
