// Package validation checks untyped request payloads against the resource
// field rules. It has no side effects and never touches storage.
package validation

import (
	"math"
	"strings"

	"resourcesvc/internal/models"

	"github.com/go-playground/validator/v10"
)

// MsgNoUpdateFields is reported when an update names none of the known fields.
const MsgNoUpdateFields = "At least one field (name, description, category, price, quantity) must be provided for update"

var validate = validator.New()

// ValidationError lists every violated rule, in field order.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

type fieldKind int

const (
	textField fieldKind = iota
	numberField
	integerField
)

// fieldRule pairs a payload key with the validator tag its typed value must
// satisfy.
type fieldRule struct {
	key   string
	label string
	kind  fieldKind
	tag   string
}

var resourceFields = []fieldRule{
	{key: "name", label: "Name", kind: textField, tag: "required"},
	{key: "description", label: "Description", kind: textField, tag: "required"},
	{key: "category", label: "Category", kind: textField, tag: "required"},
	{key: "price", label: "Price", kind: numberField, tag: "gte=0"},
	// JSON numbers decode to float64, which stops holding every integer at 2^53.
	{key: "quantity", label: "Quantity", kind: integerField, tag: "gte=0,lt=9007199254740992"},
}

func (r fieldRule) expectation() string {
	switch r.kind {
	case numberField:
		return "a non-negative number"
	case integerField:
		return "a non-negative integer"
	default:
		return "a non-empty string"
	}
}

// check coerces v to the rule's kind and runs the rule's tag against it.
func (r fieldRule) check(v interface{}) bool {
	switch r.kind {
	case textField:
		s, ok := v.(string)
		return ok && validate.Var(strings.TrimSpace(s), r.tag) == nil
	case numberField:
		f, ok := toFloat(v)
		return ok && validate.Var(f, r.tag) == nil
	case integerField:
		f, ok := toFloat(v)
		if !ok || f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
			return false
		}
		return validate.Var(int64(f), r.tag) == nil
	}
	return false
}

// ValidateCreate requires all five business fields. It returns nil when the
// payload passes.
func ValidateCreate(payload map[string]interface{}) *ValidationError {
	var errs []string
	for _, rule := range resourceFields {
		v, ok := payload[rule.key]
		if !ok || v == nil || !rule.check(v) {
			errs = append(errs, rule.label+" is required and must be "+rule.expectation())
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ValidateUpdate checks every supplied field against the create rules and
// requires at least one known field. Unknown keys are ignored.
func ValidateUpdate(payload map[string]interface{}) *ValidationError {
	var (
		errs    []string
		present int
	)
	for _, rule := range resourceFields {
		v, ok := payload[rule.key]
		if !ok {
			continue
		}
		present++
		if !rule.check(v) {
			errs = append(errs, rule.label+" must be "+rule.expectation())
		}
	}
	if present == 0 {
		return &ValidationError{Errors: []string{MsgNoUpdateFields}}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// CreateInput converts a payload that passed ValidateCreate.
func CreateInput(payload map[string]interface{}) models.CreateResourceInput {
	price, _ := toFloat(payload["price"])
	qty, _ := toFloat(payload["quantity"])
	return models.CreateResourceInput{
		Name:        asString(payload["name"]),
		Description: asString(payload["description"]),
		Category:    asString(payload["category"]),
		Price:       price,
		Quantity:    int64(qty),
	}
}

// UpdateInput converts a payload that passed ValidateUpdate.
func UpdateInput(payload map[string]interface{}) models.UpdateResourceInput {
	var in models.UpdateResourceInput
	if v, ok := payload["name"]; ok {
		s := asString(v)
		in.Name = &s
	}
	if v, ok := payload["description"]; ok {
		s := asString(v)
		in.Description = &s
	}
	if v, ok := payload["category"]; ok {
		s := asString(v)
		in.Category = &s
	}
	if v, ok := payload["price"]; ok {
		f, _ := toFloat(v)
		in.Price = &f
	}
	if v, ok := payload["quantity"]; ok {
		f, _ := toFloat(v)
		q := int64(f)
		in.Quantity = &q
	}
	return in
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// toFloat accepts the numeric types a JSON decoder or a Go caller produces.
// Strings and booleans are not numbers.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
