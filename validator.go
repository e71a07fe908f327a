package bbweaver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Validator decides whether an attribute value may be emitted.
type Validator interface {
	// Validate returns nil if value is acceptable for attr on tag,
	// or an error describing why it is not.
	Validate(tag, attr, value string) error
}

// RegexValidator validates a value against a regular expression.
type RegexValidator struct {
	Pattern     *regexp.Regexp
	Description string // Human-readable description of what the pattern expects
}

// Validate implements the Validator interface.
func (v *RegexValidator) Validate(tag, attr, value string) error {
	if !v.Pattern.MatchString(value) {
		return NewValidationError(tag, attr, value,
			fmt.Sprintf("does not match expected pattern: %s", v.Description))
	}
	return nil
}

// FuncValidator uses a custom function to validate a value.
type FuncValidator struct {
	ValidateFunc func(tag, attr, value string) error
}

// Validate implements the Validator interface.
func (v *FuncValidator) Validate(tag, attr, value string) error {
	return v.ValidateFunc(tag, attr, value)
}

// SchemeValidator accepts relative URLs and absolute URLs whose scheme is
// listed in Schemes (compared case-insensitively).
type SchemeValidator struct {
	Schemes []string
}

// Validate implements the Validator interface.
func (v *SchemeValidator) Validate(tag, attr, value string) error {
	// Control characters can hide a scheme from url.Parse.
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(value))

	u, err := url.Parse(cleaned)
	if err != nil {
		return NewValidationError(tag, attr, value, "not a valid URL")
	}
	if u.Scheme == "" {
		return nil
	}
	for _, s := range v.Schemes {
		if strings.EqualFold(s, u.Scheme) {
			return nil
		}
	}
	return NewValidationError(tag, attr, value, fmt.Sprintf("scheme %q is not allowed", u.Scheme))
}

// ValidatorRegistry manages value validators per tag and attribute.
type ValidatorRegistry struct {
	validators map[string][]Validator
}

// NewValidatorRegistry creates a new validator registry.
func NewValidatorRegistry() *ValidatorRegistry {
	return &ValidatorRegistry{
		validators: make(map[string][]Validator),
	}
}

// Register adds a validator for attr on tag. Use "*" as tag to apply it
// to attr on every tag. Multiple validators can be registered for the
// same pair; all of them must pass.
func (r *ValidatorRegistry) Register(tag, attr string, validator Validator) {
	if validator == nil {
		return
	}
	key := validatorKey(tag, attr)
	r.validators[key] = append(r.validators[key], validator)
}

// RegisterRegex creates and registers a RegexValidator.
func (r *ValidatorRegistry) RegisterRegex(tag, attr, pattern, description string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid regex pattern for [%s] %s: %w", tag, attr, err)
	}

	r.Register(tag, attr, &RegexValidator{
		Pattern:     re,
		Description: description,
	})
	return nil
}

// RegisterFunc creates and registers a FuncValidator.
func (r *ValidatorRegistry) RegisterFunc(tag, attr string, validateFunc func(tag, attr, value string) error) {
	r.Register(tag, attr, &FuncValidator{
		ValidateFunc: validateFunc,
	})
}

// RegisterSchemes registers a SchemeValidator for attr on tag.
func (r *ValidatorRegistry) RegisterSchemes(tag, attr string, schemes ...string) {
	r.Register(tag, attr, &SchemeValidator{Schemes: schemes})
}

// ValidateAttribute runs the wildcard validators for attr, then the
// tag-specific ones, and returns the first failure.
func (r *ValidatorRegistry) ValidateAttribute(tag, attr, value string) error {
	if r == nil {
		return nil
	}
	for _, key := range [...]string{validatorKey("*", attr), validatorKey(tag, attr)} {
		for _, validator := range r.validators[key] {
			if err := validator.Validate(tag, attr, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func validatorKey(tag, attr string) string {
	return tag + "\x00" + attr
}
