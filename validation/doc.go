// Package validation runs struct-tag validation (go-playground/validator)
// over configuration values and reports every failed field at once.
//
//	type Settings struct {
//	    RootURL string `mapstructure:"root_url" validate:"required,http_url"`
//	}
//	if err := validation.Struct(s); err != nil {
//	    for _, fe := range validation.Fields(err) { ... }
//	}
package validation
