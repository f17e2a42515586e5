// Package validation checks contribution attributes, configuration and API
// input.
//
// Struct tag validation uses go-playground/validator with an extra `extid`
// tag for point and factory ids:
//
//	type factoryAttrs struct {
//	    ID    string `json:"id" validate:"required,extid"`
//	    Class string `json:"class" validate:"required"`
//	}
//	err := validation.Validate(attrs)
//
// Values without tags, such as the entries of a list, are checked with a
// Validator, which reports the same INVALID_INPUT error:
//
//	v := validation.New()
//	v.Identifier("points[0].id", p.ID).OneOf("points[0].mode", mode, modes)
//	v.Unique("points.id", ids)
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
