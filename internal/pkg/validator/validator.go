package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Details flattens a gin binding error into a field -> constraint map so
// responses can name the offending field instead of a bare "invalid".
func Details(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fieldName(fe)] = fe.Tag()
	}
	return details
}

func fieldName(fe validator.FieldError) string {
	// validator reports Go struct field names; the wire uses them as-is
	// since dto fields are named after their json/form keys.
	return fe.Field()
}
