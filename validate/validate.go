package validate

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct menjalankan validasi tag `validate` di luar binding gin, untuk
// input yang masuk lewat service layer (bulk position update, dsb).
func Struct(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			f := errs[0]
			return fmt.Errorf("field %s failed on %s", f.Field(), f.Tag())
		}
		return err
	}
	return nil
}

// Var memvalidasi satu nilai terhadap satu tag, mis. Var(email, "email").
func Var(value interface{}, tag string) error {
	return validate.Var(value, tag)
}
