package apperror

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func jsonTagName(fld reflect.StructField) string {
	// Mengambil nama dari tag json (contoh: `json:"full_name"`)
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func Init() {
	_ = Validator()

	// Gin's own engine reports the same field names for bound requests.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

// Validator returns the shared validator used by the page controllers. Struct
// rules live in `validate` tags; reported field names come from the json tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonTagName)
	})
	return validate
}

// ValidateStruct runs the shared validator and maps the first failure to an AppError.
func ValidateStruct(v any) error {
	if err := Validator().Struct(v); err != nil {
		return MapValidationError(err)
	}
	return nil
}
