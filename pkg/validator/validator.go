package validator

import (
	"log"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterGinValidator configures gin's validator engine to report JSON field
// names in validation errors and registers custom auth-related validations.
func RegisterGinValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("nickname", nicknameValidator); err != nil {
			log.Fatal("register nickname validator failed")
		}
	}
}

// nicknameValidator accepts printable nicknames without leading/trailing space.
var nicknameValidator validator.Func = func(fl validator.FieldLevel) bool {
	nickname := fl.Field().String()
	if nickname != strings.TrimSpace(nickname) {
		return false
	}
	for _, r := range nickname {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return nickname != ""
}
