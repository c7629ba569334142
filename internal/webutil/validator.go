package webutil

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator is shared by every handler.
var Validator *validator.Validate

// Trans renders validation errors in English.
var Trans ut.Translator

// display names for JSON fields whose tag is not readable on its own
var fieldNameTranslations = map[string]string{
	"courseId":          "course",
	"full_name":         "full name",
	"new_password":      "new password",
	"current_password":  "current password",
	"confirm_password":  "password confirmation",
	"content_type":      "content type",
	"content_url":       "content URL",
	"thumbnail_url":     "thumbnail URL",
	"platform_name":     "platform name",
	"platform_email":    "platform email",
	"default_user_role": "default role",
}

func displayName(field string) string {
	if name, ok := fieldNameTranslations[field]; ok {
		return name
	}
	return field
}

func init() {
	Validator = validator.New()

	// report JSON names instead of Go field names
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	var found bool
	Trans, found = uni.GetTranslator("en")
	if !found {
		log.Fatal("translator not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	// overrides that use display names
	register := func(tag, msg string, withParam bool) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			var t string
			if withParam {
				t, _ = ut.T(tag, displayName(fe.Field()), fe.Param())
			} else {
				t, _ = ut.T(tag, displayName(fe.Field()))
			}
			return t
		})
	}

	register("required", "{0} is required.", false)
	register("email", "{0} must be a valid email address.", false)
	register("url", "{0} must be a valid URL.", false)
	register("uuid", "{0} must be a valid id.", false)
	register("min", "{0} must be at least {1}.", true)
	register("max", "{0} must be at most {1} characters long.", true)
	register("oneof", "{0} must be one of [{1}].", true)
	register("eqfield", "{0} does not match.", false)
}
