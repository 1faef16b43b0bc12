package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// firstFieldError turns the first failed rule of a validator error into a
// short message for the form, e.g. "title is required".
func firstFieldError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}
	fe := fieldErrs[0]
	field := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return field + " must be selected"
	case "url":
		return field + " must be a valid URL"
	case "email":
		return field + " must be a valid email address"
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}

var fieldLabels = map[string]string{
	"UserName":          "user name",
	"Password":          "password",
	"Email":             "email",
	"Title":             "title",
	"FeatureImgURL":     "feature image URL",
	"OriginalSourceURL": "original source URL",
	"SectorID":          "sector",
}

func fieldLabel(name string) string {
	if label, ok := fieldLabels[name]; ok {
		return label
	}
	return strings.ToLower(name)
}
