package component

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("href", func(fl validator.FieldLevel) bool {
		return IsHref(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// Validate checks a record against its field constraints.
func Validate(p Props) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%s: field %s failed %q: %w", p.Kind(), fe.Field(), fe.Tag(), ErrInvalidTrait)
	}

	return fmt.Errorf("%s: %v: %w", p.Kind(), err, ErrInvalidTrait)
}

// IsHref accepts the placeholder, fragment and root-relative links and
// absolute http, https, mailto and tel links.
func IsHref(href string) bool {
	href = strings.TrimSpace(href)
	if len(href) == 0 {
		return false
	}

	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "/") {
		return true
	}

	u, err := url.Parse(href)
	if err != nil {
		return false
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return len(u.Host) > 0
	case "mailto", "tel":
		return len(u.Opaque) > 0 || len(u.Path) > 0
	}

	return false
}

func isHexColor(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,hexcolor") == nil
}

// IsImageSource accepts absolute http(s) URLs and root-relative paths.
func IsImageSource(src string) bool {
	if strings.HasPrefix(src, "/") && !strings.HasPrefix(src, "//") {
		return true
	}

	u, err := url.Parse(src)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && len(u.Host) > 0
}
