package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type nameInput struct {
	Name string `validate:"required,max=200"`
}

// NormalizeName trims a subject or topic name and checks that something is
// left. It returns an error wrapping ErrValidation otherwise.
func NormalizeName(name string) (string, error) {
	in := nameInput{Name: strings.TrimSpace(name)}
	if err := validate.Struct(in); err != nil {
		var msgs []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
			}
		} else {
			msgs = append(msgs, err.Error())
		}
		return "", fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
	}
	return in.Name, nil
}
