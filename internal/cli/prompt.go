package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// Prompter asks the user questions. The survey implementation is replaced
// in tests.
type Prompter interface {
	Select(message string, options []string, def string) (string, error)
	MultiSelect(message string, options []string, defaults []string) ([]string, error)
	Confirm(message string, def bool) (bool, error)
	Int(message string, def, min, max int) (int, error)
	Password(message string) (string, error)
}

var prompter Prompter = surveyPrompter{}

// surveyPrompter implements Prompter with survey.
type surveyPrompter struct{}

func (surveyPrompter) Select(message string, options []string, def string) (string, error) {
	var result string
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: def,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (surveyPrompter) MultiSelect(message string, options []string, defaults []string) ([]string, error) {
	var result []string
	prompt := &survey.MultiSelect{
		Message: message,
		Options: options,
		Default: defaults,
	}
	if err := survey.AskOne(prompt, &result, survey.WithValidator(survey.MinItems(1))); err != nil {
		return nil, err
	}
	return result, nil
}

func (surveyPrompter) Confirm(message string, def bool) (bool, error) {
	result := def
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (surveyPrompter) Int(message string, def, min, max int) (int, error) {
	var result string
	prompt := &survey.Input{
		Message: fmt.Sprintf("%s [%d-%d]", message, min, max),
		Default: strconv.Itoa(def),
	}
	if err := survey.AskOne(prompt, &result, survey.WithValidator(intRange(min, max))); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(result))
}

func (surveyPrompter) Password(message string) (string, error) {
	var result string
	if err := survey.AskOne(&survey.Password{Message: message}, &result); err != nil {
		return "", err
	}
	return result, nil
}

// intRange validates an integer answer within [min, max].
func intRange(min, max int) survey.Validator {
	return func(ans interface{}) error {
		s, ok := ans.(string)
		if !ok {
			return fmt.Errorf("expected a number")
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%q is not a whole number", s)
		}
		if n < min || n > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	}
}
