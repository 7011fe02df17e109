package parser

import (
	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/models"
)

// Rule checks one shape constraint and returns nil when the function passes
type Rule struct {
	Name  string
	Check func(fn *models.LazyFunction) errors.LazyError
}

// Validator rejects annotated functions whose shape cannot be memoized.
// Its rule list is fixed when it is built.
type Validator struct {
	rules []Rule
}

// NewValidator builds the rule list. The async rule is only present when
// async support is disabled.
func NewValidator(asyncEnabled bool) *Validator {
	rules := []Rule{{Name: errors.RuleNoArguments, Check: checkNoArguments}}
	if !asyncEnabled {
		rules = append(rules, Rule{Name: errors.RuleNoAsync, Check: checkNotAsync})
	}
	rules = append(rules,
		Rule{Name: errors.RuleNoTypeParams, Check: checkNoTypeParams},
		Rule{Name: errors.RuleSingleResult, Check: checkSingleResult},
		Rule{Name: errors.RuleHasBody, Check: checkHasBody},
	)
	return &Validator{rules: rules}
}

// Rules returns the names of the active rules in evaluation order
func (v *Validator) Rules() []string {
	names := make([]string, len(v.rules))
	for i, rule := range v.rules {
		names[i] = rule.Name
	}
	return names
}

// Validate returns the first rule violation, or nil
func (v *Validator) Validate(fn *models.LazyFunction) errors.LazyError {
	for _, rule := range v.rules {
		if err := rule.Check(fn); err != nil {
			return err
		}
	}
	return nil
}

func checkNoArguments(fn *models.LazyFunction) errors.LazyError {
	if fn.Receiver != "" {
		return errors.ArgumentsNotSupported(fn.Name, fn.ReceiverLocation)
	}
	if len(fn.Params) > 0 && !fn.Async {
		return errors.ArgumentsNotSupported(fn.Name, fn.ParamsLocation)
	}
	return nil
}

func checkNotAsync(fn *models.LazyFunction) errors.LazyError {
	if fn.Async {
		return errors.AsyncNotEnabled(fn.Name, fn.Params[0].Location)
	}
	return nil
}

func checkNoTypeParams(fn *models.LazyFunction) errors.LazyError {
	if fn.TypeParams != "" {
		return errors.NewValidationError(fn.Name, errors.RuleNoTypeParams, errors.MsgTypeParamsNotSupported).
			WithLocation(fn.TypeParamsLocation)
	}
	return nil
}

func checkSingleResult(fn *models.LazyFunction) errors.LazyError {
	if fn.NumResults > 1 {
		return errors.NewValidationError(fn.Name, errors.RuleSingleResult, errors.MsgMultipleResults).
			WithLocation(fn.ResultsLocation).
			WithSuggestion("return a struct holding the values")
	}
	return nil
}

func checkHasBody(fn *models.LazyFunction) errors.LazyError {
	if !fn.HasBody() {
		return errors.NewValidationError(fn.Name, errors.RuleHasBody, errors.MsgMissingBody).
			WithLocation(fn.NameLocation)
	}
	return nil
}
