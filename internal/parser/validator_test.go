package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/models"
)

func parseSingle(t *testing.T, src string) *models.LazyFunction {
	t.Helper()
	file, err := NewParser("").ParseSource("shape.go", []byte(src))
	require.NoError(t, err)
	require.Len(t, file.Functions, 1)
	return &file.Functions[0]
}

func TestValidatorRuleSelection(t *testing.T) {
	assert.Equal(t,
		[]string{errors.RuleNoArguments, errors.RuleNoAsync, errors.RuleNoTypeParams, errors.RuleSingleResult, errors.RuleHasBody},
		NewValidator(false).Rules())
	assert.Equal(t,
		[]string{errors.RuleNoArguments, errors.RuleNoTypeParams, errors.RuleSingleResult, errors.RuleHasBody},
		NewValidator(true).Rules())
}

func TestValidatorDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		async    bool
		expected string
	}{
		{
			name:     "parameters",
			src:      "package p\n//lazy::once\nfunc F(n int) int { return n }\n",
			expected: "shape.go:3:7: " + errors.MsgArgumentsNotSupported,
		},
		{
			name:     "receiver",
			src:      "package p\ntype T struct{}\n//lazy::once\nfunc (t T) F() int { return 1 }\n",
			expected: "shape.go:4:6: " + errors.MsgArgumentsNotSupported,
		},
		{
			name:     "parameters with async enabled",
			src:      "package p\nimport \"context\"\n//lazy::once\nfunc F(ctx context.Context, n int) int { return n }\n",
			async:    true,
			expected: "shape.go:4:7: " + errors.MsgArgumentsNotSupported,
		},
		{
			name:     "async disabled",
			src:      "package p\nimport \"context\"\n//lazy::once\nfunc F(ctx context.Context) int { return 1 }\n",
			expected: "shape.go:4:8: " + errors.MsgAsyncNotEnabled,
		},
		{
			name:     "type parameters",
			src:      "package p\n//lazy::once\nfunc F[T any]() T { var v T; return v }\n",
			expected: "shape.go:3:7: " + errors.MsgTypeParamsNotSupported,
		},
		{
			name:     "multiple results",
			src:      "package p\n//lazy::once\nfunc F() (int, error) { return 1, nil }\n",
			expected: "shape.go:3:10: " + errors.MsgMultipleResults,
		},
		{
			name:     "no body",
			src:      "package p\n//lazy::once\nfunc F() int\n",
			expected: "shape.go:3:6: " + errors.MsgMissingBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidator(tt.async).Validate(parseSingle(t, tt.src))
			require.NotNil(t, err)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidatorAcceptsSupportedShapes(t *testing.T) {
	sources := []string{
		"package p\n//lazy::once\nfunc F() int { return 1 }\n",
		"package p\n//lazy::once\nfunc F() {}\n",
		"package p\n//lazy::ref\nfunc F() (n int) { n = 2; return }\n",
	}
	for _, src := range sources {
		assert.Nil(t, NewValidator(false).Validate(parseSingle(t, src)))
	}

	async := parseSingle(t, "package p\nimport \"context\"\n//lazy::once\nfunc F(ctx context.Context) int { return 1 }\n")
	assert.Nil(t, NewValidator(true).Validate(async))
}
