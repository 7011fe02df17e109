package generator

import (
	"fmt"
	"strings"

	"github.com/toyz/lazyattr/internal/annotations"
	"github.com/toyz/lazyattr/internal/errors"
	"github.com/toyz/lazyattr/internal/models"
	"github.com/toyz/lazyattr/internal/parser"
	"github.com/toyz/lazyattr/internal/templates"
)

const (
	unitType      = "struct{}"
	unitValue     = "struct{}{}"
	valueVar      = "_lazy_value"
	transformVar  = "_lazy_map"
	transformArg  = "_lazy_in"
	defaultCtxVar = "ctx"
)

// Emitter renders the storage declaration and replacement function of a
// lazy function. Emit is a pure function of its inputs.
type Emitter struct {
	renderer *templates.Renderer
	utils    *templates.TemplateUtils
}

// NewEmitter creates an emitter backed by the built-in templates
func NewEmitter() *Emitter {
	return &Emitter{
		renderer: templates.MustNewRenderer(),
		utils:    templates.NewTemplateUtils(),
	}
}

// Emit produces the Generated Fragment for fn
func (e *Emitter) Emit(fn *models.LazyFunction, args annotations.Args, facility models.FacilityName) (models.Fragment, error) {
	resultType := fn.ResultType
	if resultType == "" {
		resultType = unitType
	}

	cachedType := resultType
	mapArgs, mapped := args.(annotations.MapArgs)
	if mapped {
		cachedType = mapArgs.Type
	}

	data := templates.FragmentData{
		Name:       fn.Name,
		StaticName: parser.StaticPrefix + fn.Name,
		Doc:        e.utils.TrimDoc(fn.Doc),
		Qualifier:  facility.Qualifier(),
		CachedType: cachedType,
		Async:      fn.Async,
		Producer:   e.producer(fn, resultType, cachedType, mapArgs, mapped),
	}

	if fn.Async {
		data.CtxParam = e.utils.ParamName(fn.AsyncName, defaultCtxVar)
		data.InitParam = fn.AsyncName
		if data.InitParam == "" {
			data.InitParam = "_"
		}
		data.ContextType = fn.Params[0].Type
	}

	static, err := e.renderer.Render(templates.StaticTemplate, data)
	if err != nil {
		return models.Fragment{}, errors.WrapTemplateError(templates.StaticTemplate, "execute", err)
	}

	wrapperTemplate := templates.SyncTemplate
	if fn.Async {
		wrapperTemplate = templates.AsyncTemplate
	}
	wrapper, err := e.renderer.Render(wrapperTemplate, data)
	if err != nil {
		return models.Fragment{}, errors.WrapTemplateError(wrapperTemplate, "execute", err)
	}

	return models.Fragment{
		Function: fn.Name,
		Static:   static,
		Func:     wrapper,
		Facility: facility,
	}, nil
}

// producer builds the initializer statements: run the original body once,
// then apply the transform to obtain the cached value.
func (e *Emitter) producer(fn *models.LazyFunction, resultType, cachedType string, mapArgs annotations.MapArgs, mapped bool) string {
	var lines []string

	value := e.utils.CallProducer(fn.Results, fn.Body)
	if !fn.HasResult() {
		lines = append(lines, value)
		value = unitValue
	}

	if !mapped {
		lines = append(lines, "return "+value)
		return indent(lines)
	}

	transform := mapArgs.Transform.Expr
	if mapArgs.Transform.Kind == annotations.TransformPath {
		transform = fmt.Sprintf("func(%s %s) %s { return %s(%s) }", transformArg, resultType, cachedType, transform, transformArg)
	}

	lines = append(lines,
		fmt.Sprintf("%s := %s", valueVar, value),
		fmt.Sprintf("var %s func(%s) %s = %s", transformVar, resultType, cachedType, transform),
		fmt.Sprintf("return %s(%s)", transformVar, valueVar),
	)
	return indent(lines)
}

func indent(lines []string) string {
	return "\t\t" + strings.Join(lines, "\n\t\t")
}
