package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRegistry(t *testing.T) {
	registry := NewTemplateRegistry()

	for _, name := range []string{StaticTemplate, SyncTemplate, AsyncTemplate} {
		_, ok := registry.Get(name)
		assert.True(t, ok, name)
	}

	_, ok := registry.Get("missing")
	assert.False(t, ok)
	assert.Panics(t, func() { registry.MustGet("missing") })
	assert.Len(t, registry.Names(), 3)
}

func TestRenderStatic(t *testing.T) {
	r := MustNewRenderer()

	sync, err := r.Render(StaticTemplate, FragmentData{StaticName: "_lazy_Load", Qualifier: "lazy.", CachedType: "Settings"})
	require.NoError(t, err)
	assert.Equal(t, "var _lazy_Load lazy.Cell[Settings]", sync)

	async, err := r.Render(StaticTemplate, FragmentData{StaticName: "_lazy_Fetch", CachedType: "[]byte", Async: true})
	require.NoError(t, err)
	assert.Equal(t, "var _lazy_Fetch AsyncCell[[]byte]", async)
}

func TestRenderWrappers(t *testing.T) {
	r := MustNewRenderer()

	sync, err := r.Render(SyncTemplate, FragmentData{
		Name:       "Load",
		StaticName: "_lazy_Load",
		Doc:        []string{"// Load reads settings."},
		CachedType: "Settings",
		Producer:   "\t\treturn func() Settings { return Settings{} }()",
	})
	require.NoError(t, err)
	assert.Equal(t, `// Load reads settings.
func Load() *Settings {
	return _lazy_Load.GetOrInit(func() Settings {
		return func() Settings { return Settings{} }()
	})
}`, sync)

	async, err := r.Render(AsyncTemplate, FragmentData{
		Name:        "Fetch",
		StaticName:  "_lazy_Fetch",
		CachedType:  "int",
		CtxParam:    "ctx",
		InitParam:   "_",
		ContextType: "context.Context",
		Producer:    "\t\treturn 1",
	})
	require.NoError(t, err)
	assert.Equal(t, `func Fetch(ctx context.Context) (*int, error) {
	return _lazy_Fetch.GetOrInit(ctx, func(_ context.Context) int {
		return 1
	})
}`, async)

	_, err = r.Render("missing", FragmentData{})
	assert.Error(t, err)
}

func TestTemplateUtils(t *testing.T) {
	tu := NewTemplateUtils()

	assert.Equal(t, []string{"// Load reads."}, tu.TrimDoc([]string{"// Load reads.", "//", "// "}))
	assert.Empty(t, tu.TrimDoc([]string{"//"}))

	assert.Equal(t, "func() { work() }()", tu.CallProducer("", "{ work() }"))
	assert.Equal(t, "func() (s S) { return }()", tu.CallProducer("(s S)", "{ return }"))

	assert.Equal(t, "ctx", tu.ParamName("", "ctx"))
	assert.Equal(t, "ctx", tu.ParamName("_", "ctx"))
	assert.Equal(t, "c", tu.ParamName("c", "ctx"))
}
