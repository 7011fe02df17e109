// Package lazy holds the one-time cells that lazyattr-generated code stores
// its cached values in.
//
// Generated code declares a package-level cell per annotated function and
// routes every call through GetOrInit:
//
//	var _lazy_Load lazy.Cell[Settings]
//
//	func Load() *Settings {
//		return _lazy_Load.GetOrInit(func() Settings { ... })
//	}
//
// The zero value of both Cell and AsyncCell is an empty cell, so they can be
// declared without a constructor.
package lazy
