package dispatch

import "quiver/internal/api"

// Reconcile returns args aligned with params: declared parameters the
// caller omitted are present with a nil value and undeclared arguments are
// dropped. The self and kwargs placeholders are never filled in, but keep a
// value the caller supplied for them. args is not modified.
func Reconcile(params *api.Params, args map[string]any) map[string]any {
	if params == nil {
		return map[string]any{}
	}
	out := make(map[string]any, params.Len())
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		name := pair.Key
		v, ok := args[name]
		if !ok && (name == "self" || name == "kwargs") {
			continue
		}
		out[name] = v
	}
	return out
}
