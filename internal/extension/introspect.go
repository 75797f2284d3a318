package extension

import "quiver/internal/api"

// selfParam is the receiver placeholder some providers carry over in their
// declared parameter lists. It is never part of a command's parameters.
const selfParam = "self"

// Introspect turns a declared parameter list into an ordered parameter
// table. Parameters without a default map to "".
func Introspect(params []api.Param) *api.Params {
	out := api.NewParams()
	for _, p := range params {
		if p.Name == selfParam {
			continue
		}
		if !p.Optional {
			out.Set(p.Name, "")
			continue
		}
		out.Set(p.Name, p.Default)
	}
	return out
}

// IntrospectCommand returns the parameter table of cmd.
func IntrospectCommand(cmd api.Command) *api.Params {
	return Introspect(cmd.Params)
}
