package extension

import (
	"context"
	"errors"

	"quiver/internal/api"
)

type fakeProvider struct {
	commands []api.Command
}

func (p *fakeProvider) Commands() []api.Command { return p.commands }

func noop(ctx context.Context, args map[string]any) (any, error) { return nil, nil }

func calculatorDefinition() Definition {
	return Definition{
		Name:        "calculator",
		Description: "Arithmetic helpers",
		New: func(ec *api.ExecutionContext) (api.Provider, error) {
			return &fakeProvider{commands: []api.Command{
				{Name: "Add Numbers", Function: "add", Params: []api.Param{api.Required("a"), api.Required("b")}, Run: noop},
				{Name: "Scale", Function: "scale", Params: []api.Param{{Name: "self"}, api.Required("value"), api.Optional("factor", 2)}, Run: noop},
			}}, nil
		},
	}
}

func fileSystemDefinition() Definition {
	return Definition{
		Name:     "file_system",
		Settings: []api.Param{api.Optional("working_directory_restricted", true)},
		New: func(ec *api.ExecutionContext) (api.Provider, error) {
			return &fakeProvider{commands: []api.Command{
				{Name: "Read File", Function: "read_file", Description: "Read a file", Params: []api.Param{api.Required("filename")}, Run: noop},
			}}, nil
		},
	}
}

func brokenDefinition() Definition {
	return Definition{
		Name: "broken",
		New: func(ec *api.ExecutionContext) (api.Provider, error) {
			return nil, errors.New("missing credentials")
		},
	}
}

func hollowDefinition() Definition {
	return Definition{
		Name: "hollow",
		New: func(ec *api.ExecutionContext) (api.Provider, error) {
			return nil, nil
		},
	}
}

// gatedDefinition yields a provider only when the token setting is present.
func gatedDefinition() Definition {
	return Definition{
		Name:     "gated",
		Settings: []api.Param{api.Optional("token", "")},
		New: func(ec *api.ExecutionContext) (api.Provider, error) {
			if ec.Setting("token", "") == "" {
				return nil, nil
			}
			return &fakeProvider{commands: []api.Command{
				{Name: "Ping", Function: "ping", Params: []api.Param{api.Required("host")}, Run: noop},
			}}, nil
		},
	}
}
