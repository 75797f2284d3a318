// Package filesystem provides file commands confined to the conversation
// workspace.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"quiver/internal/api"
	"quiver/internal/extension"
)

// Name is the extension identifier.
const Name = "file_system"

// RestrictedSetting confines paths to the workspace when true.
const RestrictedSetting = "working_directory_restricted"

// Definition returns the file system extension definition.
func Definition() extension.Definition {
	return extension.Definition{
		Name:        Name,
		Description: "Read, write and list files in the agent workspace.",
		Settings:    []api.Param{api.Optional(RestrictedSetting, true)},
		New: func(ec *api.ExecutionContext) (api.Provider, error) {
			p := &provider{restricted: true}
			if ec != nil {
				p.workspace = ec.WorkspaceDir
				p.restricted = extension.BoolSetting(ec.Settings, RestrictedSetting, true)
			}
			return p, nil
		},
	}
}

type provider struct {
	workspace  string
	restricted bool
}

func (p *provider) Commands() []api.Command {
	return []api.Command{
		{
			Name:        "Read File",
			Function:    "read_file",
			Description: "Read the contents of a file.",
			Params:      []api.Param{api.Required("filename")},
			Run:         p.readFile,
		},
		{
			Name:        "Write to File",
			Function:    "write_to_file",
			Description: "Write text to a file, replacing its contents.",
			Params:      []api.Param{api.Required("filename"), api.Required("text")},
			Run:         p.writeFile,
		},
		{
			Name:        "List Files",
			Function:    "list_files",
			Description: "List files below a directory.",
			Params:      []api.Param{api.Optional("directory", ".")},
			Run:         p.listFiles,
		},
	}
}

// resolve maps name to an absolute path. In restricted mode the path must
// stay inside the workspace.
func (p *provider) resolve(name string) (string, error) {
	if p.workspace == "" {
		return "", fmt.Errorf("no workspace configured")
	}
	root, err := filepath.Abs(p.workspace)
	if err != nil {
		return "", err
	}

	if !p.restricted && filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}

	path := filepath.Join(root, name)
	if p.restricted {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("path %s is outside the workspace", name)
		}
	}
	return path, nil
}

func (p *provider) readFile(ctx context.Context, args map[string]any) (any, error) {
	name, err := extension.RequiredStringArg(args, "filename")
	if err != nil {
		return nil, err
	}
	path, err := p.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

func (p *provider) writeFile(ctx context.Context, args map[string]any) (any, error) {
	name, err := extension.RequiredStringArg(args, "filename")
	if err != nil {
		return nil, err
	}
	path, err := p.resolve(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(path, []byte(extension.StringArg(args, "text", "")), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}
	return "File written to successfully.", nil
}

func (p *provider) listFiles(ctx context.Context, args map[string]any) (any, error) {
	dir, err := p.resolve(extension.StringArg(args, "directory", "."))
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}
