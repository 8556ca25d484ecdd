package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/genforge/genforge/internal/ctxlog"
	"github.com/genforge/genforge/internal/fsutil"
	"github.com/genforge/genforge/internal/registry"
	"github.com/genforge/genforge/internal/unit"
)

// Loader parses HCL manifests into an immutable registry.
type Loader struct{}

// NewLoader creates a manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load discovers all .hcl files under the given paths, parses them, and
// returns a registry containing every declared instruction. Duplicate keys
// across files are a configuration error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*registry.Registry, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find manifest files in %s: %w", path, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl manifest files found in %v", paths)
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	builder := registry.NewBuilder()
	seen := make(map[string]string) // key -> file it was declared in

	for _, file := range files {
		parsed, err := parseFile(parser, file)
		if err != nil {
			return nil, err
		}

		for _, block := range parsed.Stubs {
			if prev, dup := seen[block.Key]; dup {
				return nil, fmt.Errorf("duplicate key %q in %s (already declared in %s)", block.Key, file, prev)
			}
			seen[block.Key] = file

			stub, err := buildStub(block)
			if err != nil {
				return nil, fmt.Errorf("stub %q in %s: %w", block.Key, file, err)
			}
			builder.AddStub(stub)
		}

		for _, block := range parsed.Templates {
			if prev, dup := seen[block.Key]; dup {
				return nil, fmt.Errorf("duplicate key %q in %s (already declared in %s)", block.Key, file, prev)
			}
			seen[block.Key] = file

			builder.AddTemplate(buildTemplate(block))
		}
	}

	logger.Debug("Manifest loading complete.", "instructions", len(seen))
	return builder.Build(), nil
}

// parseFile parses a single manifest file into its block structs.
func parseFile(parser *hclparse.Parser, filePath string) (*manifestFile, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filePath, diags)
	}

	var parsed manifestFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", filePath, diags)
	}
	return &parsed, nil
}

// buildStub translates a stub block into a registry stub. The content
// expression must be self-contained, so it is evaluated here, once, and the
// emitter just wraps the result.
func buildStub(block *stubBlock) (*registry.Stub, error) {
	val, diags := block.Content.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("content must be self-contained: %w", diags)
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return nil, fmt.Errorf("content is not a string: %w", err)
	}

	key := block.Key
	content := val.AsString()
	prov := unit.Provenance{Key: key, Domain: block.Domain, Kind: unit.KindStub}

	return &registry.Stub{
		Meta: registry.Meta{
			Key:      key,
			Domain:   block.Domain,
			Requires: block.Requires,
		},
		Mode: block.Mode,
		Emit: func() (unit.SourceUnit, error) {
			return unit.New(key, content, prov), nil
		},
	}, nil
}

// buildTemplate translates a template block into a registry template. The
// content expression is captured and evaluated at emission time against the
// units of the required stubs.
func buildTemplate(block *templateBlock) *registry.Template {
	key := block.Key
	expr := block.Content
	prov := unit.Provenance{Key: key, Domain: block.Domain, Kind: unit.KindTemplate}

	return &registry.Template{
		Meta: registry.Meta{
			Key:      key,
			Domain:   block.Domain,
			Requires: block.Requires,
		},
		Emit: func(stubs []unit.SourceUnit) (unit.SourceUnit, error) {
			val, diags := expr.Value(evalContext(stubs))
			if diags.HasErrors() {
				return unit.SourceUnit{}, fmt.Errorf("evaluating content of template %q: %w", key, diags)
			}
			val, err := convert.Convert(val, cty.String)
			if err != nil {
				return unit.SourceUnit{}, fmt.Errorf("content of template %q is not a string: %w", key, err)
			}
			return unit.New(key, val.AsString(), prov), nil
		},
	}
}

// evalContext exposes the required stub units to a template's content
// expression: `units` maps stub key to content, `contents` is a tuple of
// the contents in declared requires order.
func evalContext(stubs []unit.SourceUnit) *hcl.EvalContext {
	vals := make(map[string]cty.Value, len(stubs))
	elems := make([]cty.Value, 0, len(stubs))
	for _, s := range stubs {
		content := cty.StringVal(s.Content)
		vals[s.Provenance.Key] = content
		elems = append(elems, content)
	}

	contents := cty.EmptyTupleVal
	if len(elems) > 0 {
		contents = cty.TupleVal(elems)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"units":    cty.ObjectVal(vals),
			"contents": contents,
		},
	}
}
