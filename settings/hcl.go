package settings

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// A settings file is plain HCL. Top-level attributes become keys as-is;
// attributes inside blocks are prefixed with the block type and labels,
// joined with dots:
//
//	rendering {
//	  ssao          = true
//	  ssaoIntensity = 0.8
//	}
//
// yields "rendering.ssao" and "rendering.ssaoIntensity". Expressions are
// evaluated without variables or functions.

// ParseHCL decodes settings from HCL source. filename is used in
// diagnostics only.
func ParseHCL(src []byte, filename string) (map[string]cty.Value, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", filename, diags)
	}
	return decodeFile(file, filename)
}

// LoadFile reads and decodes an HCL settings file.
func LoadFile(path string) (map[string]cty.Value, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, diags)
	}
	return decodeFile(file, path)
}

// LoadFile decodes an HCL settings file and applies it to the bus.
func (b *Bus) LoadFile(path string) error {
	values, err := LoadFile(path)
	if err != nil {
		return err
	}
	slogger().Debug("settings file loaded", "path", path, "keys", len(values))
	return b.Apply(values)
}

func decodeFile(file *hcl.File, filename string) (map[string]cty.Value, error) {
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("settings file %s: unsupported body type %T", filename, file.Body)
	}
	values := make(map[string]cty.Value)
	if diags := flattenBody(body, "", values); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", filename, diags)
	}
	return values, nil
}

// flattenBody walks attributes and nested blocks, writing dotted keys.
func flattenBody(body *hclsyntax.Body, prefix string, out map[string]cty.Value) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for name, attr := range body.Attributes {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		if val.IsNull() {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Null setting value",
				Detail:   fmt.Sprintf("Setting %q must not be null.", joinKey(prefix, name)),
				Subject:  attr.Expr.Range().Ptr(),
			})
			continue
		}
		out[joinKey(prefix, name)] = val
	}
	for _, block := range body.Blocks {
		p := joinKey(prefix, block.Type)
		for _, label := range block.Labels {
			p = joinKey(p, label)
		}
		diags = append(diags, flattenBody(block.Body, p, out)...)
	}
	return diags
}

func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.Join([]string{prefix, name}, ".")
}
