package hclext

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/jokarl/gemslint/flatconfig"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// FileSchema is the schema of an HCL override file.
//
// Example:
//
//	ignores = ["**/generated/**"]
//
//	block "scripts" {
//	  files = ["scripts/**/*.js"]
//	  rules = {
//	    "no-console"       = "off"
//	    camelcase          = ["error", { properties = "never" }]
//	    "react/prop-types" = 0
//	  }
//
//	  language_options {
//	    source_type = "commonjs"
//	    globals     = { process = "readonly" }
//	  }
//
//	  plugin "react" {
//	    package = "eslint-plugin-react"
//	  }
//	}
var FileSchema = &BodySchema{
	Attributes: []AttributeSchema{
		{Name: "ignores"},
	},
	Blocks: []BlockSchema{
		{Type: "block", LabelNames: []string{"name"}, Body: blockSchema},
	},
}

var blockSchema = &BodySchema{
	Attributes: []AttributeSchema{
		{Name: "files"},
		{Name: "ignores"},
		{Name: "settings"},
		{Name: "rules"},
	},
	Blocks: []BlockSchema{
		{Type: "language_options", Body: languageOptionsSchema},
		{Type: "plugin", LabelNames: []string{"name"}, Body: pluginSchema},
	},
}

var languageOptionsSchema = &BodySchema{
	Attributes: []AttributeSchema{
		{Name: "parser"},
		{Name: "ecma_version"},
		{Name: "source_type"},
		{Name: "parser_options"},
		{Name: "globals"},
	},
}

var pluginSchema = &BodySchema{
	Attributes: []AttributeSchema{
		{Name: "package"},
		{Name: "version"},
		{Name: "rules"},
	},
}

// ParseFile reads and decodes an HCL override file.
func ParseFile(filename string) ([]*flatconfig.ConfigBlock, hcl.Diagnostics) {
	file, diags := hclparse.NewParser().ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, diags
	}
	blocks, moreDiags := DecodeBlocks(file.Body)
	return blocks, append(diags, moreDiags...)
}

// Parse decodes HCL override source. The filename is used in diagnostics only.
func Parse(src []byte, filename string) ([]*flatconfig.ConfigBlock, hcl.Diagnostics) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	blocks, moreDiags := DecodeBlocks(file.Body)
	return blocks, append(diags, moreDiags...)
}

// DecodeBlocks decodes a body conforming to FileSchema into configuration
// blocks. A top-level ignores attribute becomes a global ignore block placed
// first; "block" blocks follow in source order.
func DecodeBlocks(body hcl.Body) ([]*flatconfig.ConfigBlock, hcl.Diagnostics) {
	content, diags := Content(body, FileSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	var blocks []*flatconfig.ConfigBlock
	if attr, ok := content.Attributes["ignores"]; ok {
		ignores, moreDiags := decodeStrings(attr)
		diags = append(diags, moreDiags...)
		if len(ignores) > 0 {
			blocks = append(blocks, &flatconfig.ConfigBlock{Name: "ignores", Ignores: ignores})
		}
	}

	for _, b := range content.BlocksOfType("block") {
		block, moreDiags := decodeBlock(b)
		diags = append(diags, moreDiags...)
		if block != nil {
			blocks = append(blocks, block)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return blocks, diags
}

func decodeBlock(b *Block) (*flatconfig.ConfigBlock, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	block := &flatconfig.ConfigBlock{Name: b.Labels[0]}
	attrs := b.Body.Attributes

	if attr, ok := attrs["files"]; ok {
		files, moreDiags := decodeStrings(attr)
		diags = append(diags, moreDiags...)
		for _, f := range files {
			if !flatconfig.ValidPattern(f) {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid file pattern",
					Detail:   fmt.Sprintf("%q is not a valid glob pattern.", f),
					Subject:  attr.Expr.Range().Ptr(),
				})
			}
		}
		block.Files = files
	}
	if attr, ok := attrs["ignores"]; ok {
		ignores, moreDiags := decodeStrings(attr)
		diags = append(diags, moreDiags...)
		block.Ignores = ignores
	}
	if attr, ok := attrs["settings"]; ok {
		settings, moreDiags := decodeObject(attr.Expr)
		diags = append(diags, moreDiags...)
		block.Settings = settings
	}
	if attr, ok := attrs["rules"]; ok {
		rules, moreDiags := decodeRules(block.Name, attr)
		diags = append(diags, moreDiags...)
		block.Rules = rules
	}

	for _, lo := range b.Body.BlocksOfType("language_options") {
		opts, moreDiags := decodeLanguageOptions(lo.Body)
		diags = append(diags, moreDiags...)
		block.LanguageOptions = opts
	}

	for _, p := range b.Body.BlocksOfType("plugin") {
		info, moreDiags := decodePlugin(p.Body)
		diags = append(diags, moreDiags...)
		if block.Plugins == nil {
			block.Plugins = map[string]flatconfig.PluginInfo{}
		}
		block.Plugins[p.Labels[0]] = info
	}

	return block, diags
}

// decodeRules keeps the source order of the rules object.
func decodeRules(name string, attr *Attribute) (*flatconfig.RuleSet, hcl.Diagnostics) {
	pairs, diags := hcl.ExprMap(attr.Expr)
	if diags.HasErrors() {
		return nil, diags
	}

	rules := flatconfig.NewRuleSet(name)
	for _, pair := range pairs {
		id, moreDiags := decodeKey(pair.Key)
		diags = append(diags, moreDiags...)
		if moreDiags.HasErrors() {
			continue
		}

		v, moreDiags := decodeValue(pair.Value)
		diags = append(diags, moreDiags...)
		if moreDiags.HasErrors() {
			continue
		}

		setting, err := flatconfig.ParseRuleSetting(v)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid rule setting",
				Detail:   fmt.Sprintf("Rule %q: %s.", id, err),
				Subject:  pair.Value.Range().Ptr(),
			})
			continue
		}
		rules.Set(id, setting)
	}
	return rules, diags
}

func decodeLanguageOptions(body *BodyContent) (*flatconfig.LanguageOptions, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	opts := &flatconfig.LanguageOptions{}

	if attr, ok := body.Attributes["parser"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &opts.Parser)...)
	}
	if attr, ok := body.Attributes["ecma_version"]; ok {
		v, moreDiags := decodeValue(attr.Expr)
		diags = append(diags, moreDiags...)
		opts.EcmaVersion = v
	}
	if attr, ok := body.Attributes["source_type"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &opts.SourceType)...)
	}
	if attr, ok := body.Attributes["parser_options"]; ok {
		po, moreDiags := decodeObject(attr.Expr)
		diags = append(diags, moreDiags...)
		opts.ParserOptions = po
	}
	if attr, ok := body.Attributes["globals"]; ok {
		var globals map[string]string
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &globals)...)
		if globals != nil {
			opts.Globals = make(map[string]flatconfig.GlobalAccess, len(globals))
			for k, v := range globals {
				opts.Globals[k] = flatconfig.GlobalAccess(v)
			}
		}
	}

	return opts, diags
}

func decodePlugin(body *BodyContent) (flatconfig.PluginInfo, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var info flatconfig.PluginInfo

	if attr, ok := body.Attributes["package"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &info.Name)...)
	}
	if attr, ok := body.Attributes["version"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &info.Version)...)
	}
	if attr, ok := body.Attributes["rules"]; ok {
		rules, moreDiags := decodeStrings(attr)
		diags = append(diags, moreDiags...)
		info.Rules = rules
	}
	return info, diags
}

func decodeStrings(attr *Attribute) ([]string, hcl.Diagnostics) {
	var out []string
	diags := gohcl.DecodeExpression(attr.Expr, nil, &out)
	return out, diags
}

func decodeKey(expr hcl.Expression) (string, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid rule id",
			Detail:   "Rule ids must be strings.",
			Subject:  expr.Range().Ptr(),
		}}
	}
	return val.AsString(), diags
}

func decodeObject(expr hcl.Expression) (map[string]any, hcl.Diagnostics) {
	v, diags := decodeValue(expr)
	if diags.HasErrors() || v == nil {
		return nil, diags
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   "An object is required.",
			Subject:  expr.Range().Ptr(),
		})
	}
	return m, diags
}

// decodeValue evaluates expr without variables and converts the result to
// the plain Go values produced by encoding/json, with integral numbers as int.
func decodeValue(expr hcl.Expression) (any, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	v, err := ToGo(val)
	if err != nil {
		return nil, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   err.Error(),
			Subject:  expr.Range().Ptr(),
		})
	}
	return v, diags
}

// ToGo converts a cty value to plain Go values: nil, bool, int, float64,
// string, []any and map[string]any.
func ToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	b, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to convert value: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to convert value: %w", err)
	}
	return flatconfig.NormalizeNumbers(out), nil
}
