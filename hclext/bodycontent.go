// Package hclext reads configuration blocks authored in HCL.
//
// The schema and content types mirror the github.com/hashicorp/hcl/v2 ones but
// carry nested block bodies, so a whole file can be extracted in one pass and
// then decoded into flatconfig blocks.
//
// Key types:
//   - BodySchema: Defines expected attributes and blocks to extract
//   - BodyContent: Contains extracted attributes and blocks
//   - Attribute: An extracted HCL attribute with expression and range
//   - Block: An extracted HCL block with labels and nested content
package hclext

import (
	"github.com/hashicorp/hcl/v2"
)

// SchemaMode specifies how schema matching behaves.
type SchemaMode int

const (
	// SchemaDefaultMode requires explicitly declared attributes and blocks.
	SchemaDefaultMode SchemaMode = iota
	// SchemaJustAttributesMode extracts all attributes without explicit declaration.
	SchemaJustAttributesMode
)

// BodySchema represents the expected structure of an HCL body.
//
// Example:
//
//	schema := &hclext.BodySchema{
//	    Attributes: []hclext.AttributeSchema{
//	        {Name: "files"},
//	        {Name: "rules"},
//	    },
//	    Blocks: []hclext.BlockSchema{
//	        {Type: "language_options", Body: languageOptionsSchema},
//	    },
//	}
type BodySchema struct {
	// Attributes defines expected attributes.
	Attributes []AttributeSchema
	// Blocks defines expected nested blocks.
	Blocks []BlockSchema
	// Mode specifies schema matching behavior.
	Mode SchemaMode
}

// AttributeSchema represents an expected HCL attribute.
type AttributeSchema struct {
	// Name is the attribute name to match.
	Name string
	// Required indicates if the attribute must be present.
	Required bool
}

// BlockSchema represents an expected HCL block.
type BlockSchema struct {
	// Type is the block type to match (e.g., "block", "plugin").
	Type string
	// LabelNames are the names for block labels (e.g., ["name"]).
	LabelNames []string
	// Body is the schema for the block's body content.
	Body *BodySchema
}

// BodyContent represents extracted content from an HCL body.
type BodyContent struct {
	// Attributes maps attribute names to their content.
	Attributes map[string]*Attribute
	// Blocks contains extracted block content, in source order.
	Blocks []*Block
}

// Attribute represents an extracted HCL attribute.
type Attribute struct {
	// Name is the attribute name.
	Name string
	// Expr is the attribute's value expression.
	Expr hcl.Expression
	// Range is the source range of the entire attribute.
	Range hcl.Range
	// NameRange is the source range of just the attribute name.
	NameRange hcl.Range
}

// Block represents an extracted HCL block.
type Block struct {
	// Type is the block type.
	Type string
	// Labels are the block's label values.
	Labels []string
	// Body is the block's body content.
	Body *BodyContent
	// DefRange is the source range of the block definition.
	DefRange hcl.Range
	// TypeRange is the source range of the block type.
	TypeRange hcl.Range
	// LabelRanges are the source ranges of each label.
	LabelRanges []hcl.Range
}

// BlocksOfType returns the blocks of the given type, in source order.
func (c *BodyContent) BlocksOfType(typ string) []*Block {
	if c == nil {
		return nil
	}
	var out []*Block
	for _, b := range c.Blocks {
		if b.Type == typ {
			out = append(out, b)
		}
	}
	return out
}

// ToHCLBodySchema converts a BodySchema to an hcl.BodySchema.
// Nested block bodies are not part of an hcl.BodySchema; Content handles them.
func ToHCLBodySchema(schema *BodySchema) *hcl.BodySchema {
	if schema == nil {
		return nil
	}

	hclSchema := &hcl.BodySchema{
		Attributes: make([]hcl.AttributeSchema, len(schema.Attributes)),
		Blocks:     make([]hcl.BlockHeaderSchema, len(schema.Blocks)),
	}

	for i, attr := range schema.Attributes {
		hclSchema.Attributes[i] = hcl.AttributeSchema{
			Name:     attr.Name,
			Required: attr.Required,
		}
	}

	for i, block := range schema.Blocks {
		hclSchema.Blocks[i] = hcl.BlockHeaderSchema{
			Type:       block.Type,
			LabelNames: block.LabelNames,
		}
	}

	return hclSchema
}

// Content extracts the content of body according to schema, including the
// bodies of nested blocks.
func Content(body hcl.Body, schema *BodySchema) (*BodyContent, hcl.Diagnostics) {
	if schema == nil {
		schema = &BodySchema{}
	}

	if schema.Mode == SchemaJustAttributesMode {
		attrs, diags := body.JustAttributes()
		bc := &BodyContent{Attributes: make(map[string]*Attribute, len(attrs))}
		for name, attr := range attrs {
			bc.Attributes[name] = FromHCLAttribute(attr)
		}
		return bc, diags
	}

	content, diags := body.Content(ToHCLBodySchema(schema))
	bc := FromHCLBodyContent(content)
	if bc == nil {
		return &BodyContent{Attributes: map[string]*Attribute{}}, diags
	}

	for i, block := range content.Blocks {
		var nested *BodySchema
		for _, bs := range schema.Blocks {
			if bs.Type == block.Type {
				nested = bs.Body
				break
			}
		}
		inner, innerDiags := Content(block.Body, nested)
		diags = append(diags, innerDiags...)
		bc.Blocks[i].Body = inner
	}

	return bc, diags
}

// FromHCLAttribute converts an hcl.Attribute to an Attribute.
func FromHCLAttribute(attr *hcl.Attribute) *Attribute {
	if attr == nil {
		return nil
	}
	return &Attribute{
		Name:      attr.Name,
		Expr:      attr.Expr,
		Range:     attr.Range,
		NameRange: attr.NameRange,
	}
}

// FromHCLBlock converts an hcl.Block to a Block.
// The body is left nil; Content fills it in.
func FromHCLBlock(block *hcl.Block) *Block {
	if block == nil {
		return nil
	}
	return &Block{
		Type:        block.Type,
		Labels:      block.Labels,
		DefRange:    block.DefRange,
		TypeRange:   block.TypeRange,
		LabelRanges: block.LabelRanges,
	}
}

// FromHCLBodyContent converts an hcl.BodyContent to a BodyContent.
// Nested block bodies are left nil.
func FromHCLBodyContent(content *hcl.BodyContent) *BodyContent {
	if content == nil {
		return nil
	}

	bc := &BodyContent{
		Attributes: make(map[string]*Attribute, len(content.Attributes)),
		Blocks:     make([]*Block, len(content.Blocks)),
	}

	for name, attr := range content.Attributes {
		bc.Attributes[name] = FromHCLAttribute(attr)
	}

	for i, block := range content.Blocks {
		bc.Blocks[i] = FromHCLBlock(block)
	}

	return bc
}
