// Package tools declares the catalog of local functions the financial coach
// model may invoke, and executes them against the ledger.
package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/exedev/fincoach/internal/llm"
)

// ErrUnknownTool is returned when a requested tool name is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is a named, schema-described function the model may request.
// Results must be JSON-serializable; tools that derive every numeric fact
// from a live ledger call mark their result with "verified": true.
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}
	Execute(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error)
}

// Catalog is the fixed tool registry. It is immutable after construction;
// there is no dynamic registration.
type Catalog struct {
	order []string
	tools map[string]Tool
}

// NewCatalog builds a catalog from the given tools. Duplicate names panic:
// the tool set is process-wide static configuration and a collision is a
// programming error.
func NewCatalog(tools ...Tool) *Catalog {
	c := &Catalog{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if _, dup := c.tools[t.Name()]; dup {
			panic(fmt.Sprintf("tools: duplicate tool %q", t.Name()))
		}
		c.tools[t.Name()] = t
		c.order = append(c.order, t.Name())
	}
	return c
}

// Resolve returns the tool registered under name.
func (c *Catalog) Resolve(name string) (Tool, error) {
	t, ok := c.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// Defs returns the machine-readable definitions for every tool, in
// registration order.
func (c *Catalog) Defs() []llm.ToolDef {
	defs := make([]llm.ToolDef, 0, len(c.order))
	for _, name := range c.order {
		t := c.tools[name]
		defs = append(defs, llm.ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return defs
}

// Names returns the registered tool names in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
