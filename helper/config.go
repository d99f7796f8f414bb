// Package helper provides testing utilities for gemslint configurations.
// Use TestConfig to compose a base configuration with HCL-authored overrides
// and the Assert helpers to check the result.
//
// Example:
//
//	func TestOverrides(t *testing.T) {
//	    cfg := helper.TestConfig(t, gems.Config(), `
//	block "scripts" {
//	  files = ["scripts/**"]
//	  rules = { "no-console" = "off" }
//	}
//	`)
//
//	    helper.AssertRule(t, cfg, "scripts/build.js", "no-console",
//	        flatconfig.Rule(flatconfig.Off))
//	}
package helper

import (
	"fmt"
	"testing"

	"github.com/jokarl/gemslint/flatconfig"
	"github.com/jokarl/gemslint/hclext"
)

// TestConfig composes base followed by each HCL override source, in order.
// Sources that fail to parse fail the test.
func TestConfig(t *testing.T, base flatconfig.Fragment, overrides ...string) *flatconfig.Configuration {
	t.Helper()

	fragments := []flatconfig.Fragment{base}
	for i, src := range overrides {
		name := fmt.Sprintf("override_%d.hcl", i)
		blocks, diags := hclext.Parse([]byte(src), name)
		if diags.HasErrors() {
			t.Fatalf("failed to parse %s: %s", name, diags.Error())
		}
		fragments = append(fragments, flatconfig.Blocks(blocks))
	}

	return flatconfig.Compose(fragments...)
}
