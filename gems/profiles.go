package gems

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jokarl/gemslint/flatconfig"
)

//go:embed profiles/*.yaml
var profileFS embed.FS

// profile is the on-disk form of a bundled provider.
type profile struct {
	Name    string                    `yaml:"name"`
	Version string                    `yaml:"version"`
	Blocks  []*flatconfig.ConfigBlock `yaml:"blocks"`
}

// The bundled rule providers. They are never handed out; the exported
// accessors return copies.
var (
	javascript    = mustLoadProvider("eslint-js.yaml")
	typescript    = mustLoadProvider("typescript-eslint.yaml")
	react         = mustLoadProvider("react.yaml")
	accessibility = mustLoadProvider("jsx-a11y.yaml")
	jsdoc         = mustLoadProvider("jsdoc.yaml")
)

// JavaScript returns the @eslint/js recommended profile.
func JavaScript() *flatconfig.BuiltinProvider { return javascript.Clone() }

// TypeScript returns the typescript-eslint recommended profile.
func TypeScript() *flatconfig.BuiltinProvider { return typescript.Clone() }

// React returns the eslint-plugin-react and react-hooks recommended profile.
func React() *flatconfig.BuiltinProvider { return react.Clone() }

// Accessibility returns the eslint-plugin-jsx-a11y recommended profile.
func Accessibility() *flatconfig.BuiltinProvider { return accessibility.Clone() }

// JSDoc returns the eslint-plugin-jsdoc recommended profile.
func JSDoc() *flatconfig.BuiltinProvider { return jsdoc.Clone() }

// Providers returns copies of the bundled providers in composition order.
func Providers() []*flatconfig.BuiltinProvider {
	return []*flatconfig.BuiltinProvider{JavaScript(), TypeScript(), React(), Accessibility(), JSDoc()}
}

// LoadProvider decodes a provider profile in the bundled YAML format.
func LoadProvider(data []byte) (*flatconfig.BuiltinProvider, error) {
	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("profile has no name")
	}
	return &flatconfig.BuiltinProvider{
		ProviderName:    p.Name,
		ProviderVersion: p.Version,
		Profile:         p.Blocks,
	}, nil
}

func mustLoadProvider(file string) *flatconfig.BuiltinProvider {
	data, err := profileFS.ReadFile("profiles/" + file)
	if err != nil {
		panic(fmt.Sprintf("gems: %s: %v", file, err))
	}
	p, err := LoadProvider(data)
	if err != nil {
		panic(fmt.Sprintf("gems: %s: %v", file, err))
	}
	return p
}
