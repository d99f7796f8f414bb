package flatconfig

// Fragment is one entry in the ordered input of Compose. Literal blocks are
// fragments, and Recommended turns a Provider into one.
type Fragment interface {
	// Blocks returns the blocks contributed by the fragment, in order.
	Blocks() []*ConfigBlock
}

// Provider is a rule-provider bundle: an external package that ships rules and
// a conventional "recommended" profile. The composer treats the profile as an
// opaque list of blocks and never inspects the rules inside it.
//
// Providers typically embed BuiltinProvider.
//
// Example:
//
//	type ReactProvider struct {
//	    flatconfig.BuiltinProvider
//	}
//
//	p := &ReactProvider{
//	    BuiltinProvider: flatconfig.BuiltinProvider{
//	        ProviderName:    "eslint-plugin-react",
//	        ProviderVersion: "7.37.0",
//	        Profile:         []*flatconfig.ConfigBlock{reactRecommended},
//	    },
//	}
type Provider interface {
	// Name returns the provider name (e.g., "eslint-plugin-react").
	Name() string

	// Version returns the provider version.
	Version() string

	// Recommended returns the recommended profile blocks, in order.
	Recommended() []*ConfigBlock
}

// BuiltinProvider provides a default Provider implementation backed by a
// static profile.
type BuiltinProvider struct {
	// ProviderName is the provider name.
	ProviderName string
	// ProviderVersion is the provider version.
	ProviderVersion string
	// Profile is the recommended profile.
	Profile []*ConfigBlock
}

// Name returns the provider name.
func (p *BuiltinProvider) Name() string {
	return p.ProviderName
}

// Version returns the provider version.
func (p *BuiltinProvider) Version() string {
	return p.ProviderVersion
}

// Recommended returns the recommended profile.
func (p *BuiltinProvider) Recommended() []*ConfigBlock {
	return p.Profile
}

// Clone returns a deep copy of the provider and its profile.
func (p *BuiltinProvider) Clone() *BuiltinProvider {
	if p == nil {
		return nil
	}
	out := &BuiltinProvider{ProviderName: p.ProviderName, ProviderVersion: p.ProviderVersion}
	if p.Profile != nil {
		out.Profile = make([]*ConfigBlock, len(p.Profile))
		for i, b := range p.Profile {
			out.Profile[i] = b.Clone()
		}
	}
	return out
}

// RuleNames returns every rule id set anywhere in the profile, in first-seen order.
func (p *BuiltinProvider) RuleNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, b := range p.Profile {
		for _, id := range b.Rules.IDs() {
			if !seen[id] {
				seen[id] = true
				names = append(names, id)
			}
		}
	}
	return names
}

type recommended struct {
	p Provider
}

// Recommended returns a Fragment that contributes the provider's recommended
// profile. The profile is read when the fragment is composed.
func Recommended(p Provider) Fragment {
	return recommended{p: p}
}

func (r recommended) Blocks() []*ConfigBlock {
	if r.p == nil {
		return nil
	}
	return r.p.Recommended()
}

// Blocks groups literal blocks into a single Fragment.
type Blocks []*ConfigBlock

// Blocks returns the grouped blocks.
func (bs Blocks) Blocks() []*ConfigBlock {
	return bs
}
