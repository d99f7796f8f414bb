package plugin

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/jokarl/gemslint/flatconfig"
)

// ExternalProvider is a provider loaded from a plugin process. The profile is
// fetched once at Open; Close stops the process.
type ExternalProvider struct {
	*flatconfig.BuiltinProvider
	client *plugin.Client
}

// Open starts the provider binary at path and loads its profile.
func Open(ctx context.Context, path string, logger hclog.Logger) (*ExternalProvider, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	client := plugin.NewClient(clientConfig(path, logger))

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to start provider %s: %w", path, err)
	}

	raw, err := rpcClient.Dispense(PluginName)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense provider %s: %w", path, err)
	}

	grpcClient, ok := raw.(*GRPCProviderClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("provider %s: unexpected client type %T", path, raw)
	}

	provider, err := grpcClient.Load(ctx)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("provider %s: %w", path, err)
	}
	logger.Debug("loaded provider", "path", path, "name", provider.Name(), "version", provider.Version())

	return &ExternalProvider{BuiltinProvider: provider, client: client}, nil
}

// Close stops the provider process.
func (p *ExternalProvider) Close() {
	if p != nil && p.client != nil {
		p.client.Kill()
	}
}
