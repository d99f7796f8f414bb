// Package plugin lets rule providers run as separate processes.
//
// A provider binary and the gemslint host meet through go-plugin: the host
// launches the binary with the handshake below in its environment, and both
// sides register the same plugin set so the host can dispense a
// GRPCProviderClient for the gemslint.plugin.v1.Provider service.

package plugin

import (
	"os/exec"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/jokarl/gemslint/flatconfig"
)

// ProtocolVersion is the version of the Provider service. A host refuses
// providers built against a different version.
const ProtocolVersion = 1

// MagicCookieKey and MagicCookieValue are set in the environment of every
// provider process the host starts. Serve checks them to tell a launch by
// gemslint from a user running the binary by hand.
const (
	MagicCookieKey   = "GEMSLINT_PLUGIN_MAGIC_COOKIE"
	MagicCookieValue = "gemslint-provider-v1"
)

// Handshake pairs the protocol version with the magic cookie.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  ProtocolVersion,
	MagicCookieKey:   MagicCookieKey,
	MagicCookieValue: MagicCookieValue,
}

// PluginName is the key the Provider service is dispensed under.
const PluginName = "provider"

// PluginMap is the host's plugin set. It carries no implementation; the host
// only needs GRPCClient.
var PluginMap = pluginSet(nil)

// pluginSet returns the plugin set for a provider process serving impl, or
// for the host when impl is nil.
func pluginSet(impl flatconfig.Provider) plugin.PluginSet {
	return plugin.PluginSet{PluginName: &ProviderPlugin{Impl: impl}}
}

// clientConfig is the go-plugin configuration the host uses to launch the
// provider binary at path over gRPC.
func clientConfig(path string, logger hclog.Logger) *plugin.ClientConfig {
	return &plugin.ClientConfig{
		HandshakeConfig:  Handshake,
		Plugins:          PluginMap,
		Cmd:              exec.Command(path),
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Logger:           logger.Named("plugin"),
	}
}
