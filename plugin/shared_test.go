package plugin

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

func TestHandshake(t *testing.T) {
	want := plugin.HandshakeConfig{
		ProtocolVersion:  1,
		MagicCookieKey:   "GEMSLINT_PLUGIN_MAGIC_COOKIE",
		MagicCookieValue: "gemslint-provider-v1",
	}
	if Handshake != want {
		t.Errorf("Handshake = %+v, want %+v", Handshake, want)
	}
}

func TestPluginSet(t *testing.T) {
	host, ok := PluginMap[PluginName].(*ProviderPlugin)
	if !ok || len(PluginMap) != 1 {
		t.Fatalf("PluginMap = %v, want a single *ProviderPlugin under %q", PluginMap, PluginName)
	}
	if host.Impl != nil {
		t.Error("host plugin set should carry no provider")
	}

	impl := testProvider()
	served, ok := pluginSet(impl)[PluginName].(*ProviderPlugin)
	if !ok || served.Impl != impl {
		t.Errorf("pluginSet(impl) does not serve impl")
	}
}

func TestClientConfig(t *testing.T) {
	cfg := clientConfig("/opt/providers/acme", hclog.NewNullLogger())

	if cfg.Cmd == nil || cfg.Cmd.Path != "/opt/providers/acme" {
		t.Errorf("Cmd = %v, want /opt/providers/acme", cfg.Cmd)
	}
	if len(cfg.AllowedProtocols) != 1 || cfg.AllowedProtocols[0] != plugin.ProtocolGRPC {
		t.Errorf("AllowedProtocols = %v, want [grpc]", cfg.AllowedProtocols)
	}
	if cfg.HandshakeConfig != Handshake {
		t.Errorf("HandshakeConfig = %+v, want %+v", cfg.HandshakeConfig, Handshake)
	}
	if _, ok := cfg.Plugins[PluginName]; !ok {
		t.Errorf("Plugins missing %q", PluginName)
	}
}
