// Package plugin lets rule providers run as separate processes.
//
// A provider binary calls Serve from main(); gemslint starts it with Open and
// treats the result like any other flatconfig.Provider. Communication uses
// gRPC via HashiCorp's go-plugin library.
//
// Example provider main.go:
//
//	package main
//
//	import (
//	    "github.com/jokarl/gemslint/flatconfig"
//	    "github.com/jokarl/gemslint/plugin"
//	)
//
//	func main() {
//	    plugin.Serve(&plugin.ServeOpts{
//	        Provider: &flatconfig.BuiltinProvider{
//	            ProviderName:    "acme",
//	            ProviderVersion: "0.1.0",
//	            Profile:         profile,
//	        },
//	    })
//	}
package plugin

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/jokarl/gemslint/flatconfig"
)

// ServeOpts contains options for serving a provider.
type ServeOpts struct {
	// Provider is the provider implementation.
	Provider flatconfig.Provider
	// Logger receives go-plugin logs. Defaults to a Warn-level stderr logger.
	Logger hclog.Logger
}

// Serve starts the provider server.
//
// The function blocks until the host disconnects. When invoked directly
// (outside of gemslint), it prints a description of the provider and returns.
func Serve(opts *ServeOpts) {
	if opts == nil || opts.Provider == nil {
		return
	}

	if os.Getenv(MagicCookieKey) != MagicCookieValue {
		printDirectInvocationMessage(os.Stderr, opts.Provider)
		return
	}

	logger := opts.Logger
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "provider",
			Level:  hclog.Warn,
			Output: os.Stderr,
		})
	}

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins:         pluginSet(opts.Provider),
		GRPCServer:      plugin.DefaultGRPCServer,
		Logger:          logger,
	})
}

// printDirectInvocationMessage describes the provider when it is run by hand.
func printDirectInvocationMessage(w io.Writer, p flatconfig.Provider) {
	fmt.Fprintf(w, "This is a gemslint rule provider.\n\n")
	fmt.Fprintf(w, "Provider: %s\n", p.Name())
	fmt.Fprintf(w, "Version: %s\n", p.Version())
	fmt.Fprintf(w, "Blocks:\n")
	for i, b := range p.Recommended() {
		if b == nil {
			continue
		}
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("block[%d]", i)
		}
		fmt.Fprintf(w, "  - %s (%d rules)\n", name, b.Rules.Len())
	}
	fmt.Fprintf(w, "\nTo use this provider, list it under plugins in .gemslint.yaml.\n")
}
