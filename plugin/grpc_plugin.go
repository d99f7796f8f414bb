// Package plugin lets rule providers run as separate processes.
//
// This file implements the go-plugin GRPCPlugin interface, which bridges
// the flatconfig.Provider interface with the provider gRPC service.

package plugin

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jokarl/gemslint/flatconfig"
)

// callTimeout bounds each call made through the flatconfig.Provider methods.
const callTimeout = 30 * time.Second

// Ensure ProviderPlugin implements plugin.GRPCPlugin.
var _ plugin.GRPCPlugin = (*ProviderPlugin)(nil)

// ProviderPlugin is the implementation of plugin.GRPCPlugin for the Provider service.
// This is used by both the host (to create a client) and the provider (to create a server).
type ProviderPlugin struct {
	plugin.Plugin
	// Impl is the concrete provider.
	// Only used when serving (provider side).
	Impl flatconfig.Provider
}

// GRPCServer is called by the provider process to register the gRPC server.
func (p *ProviderPlugin) GRPCServer(broker *plugin.GRPCBroker, s *grpc.Server) error {
	RegisterProviderServer(s, &GRPCProviderServer{impl: p.Impl})
	return nil
}

// GRPCClient is called by the host to create a gRPC client.
func (p *ProviderPlugin) GRPCClient(ctx context.Context, broker *plugin.GRPCBroker, c *grpc.ClientConn) (interface{}, error) {
	return &GRPCProviderClient{client: &providerClient{cc: c}}, nil
}

// =============================================================================
// GRPCProviderServer - Provider side
// =============================================================================

// GRPCProviderServer wraps a flatconfig.Provider to implement ProviderServer.
type GRPCProviderServer struct {
	impl flatconfig.Provider
}

// Meta returns the provider name and version.
func (s *GRPCProviderServer) Meta(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if s.impl == nil {
		return nil, status.Error(codes.Unavailable, "no provider registered")
	}
	return structpb.NewStruct(map[string]any{
		"name":    s.impl.Name(),
		"version": s.impl.Version(),
	})
}

// Recommended returns the provider's recommended profile.
func (s *GRPCProviderServer) Recommended(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	if s.impl == nil {
		return nil, status.Error(codes.Unavailable, "no provider registered")
	}
	list, err := toProtoBlocks(s.impl.Recommended())
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return list, nil
}

// =============================================================================
// GRPCProviderClient - Host side (implements flatconfig.Provider)
// =============================================================================

// Ensure GRPCProviderClient implements flatconfig.Provider.
var _ flatconfig.Provider = (*GRPCProviderClient)(nil)

// GRPCProviderClient calls a provider running in another process.
// The flatconfig.Provider methods swallow transport errors; use Load to
// observe them.
type GRPCProviderClient struct {
	client *providerClient
}

// Name returns the provider name, or "" if the call fails.
func (c *GRPCProviderClient) Name() string {
	name, _, _ := c.meta()
	return name
}

// Version returns the provider version, or "" if the call fails.
func (c *GRPCProviderClient) Version() string {
	_, version, _ := c.meta()
	return version
}

// Recommended returns the recommended profile, or nil if the call fails.
func (c *GRPCProviderClient) Recommended() []*flatconfig.ConfigBlock {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	blocks, err := c.recommended(ctx)
	if err != nil {
		return nil
	}
	return blocks
}

// Load fetches the provider metadata and profile once and returns them as a
// local provider.
func (c *GRPCProviderClient) Load(ctx context.Context) (*flatconfig.BuiltinProvider, error) {
	resp, err := c.client.Meta(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch provider metadata: %w", err)
	}
	blocks, err := c.recommended(ctx)
	if err != nil {
		return nil, err
	}

	fields := resp.GetFields()
	return &flatconfig.BuiltinProvider{
		ProviderName:    fields["name"].GetStringValue(),
		ProviderVersion: fields["version"].GetStringValue(),
		Profile:         blocks,
	}, nil
}

func (c *GRPCProviderClient) meta() (name, version string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	resp, err := c.client.Meta(ctx, &emptypb.Empty{})
	if err != nil {
		return "", "", err
	}
	fields := resp.GetFields()
	return fields["name"].GetStringValue(), fields["version"].GetStringValue(), nil
}

func (c *GRPCProviderClient) recommended(ctx context.Context) ([]*flatconfig.ConfigBlock, error) {
	resp, err := c.client.Recommended(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommended profile: %w", err)
	}
	return fromProtoBlocks(resp)
}
