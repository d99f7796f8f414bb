package plugin

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jokarl/gemslint/flatconfig"
)

// ServiceName is the fully qualified name of the provider gRPC service.
//
// The service is declared by hand rather than generated. Requests are
// google.protobuf.Empty; Meta answers with a google.protobuf.Struct holding
// "name" and "version", Recommended with a google.protobuf.ListValue of
// blocks in their JSON form.
const ServiceName = "gemslint.plugin.v1.Provider"

const (
	metaMethod        = "/" + ServiceName + "/Meta"
	recommendedMethod = "/" + ServiceName + "/Recommended"
)

// ProviderServer is the server API of the provider service.
type ProviderServer interface {
	Meta(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Recommended(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

// RegisterProviderServer registers srv on s.
func RegisterProviderServer(s grpc.ServiceRegistrar, srv ProviderServer) {
	s.RegisterService(&providerServiceDesc, srv)
}

var providerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProviderServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Meta", Handler: metaHandler},
		{MethodName: "Recommended", Handler: recommendedHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gemslint/plugin/provider",
}

func metaHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProviderServer).Meta(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: metaMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProviderServer).Meta(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func recommendedHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProviderServer).Recommended(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: recommendedMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProviderServer).Recommended(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// providerClient is the client API of the provider service.
type providerClient struct {
	cc grpc.ClientConnInterface
}

func (c *providerClient) Meta(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, metaMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *providerClient) Recommended(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, recommendedMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// toProtoBlocks converts blocks to a ListValue through their JSON form.
func toProtoBlocks(blocks []*flatconfig.ConfigBlock) (*structpb.ListValue, error) {
	if blocks == nil {
		blocks = []*flatconfig.ConfigBlock{}
	}
	data, err := json.Marshal(blocks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode blocks: %w", err)
	}
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to encode blocks: %w", err)
	}
	list, err := structpb.NewList(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode blocks: %w", err)
	}
	return list, nil
}

// fromProtoBlocks is the inverse of toProtoBlocks. Integral numbers come back
// as int, the same as in locally authored profiles.
func fromProtoBlocks(list *structpb.ListValue) ([]*flatconfig.ConfigBlock, error) {
	data, err := json.Marshal(list.AsSlice())
	if err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}
	var blocks []*flatconfig.ConfigBlock
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}
	for _, b := range blocks {
		normalizeBlock(b)
	}
	return blocks, nil
}

// normalizeBlock restores int values in the free-form parts of a block.
// Rule options are normalized by RuleSetting.UnmarshalJSON.
func normalizeBlock(b *flatconfig.ConfigBlock) {
	if b == nil {
		return
	}
	flatconfig.NormalizeNumbers(b.Settings)
	if lo := b.LanguageOptions; lo != nil {
		lo.EcmaVersion = flatconfig.NormalizeNumbers(lo.EcmaVersion)
		flatconfig.NormalizeNumbers(lo.ParserOptions)
	}
}
