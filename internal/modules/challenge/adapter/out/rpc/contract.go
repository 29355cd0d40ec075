package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "shakker-sensors"
	serviceName       = "shakker.sensor.v1.SensorFeed"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodReadSamples = "/" + serviceName + "/ReadSamples"

	SensorAccelerometer = "accelerometer"
	SensorLight         = "light"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SHAKKER_PLUGIN",
	MagicCookieValue: "shakker",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Sensors []string `json:"sensors"`
}

type Sample struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Z   float64 `json:"z"`
	Lux float64 `json:"lux"`
}

type ReadSamplesRequest struct {
	Sensor string `json:"sensor"`
	Max    int32  `json:"max"`
}

type ReadSamplesResponse struct {
	Samples   []Sample `json:"samples"`
	Available bool     `json:"available"`
}

type SensorFeedServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	ReadSamples(ctx context.Context, in *ReadSamplesRequest) (*ReadSamplesResponse, error)
}

type SensorFeedClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	ReadSamples(ctx context.Context, in *ReadSamplesRequest) (*ReadSamplesResponse, error)
}

type sensorFeedClient struct {
	conn *grpc.ClientConn
}

func NewSensorFeedClient(conn *grpc.ClientConn) SensorFeedClient {
	return &sensorFeedClient{conn: conn}
}

func (c *sensorFeedClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sensorFeedClient) ReadSamples(ctx context.Context, in *ReadSamplesRequest) (*ReadSamplesResponse, error) {
	out := &ReadSamplesResponse{}
	if err := c.conn.Invoke(ctx, methodReadSamples, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterSensorFeedServer(server grpc.ServiceRegistrar, impl SensorFeedServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*SensorFeedServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "ReadSamples",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &ReadSamplesRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.ReadSamples(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodReadSamples}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*ReadSamplesRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.ReadSamples(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/sensor-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl SensorFeedServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterSensorFeedServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewSensorFeedClient(conn), nil
}

func PluginMap(impl SensorFeedServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
