// Package seriesrpc defines the gRPC contract of the series analysis service.
//
// Messages are plain Go structs carried by a JSON codec registered under the
// "json" content-subtype, so clients must dial with
// grpc.CallContentSubtype(seriesrpc.CodecName); NewClient does this for you.
//
// Example Usage
//
//	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
//	client := seriesrpc.NewClient(conn)
//	_, err = client.SelectSeries(ctx, &seriesrpc.SelectSeriesRequest{Choice: 1})
//	avg, err := client.Average(ctx, &seriesrpc.AverageRequest{
//	    Start: "2020-01-01",
//	    End:   "2020-12-01",
//	})
package seriesrpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "ppistats.v1.SeriesService"

const (
	ListSeriesMethod   = "/" + ServiceName + "/ListSeries"
	SelectSeriesMethod = "/" + ServiceName + "/SelectSeries"
	AverageMethod      = "/" + ServiceName + "/Average"
	ExtremesMethod     = "/" + ServiceName + "/Extremes"
	FilterMethod       = "/" + ServiceName + "/Filter"
	LatestMethod       = "/" + ServiceName + "/Latest"
)

// SeriesServiceServer is the server API for the series analysis service
type SeriesServiceServer interface {
	ListSeries(context.Context, *ListSeriesRequest) (*ListSeriesResponse, error)
	SelectSeries(context.Context, *SelectSeriesRequest) (*SelectSeriesResponse, error)
	Average(context.Context, *AverageRequest) (*AverageResponse, error)
	Extremes(context.Context, *ExtremesRequest) (*ExtremesResponse, error)
	Filter(context.Context, *FilterRequest) (*ObservationsResponse, error)
	Latest(context.Context, *LatestRequest) (*ObservationsResponse, error)
}

// RegisterSeriesServiceServer registers srv on s
func RegisterSeriesServiceServer(s grpc.ServiceRegistrar, srv SeriesServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodDesc's handler shape
func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(SeriesServiceServer, context.Context, *Req) (*Resp, error),
) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SeriesServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SeriesServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc is the grpc.ServiceDesc for the series analysis service
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SeriesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListSeries",
			Handler:    unaryHandler(ListSeriesMethod, SeriesServiceServer.ListSeries),
		},
		{
			MethodName: "SelectSeries",
			Handler:    unaryHandler(SelectSeriesMethod, SeriesServiceServer.SelectSeries),
		},
		{
			MethodName: "Average",
			Handler:    unaryHandler(AverageMethod, SeriesServiceServer.Average),
		},
		{
			MethodName: "Extremes",
			Handler:    unaryHandler(ExtremesMethod, SeriesServiceServer.Extremes),
		},
		{
			MethodName: "Filter",
			Handler:    unaryHandler(FilterMethod, SeriesServiceServer.Filter),
		},
		{
			MethodName: "Latest",
			Handler:    unaryHandler(LatestMethod, SeriesServiceServer.Latest),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// Client is the client API for the series analysis service
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListSeries(ctx context.Context, in *ListSeriesRequest, opts ...grpc.CallOption) (*ListSeriesResponse, error) {
	return invoke[ListSeriesResponse](ctx, c.cc, ListSeriesMethod, in, opts)
}

func (c *Client) SelectSeries(ctx context.Context, in *SelectSeriesRequest, opts ...grpc.CallOption) (*SelectSeriesResponse, error) {
	return invoke[SelectSeriesResponse](ctx, c.cc, SelectSeriesMethod, in, opts)
}

func (c *Client) Average(ctx context.Context, in *AverageRequest, opts ...grpc.CallOption) (*AverageResponse, error) {
	return invoke[AverageResponse](ctx, c.cc, AverageMethod, in, opts)
}

func (c *Client) Extremes(ctx context.Context, in *ExtremesRequest, opts ...grpc.CallOption) (*ExtremesResponse, error) {
	return invoke[ExtremesResponse](ctx, c.cc, ExtremesMethod, in, opts)
}

func (c *Client) Filter(ctx context.Context, in *FilterRequest, opts ...grpc.CallOption) (*ObservationsResponse, error) {
	return invoke[ObservationsResponse](ctx, c.cc, FilterMethod, in, opts)
}

func (c *Client) Latest(ctx context.Context, in *LatestRequest, opts ...grpc.CallOption) (*ObservationsResponse, error) {
	return invoke[ObservationsResponse](ctx, c.cc, LatestMethod, in, opts)
}
