// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package catchup

import (
	"context"

	"google.golang.org/grpc"
)

const (
	serviceName = "coresync.catchup.v1.CatchupService"

	getStoreIDMethod       = "/" + serviceName + "/GetStoreId"
	getCoreSnapshotMethod  = "/" + serviceName + "/GetCoreSnapshot"
	pullTransactionsMethod = "/" + serviceName + "/PullTransactions"
	copyStoreMethod        = "/" + serviceName + "/CopyStore"
)

type catchupServer interface {
	GetStoreID(context.Context, *GetStoreIDRequest) (*GetStoreIDResponse, error)
	GetCoreSnapshot(context.Context, *GetCoreSnapshotRequest) (*GetCoreSnapshotResponse, error)
	PullTransactions(*PullTransactionsRequest, grpc.ServerStream) error
	CopyStore(*CopyStoreRequest, grpc.ServerStream) error
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*catchupServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStoreId", Handler: getStoreIDHandler},
		{MethodName: "GetCoreSnapshot", Handler: getCoreSnapshotHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "PullTransactions", Handler: pullTransactionsHandler, ServerStreams: true},
		{StreamName: "CopyStore", Handler: copyStoreHandler, ServerStreams: true},
	},
}

var (
	pullTransactionsStreamDesc = &serviceDesc.Streams[0]
	copyStoreStreamDesc        = &serviceDesc.Streams[1]
)

func getStoreIDHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetStoreIDRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(catchupServer).GetStoreID(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getStoreIDMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(catchupServer).GetStoreID(ctx, req.(*GetStoreIDRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getCoreSnapshotHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetCoreSnapshotRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(catchupServer).GetCoreSnapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getCoreSnapshotMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(catchupServer).GetCoreSnapshot(ctx, req.(*GetCoreSnapshotRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func pullTransactionsHandler(srv any, stream grpc.ServerStream) error {
	in := new(PullTransactionsRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(catchupServer).PullTransactions(in, stream)
}

func copyStoreHandler(srv any, stream grpc.ServerStream) error {
	in := new(CopyStoreRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(catchupServer).CopyStore(in, stream)
}
