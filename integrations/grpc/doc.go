// Package grpc provides gRPC server interceptors for JWT authentication.
//
// This package offers both unary and streaming interceptors that verify
// JWTs from gRPC metadata, consult the revocation store, and make the
// verified claims available in the request context.
//
// # Basic Usage
//
//	import (
//	    "context"
//	    "log"
//	    "net"
//	    "os"
//
//	    "google.golang.org/grpc"
//
//	    "github.com/palisade-io/go-jwt-auth/config"
//	    "github.com/palisade-io/go-jwt-auth/core"
//	    jwtgrpc "github.com/palisade-io/go-jwt-auth/integrations/grpc"
//	)
//
//	func main() {
//	    // Resolve configuration from the settings file and defaults.
//	    cfg, err := config.Resolve(os.Getenv("JWT_SECRET"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Build the verification engine.
//	    engine, err := core.NewFromConfig(cfg)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Create the interceptor.
//	    interceptor, err := jwtgrpc.New(engine)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Create a gRPC server with the interceptors installed.
//	    server := grpc.NewServer(
//	        grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	        grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	    )
//
//	    // Register your services...
//	    // pb.RegisterYourServiceServer(server, &yourService{})
//
//	    listener, _ := net.Listen("tcp", ":50051")
//	    server.Serve(listener)
//	}
//
// # Advanced Configuration
//
// Combine multiple options for advanced features:
//
//	import "log/slog"
//
//	interceptor, err := jwtgrpc.New(engine,
//	    jwtgrpc.WithLogger(slog.Default()),
//	    jwtgrpc.WithCredentialsOptional(true),
//	    jwtgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	    jwtgrpc.WithAuthorization(core.RequireAnyRole("editor", "admin")),
//	)
//
// # Claims Retrieval
//
// After the interceptor verifies the token, claims are available in the
// context:
//
//	func (s *server) GetUser(ctx context.Context, req *pb.GetUserRequest) (*pb.User, error) {
//	    claims, err := jwtgrpc.GetClaims(ctx)
//	    if err != nil {
//	        return nil, status.Error(codes.Internal, "failed to get claims")
//	    }
//
//	    userID := claims.Subject
//
//	    // Your business logic...
//	    user := &pb.User{ID: userID}
//	    return user, nil
//	}
//
// Available helper functions:
//   - GetClaims(ctx) - Retrieval with error
//   - MustGetClaims(ctx) - Panics if claims not found (use with caution)
//   - HasClaims(ctx) - Check if claims exist
//
// See the examples directory for complete working examples.
package grpc
