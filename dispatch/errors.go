package dispatch

import (
	"errors"
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

var (
	ErrNotRunning       = errors.New("dispatcher is not running")
	ErrAlreadyRunning   = errors.New("dispatcher is already running")
	ErrStreamTerminated = errors.New("stream terminated")
	ErrSessionIdTimeout = errors.New("timeout waiting for session ID")
	ErrStreamNotKnown   = errors.New("stream is not registered")
	ErrCategoryMismatch = errors.New("stream is registered under another category")
)

// ProtocolFault is raised by a dispatch loop when the API reports an error
// inside an otherwise well-formed event message.
type ProtocolFault struct {
	Category Category
	Code     int32
	Message  string

	// Status is the status message exactly as received.
	Status *status.Status
}

func newProtocolFault(category Category, response *Response) *ProtocolFault {

	return &ProtocolFault{
		Category: category,
		Code:     response.Status.GetCode(),
		Message:  response.Status.GetMessage(),
		Status:   response.Status,
	}
}

func (fault *ProtocolFault) Error() string {

	return fmt.Sprintf("%s stream protocol fault (code %d): %s", fault.Category, fault.Code, fault.Message)
}

// GRPCStatus lets google.golang.org/grpc/status.FromError and status.Code
// inspect a fault like any other gRPC error.
func (fault *ProtocolFault) GRPCStatus() *grpcstatus.Status {

	if fault.Status != nil {
		return grpcstatus.FromProto(fault.Status)
	}

	return grpcstatus.New(codes.Code(fault.Code), fault.Message)
}
