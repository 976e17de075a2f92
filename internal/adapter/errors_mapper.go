// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// mapSDKError classifies an SDK error for op onto the package sentinels.
// Context cancellation is passed through unclassified.
func mapSDKError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch {
		case isAuthCode(code):
			return fmt.Errorf("%w: %s: %w", ErrAuth, op, err)
		case isTransientCode(code) || apiErr.ErrorFault() == smithy.FaultServer:
			return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
		}
		return &ServiceError{Op: op, Code: code, Message: apiErr.ErrorMessage()}
	}

	if isTransportError(err) {
		return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
	}

	return &ServiceError{Op: op, Message: err.Error()}
}

func isAuthCode(code string) bool {
	switch code {
	case "ExpiredToken", "ExpiredTokenException", "InvalidClientTokenId",
		"UnrecognizedClientException", "InvalidSignatureException",
		"SignatureDoesNotMatch", "RequestExpired", "IncompleteSignature",
		"MissingAuthenticationToken", "MissingAuthenticationTokenException":
		return true
	}
	return false
}

func isTransientCode(code string) bool {
	switch code {
	case "ThrottlingException", "Throttling", "TooManyRequestsException",
		"RequestLimitExceeded", "InternalServerException", "InternalFailure",
		"ServiceUnavailable":
		return true
	}
	return false
}

// isTransportError recognises failures to get a request to the service and
// a response back.
func isTransportError(err error) bool {
	var sendErr *smithyhttp.RequestSendError
	if errors.As(err, &sendErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "no route to host") ||
		strings.Contains(errStr, "broken pipe")
}
