// Package quicserve carries MCP sessions over QUIC streams. Each connection
// negotiates the MCP ALPN, opens one bidirectional stream, sends a fixed
// magic preamble, and then speaks plain JSON-RPC over the stream via the
// SDK's IOTransport.
package quicserve

import (
	"errors"
	"fmt"
	"io"

	"github.com/quic-go/quic-go"
)

// ALPNProtocolMCP is the TLS ALPN token for MCP-over-QUIC.
const ALPNProtocolMCP = "mcp/1"

// MagicBytesMCP is the stream preamble sent by clients before any JSON-RPC
// traffic, so a server can reject protocol confusion before parsing.
const MagicBytesMCP = "MCP1"

// Application-level connection close codes.
const (
	ConnErrorNoError           quic.ApplicationErrorCode = 0
	ConnErrorUnsupportedALPN   quic.ApplicationErrorCode = 1
	ConnErrorProtocolViolation quic.ApplicationErrorCode = 2
)

// StreamErrorProtocolConfusion cancels a stream whose preamble was wrong.
const StreamErrorProtocolConfusion quic.StreamErrorCode = 1

// ErrInvalidMagicBytes is returned when a stream does not start with
// MagicBytesMCP.
var ErrInvalidMagicBytes = errors.New("quicserve: invalid magic bytes")

// ErrUnsupportedALPN is returned when the peer negotiated a different ALPN.
var ErrUnsupportedALPN = errors.New("quicserve: unsupported ALPN")

// SendMagicBytes writes the stream preamble.
func SendMagicBytes(w io.Writer) error {
	if _, err := io.WriteString(w, MagicBytesMCP); err != nil {
		return fmt.Errorf("quicserve: send magic bytes: %w", err)
	}
	return nil
}

// ValidateMagicBytes reads and checks the stream preamble.
func ValidateMagicBytes(r io.Reader) error {
	buf := make([]byte, len(MagicBytesMCP))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("quicserve: read magic bytes: %w", err)
	}
	if string(buf) != MagicBytesMCP {
		return fmt.Errorf("%w: got %q", ErrInvalidMagicBytes, buf)
	}
	return nil
}

// ProductionQUICConfig returns the QUIC settings used by both ends: a bounded
// idle timeout and keep-alives so half-dead sessions are reaped.
func ProductionQUICConfig() *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:  defaultIdleTimeout,
		KeepAlivePeriod: defaultKeepAlive,
	}
}
