package quicserve

import (
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"net"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/quic-go/quic-go"

	"github.com/leynos/env-debug-mcp/idgen"
	"github.com/leynos/env-debug-mcp/kit"
)

// Handler serves individual MCP-over-QUIC connections. The SDK owns the
// JSON-RPC read/write loop; the handler validates the preamble, enriches the
// context with session identity, and waits for the session to end.
type Handler struct {
	mcpServer *mcp.Server
	logger    *slog.Logger
	newID     idgen.Generator
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithSessionIDGenerator sets a custom ID generator for session IDs.
func WithSessionIDGenerator(gen idgen.Generator) HandlerOption {
	return func(h *Handler) { h.newID = gen }
}

// NewHandler creates an MCP connection handler.
func NewHandler(mcpSrv *mcp.Server, logger *slog.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		mcpServer: mcpSrv,
		logger:    logger,
		newID:     idgen.Prefixed("quic_", idgen.NanoID(8)),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// ServeConn handles a single QUIC connection as one MCP session.
func (h *Handler) ServeConn(ctx context.Context, conn *quic.Conn) {
	remote := conn.RemoteAddr().String()

	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		h.logger.Error("QUIC accept stream failed", "remote", remote, "error", err)
		conn.CloseWithError(ConnErrorProtocolViolation, "stream accept failed")
		return
	}

	if err := ValidateMagicBytes(stream); err != nil {
		h.logger.Error("QUIC magic bytes invalid", "remote", remote, "error", err)
		stream.CancelWrite(StreamErrorProtocolConfusion)
		stream.CancelRead(StreamErrorProtocolConfusion)
		conn.CloseWithError(ConnErrorProtocolViolation, "invalid magic bytes")
		return
	}

	sessionID := h.newID()
	h.logger.Info("QUIC session starting", "session", sessionID, "remote", remote)

	// Session identity travels in the context so audit sees it.
	ctx = kit.WithTransport(ctx, "quic")
	ctx = kit.WithSessionID(ctx, sessionID)
	ctx = kit.WithRemoteAddr(ctx, remote)

	transport := &serverStreamTransport{stream: stream, sessionID: sessionID}
	ss, err := h.mcpServer.Connect(ctx, transport, nil)
	if err != nil {
		h.logger.Error("QUIC MCP connect failed", "session", sessionID, "error", err)
		stream.Close()
		return
	}

	if err := ss.Wait(); err != nil {
		h.logger.Debug("QUIC session wait", "session", sessionID, "error", err)
	}
	h.logger.Info("QUIC session ended", "session", sessionID, "remote", remote)
}

// Listener accepts MCP-over-QUIC connections and dispatches them to a shared
// MCP server.
type Listener struct {
	listener *quic.Listener
	handler  *Handler
	logger   *slog.Logger
}

// NewListener opens a QUIC listener on addr.
func NewListener(addr string, tlsCfg *tls.Config, mcpSrv *mcp.Server, logger *slog.Logger, opts ...HandlerOption) (*Listener, error) {
	if logger == nil {
		logger = slog.Default()
	}
	l, err := quic.ListenAddr(addr, tlsCfg, ProductionQUICConfig())
	if err != nil {
		return nil, err
	}
	logger.Info("QUIC transport listening", "addr", l.Addr().String())
	return &Listener{
		listener: l,
		handler:  NewHandler(mcpSrv, logger, opts...),
		logger:   logger,
	}, nil
}

// Addr returns the bound address, useful with ":0" listeners.
func (l *Listener) Addr() net.Addr { return l.listener.Addr() }

// Serve accepts connections until ctx is cancelled.
func (l *Listener) Serve(ctx context.Context) error {
	for {
		conn, err := l.listener.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Error("QUIC accept error", "error", err)
			continue
		}

		alpn := conn.ConnectionState().TLS.NegotiatedProtocol
		if alpn != ALPNProtocolMCP {
			conn.CloseWithError(ConnErrorUnsupportedALPN, "unsupported ALPN: "+alpn)
			continue
		}

		go l.handler.ServeConn(ctx, conn)
	}
}

// Close stops accepting connections.
func (l *Listener) Close() error {
	return l.listener.Close()
}

// serverStreamTransport adapts a server-side QUIC stream to mcp.Transport.
type serverStreamTransport struct {
	stream    *quic.Stream
	sessionID string
}

func (t *serverStreamTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	iot := &mcp.IOTransport{
		Reader: io.NopCloser(t.stream),
		Writer: streamWriteCloser{t.stream},
	}
	conn, err := iot.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return &sessionConn{Connection: conn, id: t.sessionID}, nil
}

// sessionConn overrides the underlying connection's empty session ID.
type sessionConn struct {
	mcp.Connection
	id string
}

func (c *sessionConn) SessionID() string { return c.id }

// streamWriteCloser adapts a *quic.Stream to io.WriteCloser.
type streamWriteCloser struct{ stream *quic.Stream }

func (w streamWriteCloser) Write(p []byte) (int, error) { return w.stream.Write(p) }
func (w streamWriteCloser) Close() error                { return w.stream.Close() }
