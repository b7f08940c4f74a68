package goSignin

import (
	"io"

	internalaudit "github.com/MrEthical07/goSignin/internal/audit"
	"github.com/MrEthical07/goSignin/method"
	"github.com/MrEthical07/goSignin/outcome"
	"github.com/MrEthical07/goSignin/session"
	"github.com/MrEthical07/goSignin/transport"
)

// Outcome is the tagged result of every engine operation.
type Outcome = outcome.Outcome

// Continuation is the caller-held state between sign-in steps.
type Continuation = session.Continuation

// Method is a second-factor method code (1..4).
type Method = method.Method

// TransportState is the bare cookie state of an authenticated session.
type TransportState = transport.State

// AuditEvent is the structured record emitted once per engine operation.
type AuditEvent = internalaudit.Event

// AuditSink receives audit events from the engine's dispatcher.
type AuditSink = internalaudit.Sink

// AuditSinkFunc adapts a function to [AuditSink].
type AuditSinkFunc = internalaudit.SinkFunc

// NoOpSink discards audit events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink delivers audit events on a buffered channel.
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink writes audit events as JSON lines.
type JSONWriterSink = internalaudit.JSONWriterSink

// MultiSink fans audit events out to several sinks.
type MultiSink = internalaudit.MultiSink

// NewChannelSink returns a [ChannelSink] with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a [JSONWriterSink] writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
