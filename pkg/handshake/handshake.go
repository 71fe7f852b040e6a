// Package handshake negotiates a session between a host and a connecting
// client over whatever carrier wraps the mutation buffer (pkg/transport).
// Grounded on the teacher's pkg/protocol ClientHello/ServerHello pair
// (protocol/handshake.go): a client presents a protocol version and an
// optional existing session id to resume; the host replies with a status
// and the session id to use going forward. Adapted from the teacher's
// custom binary wire encoding (its own length-prefixed Encoder/Decoder,
// used because its messages interleave with the binary patch stream on
// the same connection) to plain JSON, since a vireo handshake is a single
// one-shot exchange before any mutation buffer flows, not a frame
// interleaved with the wire protocol's own opcodes (spec §4.9) — JSON
// keeps it readable for the cmd/vireo tooling without inventing a second
// binary codec alongside pkg/mutation's.
package handshake

import "github.com/google/uuid"

// Status mirrors the teacher's HandshakeStatus enum, trimmed to the
// cases a single-runtime-per-session host (spec §5) can actually reach.
type Status uint8

const (
	StatusOK Status = iota
	StatusVersionMismatch
	StatusSessionExpired
	StatusInvalidFormat
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusVersionMismatch:
		return "VersionMismatch"
	case StatusSessionExpired:
		return "SessionExpired"
	case StatusInvalidFormat:
		return "InvalidFormat"
	default:
		return "Unknown"
	}
}

// ProtocolVersion is major.minor, mirroring the teacher's ProtocolVersion.
type ProtocolVersion struct {
	Major uint8 `json:"major"`
	Minor uint8 `json:"minor"`
}

// CurrentVersion is the version this module's wire format (pkg/mutation)
// implements.
var CurrentVersion = ProtocolVersion{Major: 1, Minor: 0}

// ClientHello is the first message a connecting client sends: its
// protocol version, and the session id to resume if it has one (empty
// for a fresh connection).
type ClientHello struct {
	Version   ProtocolVersion `json:"version"`
	SessionID string          `json:"session_id,omitempty"`
	LastSeq   uint32          `json:"last_seq"`
}

// ServerHello is the host's reply: the outcome, and the session id the
// client should present on any future reconnect (a freshly minted one,
// or the resumed one echoed back).
type ServerHello struct {
	Status    Status `json:"status"`
	SessionID string `json:"session_id"`
	NextSeq   uint32 `json:"next_seq"`
}

// Negotiate decides the outcome of a ClientHello against a host-side
// session keyed by sessionID (a Shell's uuid.UUID, stringified) and the
// last sequence number the host has sent. known reports whether
// hello.SessionID names a session the host still has (false for "unknown
// or expired").
//
// A version mismatch always wins, mirroring the teacher's
// HandshakeVersionMismatch short-circuit ahead of session lookup.
func Negotiate(hello ClientHello, sessionID uuid.UUID, nextSeq uint32, known bool) ServerHello {
	if hello.Version.Major != CurrentVersion.Major {
		return ServerHello{Status: StatusVersionMismatch}
	}
	if hello.SessionID != "" && !known {
		return ServerHello{Status: StatusSessionExpired}
	}
	return ServerHello{Status: StatusOK, SessionID: sessionID.String(), NextSeq: nextSeq}
}
