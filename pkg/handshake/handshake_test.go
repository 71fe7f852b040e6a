package handshake

import (
	"testing"

	"github.com/google/uuid"
)

func TestNegotiateFreshSession(t *testing.T) {
	id := uuid.New()
	hello := ClientHello{Version: CurrentVersion}

	got := Negotiate(hello, id, 0, false)
	if got.Status != StatusOK {
		t.Fatalf("Status = %v, want StatusOK", got.Status)
	}
	if got.SessionID != id.String() {
		t.Fatalf("SessionID = %q, want %q", got.SessionID, id.String())
	}
}

func TestNegotiateResumeKnownSession(t *testing.T) {
	id := uuid.New()
	hello := ClientHello{Version: CurrentVersion, SessionID: id.String(), LastSeq: 7}

	got := Negotiate(hello, id, 8, true)
	if got.Status != StatusOK {
		t.Fatalf("Status = %v, want StatusOK", got.Status)
	}
	if got.NextSeq != 8 {
		t.Fatalf("NextSeq = %d, want 8", got.NextSeq)
	}
}

func TestNegotiateUnknownSessionIsExpired(t *testing.T) {
	id := uuid.New()
	hello := ClientHello{Version: CurrentVersion, SessionID: "stale-session"}

	got := Negotiate(hello, id, 0, false)
	if got.Status != StatusSessionExpired {
		t.Fatalf("Status = %v, want StatusSessionExpired", got.Status)
	}
}

func TestNegotiateVersionMismatchWins(t *testing.T) {
	id := uuid.New()
	hello := ClientHello{
		Version:   ProtocolVersion{Major: CurrentVersion.Major + 1},
		SessionID: "stale-session",
	}

	got := Negotiate(hello, id, 0, false)
	if got.Status != StatusVersionMismatch {
		t.Fatalf("Status = %v, want StatusVersionMismatch", got.Status)
	}
}

func TestStatusStringUnknown(t *testing.T) {
	if got := Status(99).String(); got != "Unknown" {
		t.Fatalf("String() = %q, want %q", got, "Unknown")
	}
}
