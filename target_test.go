package censusstream

import (
	"testing"
	"time"
)

// TestStreamURL tests connection target derivation
func TestStreamURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		namespace Namespace
		serviceID string
		want      string
	}{
		{NamespacePC, "example", "wss://push.planetside2.com/streaming?environment=ps2:v2&service-id=s:example"},
		{NamespacePS4US, "abc123", "wss://push.planetside2.com/streaming?environment=ps2ps4us:v2&service-id=s:abc123"},
		{NamespacePS4EU, "", "wss://push.planetside2.com/streaming?environment=ps2ps4eu:v2&service-id=s:"},
	}

	for _, tt := range tests {
		tt := tt // per-iteration copy (go directive < 1.22)
		t.Run(string(tt.namespace), func(t *testing.T) {
			t.Parallel()

			got := StreamURL(tt.namespace, tt.serviceID)
			if got != tt.want {
				t.Errorf("StreamURL() = %q, want %q", got, tt.want)
			}
			// Derivation is pure
			if again := StreamURL(tt.namespace, tt.serviceID); again != got {
				t.Errorf("StreamURL() not deterministic: %q != %q", again, got)
			}
		})
	}
}

func TestStreamURLFor(t *testing.T) {
	t.Parallel()

	got := StreamURLFor("ws://127.0.0.1:8080/streaming", NamespacePC, "x")
	want := "ws://127.0.0.1:8080/streaming?environment=ps2:v2&service-id=s:x"
	if got != want {
		t.Errorf("StreamURLFor() = %q, want %q", got, want)
	}
}

func TestNamespaceValid(t *testing.T) {
	t.Parallel()

	for _, ns := range []Namespace{NamespacePC, NamespacePS4US, NamespacePS4EU} {
		if !ns.Valid() {
			t.Errorf("%q should be valid", ns)
		}
	}
	if Namespace("ps2:v1").Valid() {
		t.Error("ps2:v1 should not be valid")
	}
}

func TestApplySubscribeOptions(t *testing.T) {
	t.Parallel()

	o := ApplySubscribeOptions()
	if len(o.Characters) != 1 || o.Characters[0] != CharactersAll {
		t.Errorf("default characters = %v, want [all]", o.Characters)
	}
	if o.LogicalAndCharactersWithWorlds {
		t.Error("logical-and should default to false")
	}

	o = ApplySubscribeOptions(nil, WithCharacters("1", "2"), WithLogicalAndCharactersWithWorlds(true))
	if len(o.Characters) != 2 || !o.LogicalAndCharactersWithWorlds {
		t.Errorf("options not applied: %+v", o)
	}
}

func TestNewPayload(t *testing.T) {
	t.Parallel()

	for _, name := range EventNames {
		p := NewPayload(name)
		if _, unknown := p.(*UnknownPayload); unknown {
			t.Errorf("%s has no typed payload", name)
		}
	}

	if _, ok := NewPayload("Nope").(*UnknownPayload); !ok {
		t.Error("unknown names should yield *UnknownPayload")
	}
	if EventName("Nope").Known() {
		t.Error("Nope should not be known")
	}
}

func TestPayloadTime(t *testing.T) {
	t.Parallel()

	p := PayloadBase{Timestamp: "1700000000"}
	got, err := p.Time()
	if err != nil {
		t.Fatalf("Time() error = %v", err)
	}
	if want := time.Unix(1700000000, 0).UTC(); !got.Equal(want) {
		t.Errorf("Time() = %v, want %v", got, want)
	}

	p.Timestamp = "soon"
	if _, err := p.Time(); err == nil {
		t.Error("Time() should fail on a non-numeric timestamp")
	}
}
