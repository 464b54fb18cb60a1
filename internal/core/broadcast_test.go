package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/junnushon/voice-chat/internal/domain"
)

func joinAll(t *testing.T, h *Hub, id domain.RoomID, conns map[domain.MemberID]*fakeConn) {
	t.Helper()
	for m, c := range conns {
		if err := h.Join(id, m, "", c); err != nil {
			t.Fatalf("join %s: %v", m, err)
		}
	}
}

func TestPublishSkipsSender(t *testing.T) {
	h := newTestHub(t, time.Minute, time.Minute)
	room, err := h.CreateRoom("room", "", false)
	if err != nil {
		t.Fatal(err)
	}
	sender := &fakeConn{}
	peer := &fakeConn{}
	joinAll(t, h, room.ID, map[domain.MemberID]*fakeConn{"a": sender, "b": peer})

	res := h.Publish(room.ID, sender, Frame(`{"type":"chat","text":"hi"}`))
	if res.SentTo != 1 || res.Dropped != 0 {
		t.Fatalf("result %+v, want 1 sent 0 dropped", res)
	}
	if len(peer.sent()) != 1 {
		t.Error("peer did not receive the frame")
	}
	if len(sender.sent()) != 0 {
		t.Error("frame echoed back to sender")
	}
}

func TestPublishToleratesDeliveryFailure(t *testing.T) {
	h := newTestHub(t, time.Minute, time.Minute)
	room, err := h.CreateRoom("room", "", false)
	if err != nil {
		t.Fatal(err)
	}
	sender := &fakeConn{}
	broken := &fakeConn{fail: true}
	healthy := &fakeConn{}
	joinAll(t, h, room.ID, map[domain.MemberID]*fakeConn{"a": sender, "b": broken, "c": healthy})

	res := h.Publish(room.ID, sender, Frame(`{"type":"chat","text":"hi"}`))
	if res.SentTo != 1 || res.Dropped != 1 {
		t.Fatalf("result %+v, want 1 sent 1 dropped", res)
	}
	if len(healthy.sent()) != 1 {
		t.Error("healthy recipient skipped after a failure")
	}
}

func TestPublishDropsMalformedFrame(t *testing.T) {
	h := newTestHub(t, time.Minute, time.Minute)
	room, err := h.CreateRoom("room", "", false)
	if err != nil {
		t.Fatal(err)
	}
	sender := &fakeConn{}
	peer := &fakeConn{}
	joinAll(t, h, room.ID, map[domain.MemberID]*fakeConn{"a": sender, "b": peer})

	res := h.Publish(room.ID, sender, Frame("definitely not json"))
	if res.SentTo != 0 {
		t.Fatalf("malformed frame delivered: %+v", res)
	}
	if len(peer.sent()) != 0 {
		t.Error("peer received malformed frame")
	}
	if sender.isClosed() {
		t.Error("sender closed over a malformed frame")
	}
	// The sender's membership survives too.
	if got := h.MemberCount(room.ID); got != 2 {
		t.Errorf("member count %d, want 2", got)
	}
}

func TestPublishNormalizesChatFrames(t *testing.T) {
	h := newTestHub(t, time.Minute, time.Minute)
	room, err := h.CreateRoom("room", "", false)
	if err != nil {
		t.Fatal(err)
	}
	sender := &fakeConn{}
	peer := &fakeConn{}
	joinAll(t, h, room.ID, map[domain.MemberID]*fakeConn{"a": sender, "b": peer})

	in := `{"type":"chat","text":"hi there","n":123456789012345678,"nested":{"k":[1,2,3]}}`
	h.Publish(room.ID, sender, Frame(in))

	got := peer.sent()
	if len(got) != 1 {
		t.Fatal("chat frame not delivered")
	}
	var want, out map[string]any
	if err := json.Unmarshal([]byte(in), &want); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(got[0], &out); err != nil {
		t.Fatalf("delivered frame not valid JSON: %v", err)
	}
	if len(out) != len(want) || out["text"] != want["text"] {
		t.Errorf("round trip lost content: %s", got[0])
	}
	// Raw values survive untouched, including big integers.
	var check struct {
		N json.Number `json:"n"`
	}
	if err := json.Unmarshal(got[0], &check); err != nil || check.N.String() != "123456789012345678" {
		t.Errorf("number mangled: %s", got[0])
	}
}

func TestPublishPassesNonChatJSONVerbatim(t *testing.T) {
	h := newTestHub(t, time.Minute, time.Minute)
	room, err := h.CreateRoom("room", "", false)
	if err != nil {
		t.Fatal(err)
	}
	sender := &fakeConn{}
	peer := &fakeConn{}
	joinAll(t, h, room.ID, map[domain.MemberID]*fakeConn{"a": sender, "b": peer})

	in := `{"type":"offer","sdp":"v=0 unchanged   whitespace"}`
	h.Publish(room.ID, sender, Frame(in))
	got := peer.sent()
	if len(got) != 1 || string(got[0]) != in {
		t.Fatalf("non-chat frame altered: %q", got)
	}
}

func TestPublishToDeletedRoomIsNoop(t *testing.T) {
	h := newTestHub(t, time.Minute, time.Minute)
	res := h.Publish("ghost", &fakeConn{}, Frame(`{"type":"chat"}`))
	if res.SentTo != 0 || res.Dropped != 0 {
		t.Fatalf("result %+v, want zero", res)
	}
}

func TestNormalizeFrame(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"not json", "hello", false},
		{"empty", "", false},
		{"json scalar", `"just a string"`, true},
		{"json array", `[1,2,3]`, true},
		{"object without type", `{"x":1}`, true},
		{"chat object", `{"type":"chat","text":"hi"}`, true},
		{"non-string type", `{"type":7}`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := normalizeFrame(Frame(tc.in))
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && !json.Valid(out) {
				t.Errorf("output not valid JSON: %q", out)
			}
		})
	}
}
