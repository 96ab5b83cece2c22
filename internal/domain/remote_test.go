package domain

import (
	"encoding/json"
	"testing"
)

func TestRemoteIDAcceptsGidAndNumber(t *testing.T) {
	cases := []struct {
		raw  string
		uuid string
	}{
		{`"gid://shopify/Product/632910392"`, "632910392"},
		{`"gid://shopify/ProductVariant/808950810"`, "808950810"},
		{`632910392`, "632910392"},
		{`"632910392"`, "632910392"},
	}
	for _, tc := range cases {
		var id RemoteID
		if err := json.Unmarshal([]byte(tc.raw), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if got := id.UUID(); got != tc.uuid {
			t.Fatalf("UUID of %s = %q, expected %q", tc.raw, got, tc.uuid)
		}
	}
}

func TestRemoteIDRejectsObjects(t *testing.T) {
	var id RemoteID
	if err := json.Unmarshal([]byte(`{"id": 1}`), &id); err == nil {
		t.Fatal("expected error for object-shaped id")
	}
}

func TestRemoteIDInsidePayload(t *testing.T) {
	var payload struct {
		ID RemoteID `json:"id"`
	}
	if err := json.Unmarshal([]byte(`{"id": 788032119674292922}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.ID.UUID() != "788032119674292922" {
		t.Fatalf("expected full precision id, got %q", payload.ID.UUID())
	}
}
