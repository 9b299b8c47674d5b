package realtime

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	hub.AddClient(1, nil)
	if hub.RoomSize(1) != 1 {
		t.Fatalf("expected room to be created")
	}

	hub.RemoveClient(1, nil)
	if hub.RoomSize(1) != 0 {
		t.Fatalf("expected room to be removed")
	}
}

func TestHubRoomsAreIndependent(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	hub.AddClient(1, nil)
	hub.RemoveClient(2, nil)

	if hub.RoomSize(1) != 1 {
		t.Fatalf("removing from another room must not touch room 1")
	}
}
