package channel

import (
	"errors"
	"testing"
)

func TestTrySendTryReceiveFIFO(t *testing.T) {
	ch := New[int](2)
	if err := ch.TrySend(1); err != nil {
		t.Fatal(err)
	}
	if err := ch.TrySend(2); err != nil {
		t.Fatal(err)
	}
	if err := ch.TrySend(3); !errors.Is(err, ErrQueueFull) {
		t.Errorf("TrySend on full channel = %v, want ErrQueueFull", err)
	}

	v, err := ch.TryReceive()
	if err != nil || v != 1 {
		t.Fatalf("TryReceive() = %d, %v, want 1, nil", v, err)
	}
	v, err = ch.TryReceive()
	if err != nil || v != 2 {
		t.Fatalf("TryReceive() = %d, %v, want 2, nil", v, err)
	}
	if _, err := ch.TryReceive(); !errors.Is(err, ErrEmpty) {
		t.Errorf("TryReceive on empty channel = %v, want ErrEmpty", err)
	}
}

func TestSenderReceiverHandles(t *testing.T) {
	ch := New[string](1)
	sender := ch.Sender()
	receiver := ch.Receiver()

	if err := sender.TrySend("hello"); err != nil {
		t.Fatal(err)
	}
	v, err := receiver.TryReceive()
	if err != nil || v != "hello" {
		t.Fatalf("TryReceive() = %q, %v, want hello, nil", v, err)
	}
}
