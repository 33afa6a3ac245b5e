package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe(4)
	bus.Publish("hello")
	v := <-ch
	if v != "hello" {
		t.Fatalf("expected hello got %v", v)
	}
	bus.Close()
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe(1)
	ch2 := bus.Subscribe(1)
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := New()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Publish after Close: %v", r)
		}
	}()
	bus.Publish("late")
}

func TestBusSubscribeAfterClose(t *testing.T) {
	bus := New()
	bus.Close()
	ch := bus.Subscribe(1)
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
}

func TestBusFullSubscriberDoesNotBlock(t *testing.T) {
	bus := New()
	_ = bus.Subscribe(1)
	bus.Publish(1)
	bus.Publish(2) // dropped, must not block
	bus.Close()
}
