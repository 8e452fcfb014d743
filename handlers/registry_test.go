package handlers

import (
	"errors"
	"sync"
	"testing"
)

type fakeConn struct {
	mu       sync.Mutex
	written  []interface{}
	writeErr error
	closed   bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, v)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) writtenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.written)
}

func TestRegistrySendTo(t *testing.T) {
	reg := NewRegistry()
	conn := &fakeConn{}
	reg.Register("staff-1", conn)

	if !reg.SendTo("staff-1", map[string]string{"msg": "hi"}) {
		t.Fatal("send to connected staff should succeed")
	}
	if conn.writtenCount() != 1 {
		t.Errorf("expected 1 write, got %d", conn.writtenCount())
	}
	if reg.SendTo("staff-2", "anything") {
		t.Error("send to unknown staff should report false")
	}
}

func TestRegistryReplaceSession(t *testing.T) {
	reg := NewRegistry()
	first := &fakeConn{}
	second := &fakeConn{}

	reg.Register("staff-1", first)
	reg.Register("staff-1", second)

	if !first.closed {
		t.Error("stale session should be closed on replacement")
	}
	if reg.Count() != 1 {
		t.Errorf("expected a single session, got %d", reg.Count())
	}
	reg.SendTo("staff-1", "ping")
	if second.writtenCount() != 1 || first.writtenCount() != 0 {
		t.Error("delivery should target the replacement session")
	}
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewRegistry()
	conn := &fakeConn{}
	reg.Register("staff-1", conn)

	reg.Unregister(conn)
	if reg.Connected("staff-1") {
		t.Error("staff should be disconnected after unregister")
	}
	if reg.SendTo("staff-1", "lost") {
		t.Error("send after unregister should report false")
	}

	// Unregistering an unknown connection is a no-op.
	reg.Unregister(&fakeConn{})
}

func TestRegistryDropsFailedConnection(t *testing.T) {
	reg := NewRegistry()
	conn := &fakeConn{writeErr: errors.New("broken pipe")}
	reg.Register("staff-1", conn)

	if reg.SendTo("staff-1", "x") {
		t.Fatal("send over a broken connection should report false")
	}
	if reg.Connected("staff-1") {
		t.Error("broken connection should be dropped from the registry")
	}
	if !conn.closed {
		t.Error("broken connection should be closed")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		conn := &fakeConn{}
		go func() {
			defer wg.Done()
			reg.Register("staff-1", conn)
		}()
		go func() {
			defer wg.Done()
			reg.SendTo("staff-1", "payload")
		}()
		go func() {
			defer wg.Done()
			reg.Unregister(conn)
		}()
	}
	wg.Wait()
}
