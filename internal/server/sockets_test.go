package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestConnection() *Connection {
	return NewConnection(nil, "t1", nil, discardLogger())
}

func TestSocketSet_BroadcastDeliversToAll(t *testing.T) {
	set := NewSocketSet()
	a := newTestConnection()
	b := newTestConnection()
	set.Add("t1", a)
	set.Add("t1", b)

	msg := UpdateMessage{TableID: "t1", Seq: 1}
	set.Broadcast("t1", msg)

	select {
	case got := <-a.send:
		assert.Equal(t, uint64(1), got.Seq)
	default:
		t.Fatal("connection a should have received the broadcast")
	}
	select {
	case got := <-b.send:
		assert.Equal(t, uint64(1), got.Seq)
	default:
		t.Fatal("connection b should have received the broadcast")
	}
}

func TestSocketSet_BroadcastOnlyReachesItsTable(t *testing.T) {
	set := NewSocketSet()
	a := newTestConnection()
	set.Add("t1", a)

	set.Broadcast("t2", UpdateMessage{TableID: "t2"})

	select {
	case <-a.send:
		t.Fatal("a connection registered under a different table must not receive the broadcast")
	default:
	}
}

func TestSocketSet_Remove(t *testing.T) {
	set := NewSocketSet()
	a := newTestConnection()
	b := newTestConnection()
	set.Add("t1", a)
	set.Add("t1", b)

	set.Remove("t1", a)
	set.Broadcast("t1", UpdateMessage{TableID: "t1", Seq: 7})

	select {
	case <-a.send:
		t.Fatal("a removed connection must not receive further broadcasts")
	default:
	}
	select {
	case got := <-b.send:
		assert.Equal(t, uint64(7), got.Seq)
	default:
		t.Fatal("b should still receive the broadcast after a's removal")
	}
}

func TestSocketSet_RemoveMissingIsNoOp(t *testing.T) {
	set := NewSocketSet()
	a := newTestConnection()
	assert.NotPanics(t, func() { set.Remove("no-such-table", a) })
}
