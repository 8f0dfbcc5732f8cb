package jsonrpc

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
)

func TestWriteThenReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteMessage(map[string]string{"hello": "world"}); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	msg, err := r.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatal(err)
	}
	if got["hello"] != "world" {
		t.Fatalf("got %v", got)
	}
}

func TestReadMessageToleratesCRLFAndLF(t *testing.T) {
	raw := "Content-Length: 11\r\n\n{\"a\":\"bcd\"}\n"
	r := NewReader(strings.NewReader(raw))
	msg, err := r.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if string(msg) != `{"a":"bcd"}` {
		t.Fatalf("got %q", msg)
	}
}

func TestReadMessageCaseInsensitiveHeader(t *testing.T) {
	raw := "CONTENT-LENGTH: 4\r\n\r\nnull"
	r := NewReader(strings.NewReader(raw))
	msg, err := r.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if string(msg) != "null" {
		t.Fatalf("got %q", msg)
	}
}

func TestReadMessageSkipsZeroContentLengthFrame(t *testing.T) {
	raw := "Content-Length: 0\r\n\r\nContent-Length: 4\r\n\r\nnull"
	r := NewReader(strings.NewReader(raw))
	msg, err := r.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if string(msg) != "null" {
		t.Fatalf("got %q", msg)
	}
}

func TestReadMessageEOF(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := r.ReadMessage()
	if err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

func TestPendingTableDeliver(t *testing.T) {
	pt := NewPendingTable()
	id := pt.NextID()
	ch := pt.Register(id)

	rawID, _ := json.Marshal(id)
	raw := json.RawMessage(rawID)
	resp := &Message{JSONRPC: "2.0", ID: &raw, Result: json.RawMessage(`"ok"`)}
	if !pt.Deliver(resp) {
		t.Fatal("expected Deliver to find the waiter")
	}

	got := <-ch
	if string(got.Result) != `"ok"` {
		t.Fatalf("got %q", got.Result)
	}
}

func TestPendingTableDeliverUnknownID(t *testing.T) {
	pt := NewPendingTable()
	rawID, _ := json.Marshal(int64(999))
	raw := json.RawMessage(rawID)
	if pt.Deliver(&Message{ID: &raw}) {
		t.Fatal("expected Deliver to report false for an unregistered id")
	}
}

func TestPendingTableCancel(t *testing.T) {
	pt := NewPendingTable()
	id := pt.NextID()
	ch := pt.Register(id)
	pt.Cancel(id)

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed by Cancel")
	}
}

func TestPendingTableDrainAll(t *testing.T) {
	pt := NewPendingTable()
	id1 := pt.NextID()
	id2 := pt.NextID()
	ch1 := pt.Register(id1)
	ch2 := pt.Register(id2)
	pt.DrainAll()

	if _, ok := <-ch1; ok {
		t.Fatal("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatal("expected ch2 closed")
	}
}
