package protocol

import "testing"

func TestDecodeHello(t *testing.T) {
	msg, err := DecodeClientMessage([]byte(`{"type":"hello","protocol_version":"1","session_id":"s1","channel":"phone","citizen_id":"CIT002"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Hello == nil {
		t.Fatalf("expected hello, got %+v", msg)
	}
	if msg.Hello.SessionID != "s1" || msg.Hello.Channel != "phone" || msg.Hello.CitizenID != "CIT002" {
		t.Fatalf("unexpected hello: %+v", msg.Hello)
	}
}

func TestDecodeHelloRequiresSessionID(t *testing.T) {
	_, err := DecodeClientMessage([]byte(`{"type":"hello"}`))
	if err == nil {
		t.Fatalf("expected error")
	}
	var decErr *DecodeError
	if !asDecodeError(err, &decErr) || decErr.Param != "session_id" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeHelloRejectsUnknownVersion(t *testing.T) {
	_, err := DecodeClientMessage([]byte(`{"type":"hello","session_id":"s1","protocol_version":"2"}`))
	if err == nil {
		t.Fatalf("expected error for protocol_version 2")
	}
}

func TestDecodeTextTurn(t *testing.T) {
	msg, err := DecodeClientMessage([]byte(`{"type":"text_turn","text":"hello there"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.TextTurn == nil || msg.TextTurn.Text != "hello there" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	if _, err := DecodeClientMessage([]byte(`{"type":"text_turn","text":"  "}`)); err == nil {
		t.Fatalf("blank text must be rejected")
	}
}

func TestDecodeSwitchChannel(t *testing.T) {
	msg, err := DecodeClientMessage([]byte(`{"type":"switch_channel","channel":"whatsapp"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.SwitchChannel == nil || msg.SwitchChannel.Channel != "whatsapp" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestDecodeRateAndBye(t *testing.T) {
	msg, err := DecodeClientMessage([]byte(`{"type":"rate","rating":4}`))
	if err != nil || msg.Rate == nil || msg.Rate.Rating != 4 {
		t.Fatalf("rate decode failed: %+v, %v", msg, err)
	}

	msg, err = DecodeClientMessage([]byte(`{"type":"bye"}`))
	if err != nil || msg.Bye == nil {
		t.Fatalf("bye decode failed: %+v, %v", msg, err)
	}
}

func TestDecodeRejectsUnknownTypeAndBadJSON(t *testing.T) {
	if _, err := DecodeClientMessage([]byte(`{"type":"teleport"}`)); err == nil {
		t.Fatalf("unknown type must be rejected")
	}
	if _, err := DecodeClientMessage([]byte(`{nope`)); err == nil {
		t.Fatalf("invalid JSON must be rejected")
	}
}

func asDecodeError(err error, target **DecodeError) bool {
	de, ok := err.(*DecodeError)
	if ok {
		*target = de
	}
	return ok
}
