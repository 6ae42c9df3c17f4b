package row

import "testing"

func TestParseValid(t *testing.T) {
	r, err := Parse([]string{"1", "user1", "person1@example.com"})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if r.ID != 1 || r.Username != "user1" || r.Email != "person1@example.com" {
		t.Errorf("unexpected row: %+v", r)
	}
}

func TestParseMaxLengthStrings(t *testing.T) {
	u := make([]byte, UsernameSize)
	for i := range u {
		u[i] = 'a'
	}
	e := make([]byte, EmailSize)
	for i := range e {
		e[i] = 'a'
	}
	r, err := Parse([]string{"1", string(u), string(e)})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if r.Username != string(u) || r.Email != string(e) {
		t.Errorf("max-length strings did not round-trip")
	}
}

func TestParseStringTooLong(t *testing.T) {
	u := make([]byte, UsernameSize+1)
	e := make([]byte, EmailSize+1)
	_, err := Parse([]string{"1", string(u), string(e)})
	if err != ErrStringTooLong {
		t.Errorf("expected ErrStringTooLong, got %v", err)
	}
}

func TestParseNegativeID(t *testing.T) {
	_, err := Parse([]string{"-1", "cstack", "foo@bar.com"})
	if err != ErrIDNotPositive {
		t.Errorf("expected ErrIDNotPositive, got %v", err)
	}
}

func TestParseIDOverflow(t *testing.T) {
	_, err := Parse([]string{"4294967296", "cstack", "foo@bar.com"})
	if err != ErrIDNotPositive {
		t.Errorf("expected ErrIDNotPositive for overflowing id, got %v", err)
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]string{"1", "user1"})
	if err != ErrSyntax {
		t.Errorf("expected ErrSyntax, got %v", err)
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	want := Row{ID: 42, Username: "bob", Email: "bob@example.com"}
	buf := make([]byte, Size)
	want.Serialize(buf)
	got := Deserialize(buf)
	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestSerializeFixedSize(t *testing.T) {
	if Size != 292 {
		t.Errorf("Size = %d, want 292", Size)
	}
}
