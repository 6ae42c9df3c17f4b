// Package row implements the fixed-schema record this engine stores:
// (id uint32, username, email). A row always serializes to Size bytes
// so the B+Tree's leaf cells can be a fixed 4+Size-byte slab.
package row

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	idSize       = 4
	UsernameSize = 32
	EmailSize    = 255

	idOffset       = 0
	usernameOffset = idOffset + idSize
	emailOffset    = usernameOffset + UsernameSize
	reservedOffset = emailOffset + EmailSize

	// Size is the fixed on-disk width of a serialized row. One byte past
	// id+username+email is reserved padding so the slab lands on 292.
	Size = reservedOffset + 1
)

// Parse error categories; the text is printed verbatim to the REPL.
var (
	ErrIDNotPositive = errors.New("ID must be positive.")
	ErrStringTooLong = errors.New("String is too long.")
	ErrSyntax        = errors.New("Syntax error.")
)

// Row is the in-memory form of a record.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// Parse validates and builds a Row from the three textual fields of an
// `insert <id> <username> <email>` command.
func Parse(fields []string) (Row, error) {
	if len(fields) != 3 {
		return Row{}, ErrSyntax
	}

	idVal, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || idVal < 0 || idVal > math.MaxUint32 {
		return Row{}, ErrIDNotPositive
	}

	username, email := fields[1], fields[2]
	if len(username) > UsernameSize || len(email) > EmailSize {
		return Row{}, ErrStringTooLong
	}

	return Row{ID: uint32(idVal), Username: username, Email: email}, nil
}

// Serialize writes the row into dst, which must be at least Size bytes.
func (r Row) Serialize(dst []byte) {
	binary.LittleEndian.PutUint32(dst[idOffset:], r.ID)
	writeFixedString(dst[usernameOffset:usernameOffset+UsernameSize], r.Username)
	writeFixedString(dst[emailOffset:emailOffset+EmailSize], r.Email)
}

// Deserialize reads a row out of src, which must be at least Size bytes.
func Deserialize(src []byte) Row {
	return Row{
		ID:       binary.LittleEndian.Uint32(src[idOffset:]),
		Username: readFixedString(src[usernameOffset : usernameOffset+UsernameSize]),
		Email:    readFixedString(src[emailOffset : emailOffset+EmailSize]),
	}
}

func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Username, r.Email)
}

func writeFixedString(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

func readFixedString(src []byte) string {
	n := bytes.IndexByte(src, 0)
	if n < 0 {
		n = len(src)
	}
	return string(src[:n])
}
