// Package link implements the DNP3 data link layer: FT3 frame building and
// parsing, header and block CRC verification, and the primary-station FCB
// toggle. See IEEE 1815 and spec section 4.2.
package link

import (
	"encoding/binary"

	"github.com/fxodell/dnp3/internal/crc"
)

// Function codes for the control byte's low nibble, primary-station values.
const (
	FuncResetLink            = 0x00
	FuncUserDataConfirmed    = 0x03
	FuncUserDataUnconfirmed  = 0x04
	FuncRequestLinkStatus    = 0x09
)

// Control byte bit positions.
const (
	bitDIR = 0x80
	bitPRM = 0x40
	bitFCB = 0x20
	bitFCV = 0x10
)

// MaxUserData is the largest user-data payload a single frame can carry.
const MaxUserData = 250

// MaxAddress is the highest non-reserved DNP3 station address.
const MaxAddress = 65519

// blockSize is the number of user-data bytes each CRC-protected block
// covers, apart from the possibly-shorter final block.
const blockSize = 16

// Frame is a fully parsed, CRC-verified data link frame.
type Frame struct {
	Dest     uint16
	Src      uint16
	Control  byte
	UserData []byte
}

// DIR reports the control byte's direction bit.
func (f Frame) DIR() bool { return f.Control&bitDIR != 0 }

// PRM reports whether the frame originates from a primary (master) station.
func (f Frame) PRM() bool { return f.Control&bitPRM != 0 }

// FCB reports the frame count bit.
func (f Frame) FCB() bool { return f.Control&bitFCB != 0 }

// FCV reports whether FCB is valid/meaningful for this frame.
func (f Frame) FCV() bool { return f.Control&bitFCV != 0 }

// Function returns the control byte's 4-bit function code.
func (f Frame) Function() byte { return f.Control & 0x0F }

func validAddress(a uint16) bool { return a <= MaxAddress }

// BuildUserDataFrame builds a complete FT3 frame carrying userData (at most
// MaxUserData bytes) from src to dest. When confirmed is true the function
// code is USER_DATA_CONFIRMED with FCV set and FCB taken from fcb;
// otherwise USER_DATA_UNCONFIRMED is used and FCB/FCV are clear.
func BuildUserDataFrame(dest, src uint16, userData []byte, confirmed bool, fcb bool) ([]byte, error) {
	if !validAddress(dest) || !validAddress(src) {
		return nil, ErrAddressRange
	}
	if len(userData) > MaxUserData {
		return nil, ErrDataTooLarge
	}

	control := byte(bitDIR | bitPRM)
	if confirmed {
		control |= bitFCV | FuncUserDataConfirmed
		if fcb {
			control |= bitFCB
		}
	} else {
		control |= FuncUserDataUnconfirmed
	}

	return buildFrame(dest, src, control, userData), nil
}

// BuildResetLink builds a RESET_LINK frame, carrying no user data.
func BuildResetLink(dest, src uint16) ([]byte, error) {
	return buildControlFrame(dest, src, FuncResetLink)
}

// BuildRequestLinkStatus builds a REQUEST_LINK_STATUS frame.
func BuildRequestLinkStatus(dest, src uint16) ([]byte, error) {
	return buildControlFrame(dest, src, FuncRequestLinkStatus)
}

func buildControlFrame(dest, src uint16, function byte) ([]byte, error) {
	if !validAddress(dest) || !validAddress(src) {
		return nil, ErrAddressRange
	}
	control := byte(bitDIR | bitPRM | function)
	return buildFrame(dest, src, control, nil), nil
}

func buildFrame(dest, src uint16, control byte, userData []byte) []byte {
	length := byte(5 + len(userData))
	header := []byte{
		0x05, 0x64,
		length,
		control,
		byte(dest), byte(dest >> 8),
		byte(src), byte(src >> 8),
	}
	out := crc.Append(header)

	for i := 0; i < len(userData); i += blockSize {
		end := i + blockSize
		if end > len(userData) {
			end = len(userData)
		}
		out = append(out, crc.Append(userData[i:end])...)
	}
	return out
}

// FindFrameStart scans buf for the 0x05 0x64 start-byte pair and returns its
// offset. It returns -1 if no start pair is present (the final byte of buf
// may still be the first half of a pair split across a future read).
func FindFrameStart(buf []byte) int {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == 0x05 && buf[i+1] == 0x64 {
			return i
		}
	}
	return -1
}

// CalculateFrameSize returns the total number of bytes (header + CRC'd data
// blocks) a frame with the given length byte occupies on the wire.
func CalculateFrameSize(length byte) (int, error) {
	if length < 5 {
		return 0, ErrLengthTooSmall
	}
	userDataLen := int(length) - 5
	if userDataLen > MaxUserData {
		return 0, ErrDataTooLarge
	}
	numBlocks := 0
	if userDataLen > 0 {
		numBlocks = (userDataLen + blockSize - 1) / blockSize
	}
	return 10 + userDataLen + numBlocks*2, nil
}

// ParseFrame parses a single frame starting at buf[0]. buf must already
// hold at least CalculateFrameSize(buf[2]) bytes; ErrIncomplete is returned
// otherwise. On success it returns the parsed Frame and the number of bytes
// consumed from buf.
func ParseFrame(buf []byte) (Frame, int, error) {
	if len(buf) < 3 {
		return Frame{}, 0, ErrIncomplete
	}
	if buf[0] != 0x05 || buf[1] != 0x64 {
		return Frame{}, 0, ErrBadStartBytes
	}

	size, err := CalculateFrameSize(buf[2])
	if err != nil {
		return Frame{}, 0, err
	}
	if len(buf) < size {
		return Frame{}, 0, ErrIncomplete
	}

	headerCRC := binary.LittleEndian.Uint16(buf[8:10])
	if computed := crc.Calculate(buf[0:8]); computed != headerCRC {
		return Frame{}, 0, &CRCError{Expected: headerCRC, Actual: computed, Block: -1}
	}

	control := buf[3]
	dest := binary.LittleEndian.Uint16(buf[4:6])
	src := binary.LittleEndian.Uint16(buf[6:8])

	userDataLen := int(buf[2]) - 5
	userData := make([]byte, 0, userDataLen)
	offset := 10
	remaining := userDataLen
	block := 0
	for remaining > 0 {
		n := blockSize
		if remaining < n {
			n = remaining
		}
		chunk := buf[offset : offset+n]
		chunkCRC := binary.LittleEndian.Uint16(buf[offset+n : offset+n+2])
		if computed := crc.Calculate(chunk); computed != chunkCRC {
			return Frame{}, 0, &CRCError{Expected: chunkCRC, Actual: computed, Block: block}
		}
		userData = append(userData, chunk...)
		offset += n + 2
		remaining -= n
		block++
	}

	return Frame{Dest: dest, Src: src, Control: control, UserData: userData}, size, nil
}
