package gatt

import "fmt"

// Status is a status code reported by the native stack for a completed
// operation. Zero is success; every other value is a failure.
type Status uint16

// ATT error codes, as carried in an ATT Error Response.
const (
	StatusSuccess             Status = 0x00
	StatusInvalidHandle       Status = 0x01
	StatusReadNotPermitted    Status = 0x02
	StatusWriteNotPermitted   Status = 0x03
	StatusInvalidPDU          Status = 0x04
	StatusInsufficientAuthn   Status = 0x05
	StatusRequestNotSupported Status = 0x06
	StatusInvalidOffset       Status = 0x07
	StatusInsufficientAuthz   Status = 0x08
	StatusPrepareQueueFull    Status = 0x09
	StatusAttrNotFound        Status = 0x0a
	StatusAttrNotLong         Status = 0x0b
	StatusInsuffEncrKeySize   Status = 0x0c
	StatusInvalidAttrValueLen Status = 0x0d
	StatusUnlikely            Status = 0x0e
	StatusInsufficientEncr    Status = 0x0f
	StatusUnsuppGroupType     Status = 0x10
	StatusInsuffResources     Status = 0x11
)

// Stack level codes that are not ATT errors.
const (
	StatusConnCongested Status = 0x8f
	StatusError         Status = 0x85
	StatusFailure       Status = 0x101
)

var statusNames = map[Status]string{
	StatusSuccess:             "success",
	StatusInvalidHandle:       "invalid handle",
	StatusReadNotPermitted:    "read not permitted",
	StatusWriteNotPermitted:   "write not permitted",
	StatusInvalidPDU:          "invalid pdu",
	StatusInsufficientAuthn:   "insufficient authentication",
	StatusRequestNotSupported: "request not supported",
	StatusInvalidOffset:       "invalid offset",
	StatusInsufficientAuthz:   "insufficient authorization",
	StatusPrepareQueueFull:    "prepare queue full",
	StatusAttrNotFound:        "attribute not found",
	StatusAttrNotLong:         "attribute not long",
	StatusInsuffEncrKeySize:   "insufficient encryption key size",
	StatusInvalidAttrValueLen: "invalid attribute value length",
	StatusUnlikely:            "unlikely error",
	StatusInsufficientEncr:    "insufficient encryption",
	StatusUnsuppGroupType:     "unsupported group type",
	StatusInsuffResources:     "insufficient resources",
	StatusConnCongested:       "connection congested",
	StatusError:               "gatt error",
	StatusFailure:             "failure",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status 0x%02x", uint16(s))
}

// OK reports whether s is a success code.
func (s Status) OK() bool { return s == StatusSuccess }
