package gatt

// This file includes constants from the BLE spec.

// ClientCharacteristicConfigUUID is the descriptor a client writes to
// turn notifications or indications on and off.
var ClientCharacteristicConfigUUID = UUID16(0x2902)

// Client Characteristic Configuration values, little-endian as on the wire.
var (
	CCCDisable  = []byte{0x00, 0x00}
	CCCNotify   = []byte{0x01, 0x00}
	CCCIndicate = []byte{0x02, 0x00}
)

// DefaultMTU is the ATT MTU every link starts with.
const DefaultMTU = 23
