package gatt

import "strings"

// Property is a set of characteristic property flags.
type Property uint8

// Do not re-order the bit flags below;
// they are organized to match the BLE spec.

// Characteristic property flags.
const (
	PropBroadcast Property = 1 << iota // the characteristic value may be broadcast
	PropRead                           // the characteristic may be read
	PropWriteNR                        // the characteristic may be written to, with no reply
	PropWrite                          // the characteristic may be written to, with a reply
	PropNotify                         // the characteristic supports notifications
	PropIndicate                       // the characteristic supports indications
)

func (p Property) String() string {
	names := []string{"broadcast", "read", "writeWithoutResponse", "write", "notify", "indicate"}
	var s []string
	for i, n := range names {
		if p&(1<<uint(i)) != 0 {
			s = append(s, n)
		}
	}
	return strings.Join(s, "|")
}

// A Characteristic is a BLE characteristic.
type Characteristic struct {
	uuid  UUID
	props Property
	descs []*Descriptor

	// storage used by other types
	service *Service
}

// UUID returns the characteristic's UUID.
func (c *Characteristic) UUID() UUID { return c.uuid }

// Properties returns the characteristic's property flags.
func (c *Characteristic) Properties() Property { return c.props }

// Service returns the service c belongs to.
func (c *Characteristic) Service() *Service { return c.service }

// AddDescriptor adds a descriptor with the given static value.
// AddDescriptor panics if c already has a descriptor with UUID u.
func (c *Characteristic) AddDescriptor(u UUID, value []byte) *Descriptor {
	for _, d := range c.descs {
		if d.uuid.Equal(u) {
			panic("characteristic already contains a descriptor with uuid " + u.String())
		}
	}
	d := &Descriptor{uuid: u, value: append([]byte(nil), value...), char: c}
	c.descs = append(c.descs, d)
	return d
}

// Descriptors returns the characteristic's descriptors.
func (c *Characteristic) Descriptors() []*Descriptor {
	return append([]*Descriptor(nil), c.descs...)
}

// Descriptor returns the descriptor with UUID u, or nil.
func (c *Characteristic) Descriptor(u UUID) *Descriptor {
	for _, d := range c.descs {
		if d.uuid.Equal(u) {
			return d
		}
	}
	return nil
}

// A Descriptor is a BLE characteristic descriptor.
type Descriptor struct {
	uuid  UUID
	value []byte // static value
	char  *Characteristic
}

func (d *Descriptor) UUID() UUID { return d.uuid }

// Value returns a copy of the descriptor's static value.
func (d *Descriptor) Value() []byte { return append([]byte(nil), d.value...) }

// Characteristic returns the characteristic d belongs to.
func (d *Descriptor) Characteristic() *Characteristic { return d.char }
