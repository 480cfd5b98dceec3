package gatt

// A Service is a BLE service. The same type describes services found on
// a remote peripheral and services published by the local server.
// Calls to AddCharacteristic must occur before the service is handed to
// a transaction.
type Service struct {
	uuid  UUID
	chars []*Characteristic
}

// NewService returns an empty service with UUID u.
func NewService(u UUID) *Service { return &Service{uuid: u} }

// AddCharacteristic adds a characteristic to a service.
// AddCharacteristic panics if the service already contains
// another characteristic with the same UUID.
func (s *Service) AddCharacteristic(u UUID, props Property) *Characteristic {
	for _, char := range s.chars {
		if char.uuid.Equal(u) {
			panic("service already contains a characteristic with uuid " + u.String())
		}
	}

	char := &Characteristic{
		service: s,
		uuid:    u,
		props:   props,
	}
	s.chars = append(s.chars, char)
	return char
}

// UUID returns the service's UUID.
func (s *Service) UUID() UUID { return s.uuid }

// Characteristics returns the service's characteristics in the order they were added.
func (s *Service) Characteristics() []*Characteristic {
	return append([]*Characteristic(nil), s.chars...)
}

// Characteristic returns the characteristic with UUID u, or nil.
func (s *Service) Characteristic(u UUID) *Characteristic {
	for _, c := range s.chars {
		if c.uuid.Equal(u) {
			return c
		}
	}
	return nil
}
