package core

// Message is a radio broadcast payload.
type Message struct {
	Ints      []int         `json:"ints,omitempty" msgpack:"ints"`
	Strings   []string      `json:"strings,omitempty" msgpack:"strings"`
	Locations []MapLocation `json:"locations,omitempty" msgpack:"locations"`
}

// Clone deep-copies m so receivers never share slices with the sender.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	out := &Message{}
	if m.Ints != nil {
		out.Ints = append([]int(nil), m.Ints...)
	}
	if m.Strings != nil {
		out.Strings = append([]string(nil), m.Strings...)
	}
	if m.Locations != nil {
		out.Locations = append([]MapLocation(nil), m.Locations...)
	}
	return out
}
