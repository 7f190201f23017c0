package device

var _ Device = (*Transmitter)(nil)

// Transmitter is a TX endpoint feeding video and peripherals into the fabric.
type Transmitter struct {
	Base
}

// NewTransmitter builds a transmitter from a device record.
func NewTransmitter(m map[string]string) *Transmitter {
	return &Transmitter{Base: newBase(m)}
}

// Type implements Device.
func (t *Transmitter) Type() Type { return TypeTransmitter }

// ChannelCount returns the number of channels using this transmitter.
func (t *Transmitter) ChannelCount() int { return t.a.Int("count_transmitter_channels", 0) }

// PresetCount returns the number of presets using this transmitter.
func (t *Transmitter) PresetCount() int { return t.a.Int("count_transmitter_presets", 0) }
