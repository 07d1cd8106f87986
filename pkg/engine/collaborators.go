package engine

import "context"

// Output receives everything the engine prints. WriteLine is called once per
// wrapped line; WriteRaw is used for the prompt marker.
type Output interface {
	WriteLine(s string)
	WriteRaw(s string)
}

// LightMode selects the indicator pattern.
type LightMode int

const (
	Twinkle1 LightMode = iota + 1
	Twinkle2
	Twinkle3
	// Adventure mirrors quest flags onto the indicators.
	Adventure
)

func (m LightMode) String() string {
	switch m {
	case Twinkle1:
		return "TWINKLE 1"
	case Twinkle2:
		return "TWINKLE 2"
	case Twinkle3:
		return "TWINKLE 3"
	case Adventure:
		return "ADVENTURE"
	default:
		return "UNKNOWN"
	}
}

// Next is the mode the twinkle command cycles to.
func (m LightMode) Next() LightMode {
	switch m {
	case Twinkle1:
		return Twinkle2
	case Twinkle2:
		return Twinkle3
	case Twinkle3:
		return Adventure
	default:
		return Twinkle1
	}
}

func (m LightMode) Twinkling() bool { return m >= Twinkle1 && m <= Twinkle3 }

// Lights drives the badge indicators. Implementations must be safe to call
// while their own render loop is reading the session flags.
type Lights interface {
	SetMode(m LightMode)
	Set(index int, on bool) error
	Toggle(index int) (bool, error)
	States() []bool
}

// Scanner looks for a legacy badge nearby.
type Scanner interface {
	ScanForLegacyBadge(ctx context.Context) (bool, error)
}

// NameFilter cleans player supplied text such as nicknames.
type NameFilter func(string) string

// BadgeInfo is written to the badge-state namespace on boot.
type BadgeInfo struct {
	Name    string
	Event   string
	Version string
}

type noLights struct {
	states []bool
}

func (l *noLights) SetMode(LightMode) {}

func (l *noLights) Set(index int, on bool) error {
	if index < 0 || index >= len(l.states) {
		return errInvalidLight
	}
	l.states[index] = on
	return nil
}

func (l *noLights) Toggle(index int) (bool, error) {
	if index < 0 || index >= len(l.states) {
		return false, errInvalidLight
	}
	l.states[index] = !l.states[index]
	return l.states[index], nil
}

func (l *noLights) States() []bool { return append([]bool(nil), l.states...) }

type noScanner struct{}

func (noScanner) ScanForLegacyBadge(context.Context) (bool, error) { return false, nil }
