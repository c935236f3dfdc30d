package engine

// Broker is the one-way channel from the audio goroutine to the front-end for
// things that are events rather than state: playhead movement, meter levels,
// alerts. All sends go through TrySend so a stalled or absent front-end can
// never block audio; it just misses messages.
type Broker struct {
	ToUI chan MsgToUI
}

type MsgToUI struct {
	HasRhythmStep bool
	RhythmStep    int // -1 when stopped

	HasMelodyStep bool
	MelodyStep    int // -1 when stopped

	HasLevels bool
	Levels    LevelResult

	// Data is an optional free-form payload, e.g. *Alert.
	Data any
}

type Alert struct {
	Name     string
	Message  string
	Priority AlertPriority
}

type AlertPriority int

const (
	Info AlertPriority = iota
	Warning
	Error
)

func NewBroker() *Broker {
	return &Broker{ToUI: make(chan MsgToUI, 1024)}
}

// TrySend is a non-blocking send, returning false if the channel was full.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}
