package groovebox

// CommandType identifies an edit or performance command sent from a front-end
// to an engine over the single-producer single-consumer queue.
type CommandType int

const (
	// CmdToggleStep flips the active flag of a rhythm step.
	CmdToggleStep CommandType = iota
	// CmdUpdateVelocity sets a rhythm step's velocity to Value.
	CmdUpdateVelocity
	// CmdUpdateProbability sets a rhythm step's probability to Value.
	CmdUpdateProbability
	// CmdSetModifier sets a rhythm step's modifier.
	CmdSetModifier
	// CmdSetEvent replaces a phrase step with Event.
	CmdSetEvent
	// CmdSetRoot sets the phrase root note to Note.
	CmdSetRoot
	// CmdSetScale sets the phrase scale by Scale name.
	CmdSetScale
	// CmdNoteOn is a live MIDI note, routed by note number rather than by
	// grid position. The drum voices are one-shots, so there is no matching
	// note-off command.
	CmdNoteOn
)

// Command is a fixed-size value so that enqueueing never allocates. Which
// fields are meaningful depends on Type; the rest are ignored.
type Command struct {
	Type     CommandType
	Track    int
	Step     int
	Value    float32
	Modifier StepModifier
	Event    NoteEvent
	Note     int
	Scale    string
}
