// Package protocol implements the rank-addressed wire protocol exchanged
// between a master process and its workers: command dispatch, results,
// worker registration, host ranking, forwarded I/O data and shutdown.
package protocol

// Type is the wire discriminator. Values are fixed by the on-wire contract
// and must never be renumbered.
type Type uint8

const (
	TypeCommand      Type = 1
	TypeResult       Type = 2
	TypeShutdown     Type = 3
	TypeRegistration Type = 4
	TypeHostrank     Type = 5
	TypeIOData       Type = 6
)

func (t Type) String() string {
	switch t {
	case TypeCommand:
		return "COMMAND"
	case TypeResult:
		return "RESULT"
	case TypeShutdown:
		return "SHUTDOWN"
	case TypeRegistration:
		return "REGISTRATION"
	case TypeHostrank:
		return "HOSTRANK"
	case TypeIOData:
		return "IODATA"
	default:
		return "UNKNOWN"
	}
}

// Message is the common envelope shared by every variant. Source is the
// origin rank; it is populated by the mailbox on receive and ignored on
// send.
type Message struct {
	Type    Type
	Source  int
	Payload Payload
}

// Payload is implemented by each variant's concrete payload type. It is a
// closed set by design (its method is unexported): Decode switches over
// Type and Encode over the six concrete payload types, so adding a
// seventh variant means touching both switches deliberately rather than
// satisfying an open interface.
type Payload interface {
	payloadType() Type
}

// ShutdownPayload carries no data.
type ShutdownPayload struct{}

func (ShutdownPayload) payloadType() Type { return TypeShutdown }

// CommandPayload dispatches a task to a worker.
type CommandPayload struct {
	Name     string
	Command  string
	ID       string
	Memory   uint32
	CPUs     uint32
	Forwards map[string]string
}

func (CommandPayload) payloadType() Type { return TypeCommand }

// ResultPayload reports a finished task's outcome.
type ResultPayload struct {
	Name     string
	ExitCode int32
	Runtime  float64
}

func (ResultPayload) payloadType() Type { return TypeResult }

// RegistrationPayload announces a worker's capacity to the master.
type RegistrationPayload struct {
	Hostname string
	Memory   uint32
	CPUs     uint32
}

func (RegistrationPayload) payloadType() Type { return TypeRegistration }

// HostrankPayload assigns a worker's rank among hosts.
type HostrankPayload struct {
	Hostrank int32
}

func (HostrankPayload) payloadType() Type { return TypeHostrank }

// IODataPayload forwards a chunk of a task's output stream. Data is owned
// by the payload from construction: NewIOData copies the slice it is
// given, so callers may reuse or mutate their buffer immediately after
// the call returns.
type IODataPayload struct {
	Task     string
	Filename string
	Data     []byte
}

func (IODataPayload) payloadType() Type { return TypeIOData }

// NewCommand builds a Command message ready to encode.
func NewCommand(name, command, id string, memory, cpus uint32, forwards map[string]string) Message {
	fw := make(map[string]string, len(forwards))
	for k, v := range forwards {
		fw[k] = v
	}
	return Message{Type: TypeCommand, Payload: CommandPayload{
		Name: name, Command: command, ID: id,
		Memory: memory, CPUs: cpus, Forwards: fw,
	}}
}

// NewResult builds a Result message ready to encode.
func NewResult(name string, exitcode int32, runtime float64) Message {
	return Message{Type: TypeResult, Payload: ResultPayload{Name: name, ExitCode: exitcode, Runtime: runtime}}
}

// NewShutdown builds a Shutdown message.
func NewShutdown() Message {
	return Message{Type: TypeShutdown, Payload: ShutdownPayload{}}
}

// NewRegistration builds a Registration message.
func NewRegistration(hostname string, memory, cpus uint32) Message {
	return Message{Type: TypeRegistration, Payload: RegistrationPayload{Hostname: hostname, Memory: memory, CPUs: cpus}}
}

// NewHostrank builds a Hostrank message.
func NewHostrank(hostrank int32) Message {
	return Message{Type: TypeHostrank, Payload: HostrankPayload{Hostrank: hostrank}}
}

// NewIOData builds an IOData message, copying data so the message owns it.
func NewIOData(task, filename string, data []byte) Message {
	owned := append([]byte(nil), data...)
	return Message{Type: TypeIOData, Payload: IODataPayload{Task: task, Filename: filename, Data: owned}}
}
