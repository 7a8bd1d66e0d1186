package protocol

import "fmt"

// Encode serializes a message's payload into a contiguous byte buffer.
// Fields are written in the order declared by each variant's layout;
// length-prefixed strings carry a 4-byte native-endian length followed
// by raw bytes, with no terminator. Integers and doubles are native-width,
// native byte order.
//
// Host byte order is intentional: peers are assumed to share an
// architecture. There is no version or magic number on the wire. If
// cross-architecture peers ever become a requirement this framing must be
// revisited.
//
// There is no error return. Encode panics on out-of-memory, as Go's
// allocator does, and on a payload that is not one of the six variant
// types (including a nil Payload).
func Encode(m Message) []byte {
	w := &writer{}
	switch p := m.Payload.(type) {
	case ShutdownPayload:
		// empty payload
	case CommandPayload:
		w.writeString(p.Name)
		w.writeString(p.Command)
		w.writeString(p.ID)
		w.writeUint32(p.Memory)
		w.writeUint32(p.CPUs)
		w.writeUint32(uint32(len(p.Forwards)))
		for k, v := range p.Forwards {
			w.writeString(k)
			w.writeString(v)
		}
	case ResultPayload:
		w.writeString(p.Name)
		w.writeInt32(p.ExitCode)
		w.writeFloat64(p.Runtime)
	case RegistrationPayload:
		w.writeString(p.Hostname)
		w.writeUint32(p.Memory)
		w.writeUint32(p.CPUs)
	case HostrankPayload:
		w.writeInt32(p.Hostrank)
	case IODataPayload:
		w.writeString(p.Task)
		w.writeString(p.Filename)
		w.writeUint32(uint32(len(p.Data)))
		w.writeBytes(p.Data)
	default:
		panic(fmt.Sprintf("protocol: unhandled payload type %T", p))
	}
	return w.buf
}

// Decode reconstructs the variant named by typ from buf, populating
// Source with src. The result must consume buf exactly: any declared
// field length that would overrun the buffer, or any unread trailing
// byte, fails with ErrMalformedFrame. An unrecognized discriminator
// fails with ErrUnknownType without reading buf at all.
func Decode(typ Type, buf []byte, src int) (Message, error) {
	var payload Payload
	r := newReader(buf)

	switch typ {
	case TypeShutdown:
		payload = ShutdownPayload{}

	case TypeCommand:
		name, err := r.readString()
		if err != nil {
			return Message{}, fmt.Errorf("command.name: %w", err)
		}
		command, err := r.readString()
		if err != nil {
			return Message{}, fmt.Errorf("command.command: %w", err)
		}
		id, err := r.readString()
		if err != nil {
			return Message{}, fmt.Errorf("command.id: %w", err)
		}
		memory, err := r.readUint32()
		if err != nil {
			return Message{}, fmt.Errorf("command.memory: %w", err)
		}
		cpus, err := r.readUint32()
		if err != nil {
			return Message{}, fmt.Errorf("command.cpus: %w", err)
		}
		n, err := r.readUint32()
		if err != nil {
			return Message{}, fmt.Errorf("command.forwards.count: %w", err)
		}
		forwards := make(map[string]string, n)
		for i := uint32(0); i < n; i++ {
			k, err := r.readString()
			if err != nil {
				return Message{}, fmt.Errorf("command.forwards[%d].key: %w", i, err)
			}
			v, err := r.readString()
			if err != nil {
				return Message{}, fmt.Errorf("command.forwards[%d].value: %w", i, err)
			}
			forwards[k] = v
		}
		payload = CommandPayload{Name: name, Command: command, ID: id, Memory: memory, CPUs: cpus, Forwards: forwards}

	case TypeResult:
		name, err := r.readString()
		if err != nil {
			return Message{}, fmt.Errorf("result.name: %w", err)
		}
		exitcode, err := r.readInt32()
		if err != nil {
			return Message{}, fmt.Errorf("result.exitcode: %w", err)
		}
		runtime, err := r.readFloat64()
		if err != nil {
			return Message{}, fmt.Errorf("result.runtime: %w", err)
		}
		payload = ResultPayload{Name: name, ExitCode: exitcode, Runtime: runtime}

	case TypeRegistration:
		hostname, err := r.readString()
		if err != nil {
			return Message{}, fmt.Errorf("registration.hostname: %w", err)
		}
		memory, err := r.readUint32()
		if err != nil {
			return Message{}, fmt.Errorf("registration.memory: %w", err)
		}
		cpus, err := r.readUint32()
		if err != nil {
			return Message{}, fmt.Errorf("registration.cpus: %w", err)
		}
		payload = RegistrationPayload{Hostname: hostname, Memory: memory, CPUs: cpus}

	case TypeHostrank:
		hostrank, err := r.readInt32()
		if err != nil {
			return Message{}, fmt.Errorf("hostrank.hostrank: %w", err)
		}
		payload = HostrankPayload{Hostrank: hostrank}

	case TypeIOData:
		task, err := r.readString()
		if err != nil {
			return Message{}, fmt.Errorf("iodata.task: %w", err)
		}
		filename, err := r.readString()
		if err != nil {
			return Message{}, fmt.Errorf("iodata.filename: %w", err)
		}
		size, err := r.readUint32()
		if err != nil {
			return Message{}, fmt.Errorf("iodata.size: %w", err)
		}
		data, err := r.readBytes(int(size))
		if err != nil {
			return Message{}, fmt.Errorf("iodata.data: %w", err)
		}
		payload = IODataPayload{Task: task, Filename: filename, Data: data}

	default:
		return Message{}, fmt.Errorf("type %d: %w", typ, ErrUnknownType)
	}

	if r.remaining() != 0 {
		return Message{}, fmt.Errorf("%d trailing bytes: %w", r.remaining(), ErrMalformedFrame)
	}

	return Message{Type: typ, Source: src, Payload: payload}, nil
}
