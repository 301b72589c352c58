package protocol

import "encoding/binary"

// Record is one of the six record shapes. Every shape embeds Header.
type Record interface {
	// RecordHeader returns the embedded header
	RecordHeader() *Header

	// Kind returns the opcode the shape must be tagged with
	Kind() Opcode

	// Object returns the object the record is attributed to
	// (the source object for a message)
	Object() ObjectID

	putPayload(b []byte)
	getPayload(b []byte)
}

// Msg is a message sent from a source object to a destination object
type Msg struct {
	Header
	Src   ObjectID
	Dst   ObjectID
	MsgID uint16
}

// Evt is an event raised by an object
type Evt struct {
	Header
	Obj   ObjectID
	EvtID uint16
}

// Sta is an object's state transition target
type Sta struct {
	Header
	Obj   ObjectID
	State uint16
}

// TP is a test-point sample tied to an object
type TP struct {
	Header
	Obj  ObjectID
	Data uint32
}

// Des is an object's destruction
type Des struct {
	Header
	Obj ObjectID
}

// Ack is an object's acknowledgment of a prior message
type Ack struct {
	Header
	Obj   ObjectID
	MsgID uint16
}

// NewMsg creates a MSG record
func NewMsg(pri Priority, src, dst ObjectID, msgID uint16) *Msg {
	return &Msg{Header: Header{Opcode: OpMsg, Priority: pri}, Src: src, Dst: dst, MsgID: msgID}
}

// NewEvt creates an EVT record
func NewEvt(pri Priority, obj ObjectID, evtID uint16) *Evt {
	return &Evt{Header: Header{Opcode: OpEvt, Priority: pri}, Obj: obj, EvtID: evtID}
}

// NewSta creates a STA record
func NewSta(pri Priority, obj ObjectID, state uint16) *Sta {
	return &Sta{Header: Header{Opcode: OpSta, Priority: pri}, Obj: obj, State: state}
}

// NewTP creates a TP record
func NewTP(pri Priority, obj ObjectID, data uint32) *TP {
	return &TP{Header: Header{Opcode: OpTP, Priority: pri}, Obj: obj, Data: data}
}

// NewDes creates a DES record
func NewDes(pri Priority, obj ObjectID) *Des {
	return &Des{Header: Header{Opcode: OpDes, Priority: pri}, Obj: obj}
}

// NewAck creates an ACK record
func NewAck(pri Priority, obj ObjectID, msgID uint16) *Ack {
	return &Ack{Header: Header{Opcode: OpAck, Priority: pri}, Obj: obj, MsgID: msgID}
}

// newRecord allocates an empty record for a valid opcode
func newRecord(op Opcode) Record {
	switch op {
	case OpMsg:
		return &Msg{}
	case OpEvt:
		return &Evt{}
	case OpSta:
		return &Sta{}
	case OpTP:
		return &TP{}
	case OpDes:
		return &Des{}
	case OpAck:
		return &Ack{}
	}
	return nil
}

func (*Msg) Kind() Opcode { return OpMsg }
func (*Evt) Kind() Opcode { return OpEvt }
func (*Sta) Kind() Opcode { return OpSta }
func (*TP) Kind() Opcode  { return OpTP }
func (*Des) Kind() Opcode { return OpDes }
func (*Ack) Kind() Opcode { return OpAck }

func (r *Msg) Object() ObjectID { return r.Src }
func (r *Evt) Object() ObjectID { return r.Obj }
func (r *Sta) Object() ObjectID { return r.Obj }
func (r *TP) Object() ObjectID  { return r.Obj }
func (r *Des) Object() ObjectID { return r.Obj }
func (r *Ack) Object() ObjectID { return r.Obj }

// [Src(2)][Dst(2)][MsgID(2)]
func (r *Msg) putPayload(b []byte) {
	putObject(b[0:], r.Src)
	putObject(b[2:], r.Dst)
	binary.LittleEndian.PutUint16(b[4:], r.MsgID)
}

func (r *Msg) getPayload(b []byte) {
	r.Src = getObject(b[0:])
	r.Dst = getObject(b[2:])
	r.MsgID = binary.LittleEndian.Uint16(b[4:])
}

// [Obj(2)][EvtID(2)]
func (r *Evt) putPayload(b []byte) {
	putObject(b, r.Obj)
	binary.LittleEndian.PutUint16(b[2:], r.EvtID)
}

func (r *Evt) getPayload(b []byte) {
	r.Obj = getObject(b)
	r.EvtID = binary.LittleEndian.Uint16(b[2:])
}

// [Obj(2)][State(2)]
func (r *Sta) putPayload(b []byte) {
	putObject(b, r.Obj)
	binary.LittleEndian.PutUint16(b[2:], r.State)
}

func (r *Sta) getPayload(b []byte) {
	r.Obj = getObject(b)
	r.State = binary.LittleEndian.Uint16(b[2:])
}

// [Obj(2)][Data(4)]
func (r *TP) putPayload(b []byte) {
	putObject(b, r.Obj)
	binary.LittleEndian.PutUint32(b[2:], r.Data)
}

func (r *TP) getPayload(b []byte) {
	r.Obj = getObject(b)
	r.Data = binary.LittleEndian.Uint32(b[2:])
}

// [Obj(2)]
func (r *Des) putPayload(b []byte) {
	putObject(b, r.Obj)
}

func (r *Des) getPayload(b []byte) {
	r.Obj = getObject(b)
}

// [Obj(2)][MsgID(2)]
func (r *Ack) putPayload(b []byte) {
	putObject(b, r.Obj)
	binary.LittleEndian.PutUint16(b[2:], r.MsgID)
}

func (r *Ack) getPayload(b []byte) {
	r.Obj = getObject(b)
	r.MsgID = binary.LittleEndian.Uint16(b[2:])
}
