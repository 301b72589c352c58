package protocol

import "fmt"

// ObjectID identifies a traced entity: module in the high byte, instance id in the low byte
type ObjectID uint16

// SetObj builds an ObjectID from a module identifier and an instance index
func SetObj(module, id uint8) ObjectID {
	return ObjectID(uint16(module)<<8 | uint16(id))
}

// Module returns the module identifier
func (o ObjectID) Module() uint8 {
	return uint8(o >> 8)
}

// ID returns the instance index within the module
func (o ObjectID) ID() uint8 {
	return uint8(o)
}

func (o ObjectID) String() string {
	return fmt.Sprintf("%02x:%02x", o.Module(), o.ID())
}

// putObject writes an object identifier in wire order: id, then module
func putObject(b []byte, o ObjectID) {
	b[0] = o.ID()
	b[1] = o.Module()
}

func getObject(b []byte) ObjectID {
	return SetObj(b[1], b[0])
}
