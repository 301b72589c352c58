package chart

import "msc/protocol"

// Filter decides whether a record is drawn
type Filter func(r protocol.Record) bool

// ByOpcode accepts records of the given kinds
func ByOpcode(ops ...protocol.Opcode) Filter {
	var mask uint32
	for _, op := range ops {
		mask |= 1 << op
	}
	return func(r protocol.Record) bool {
		return mask&(1<<r.Kind()) != 0
	}
}

// ByPriority accepts records carrying any of the priority flags in mask
func ByPriority(mask protocol.Priority) Filter {
	return func(r protocol.Record) bool {
		return r.RecordHeader().Priority&mask != 0
	}
}

// ByModule accepts records touching an object of one of the modules.
// For a message both source and destination are considered.
func ByModule(mods ...uint8) Filter {
	var set [256]bool
	for _, m := range mods {
		set[m] = true
	}
	return func(r protocol.Record) bool {
		if msg, ok := r.(*protocol.Msg); ok && set[msg.Dst.Module()] {
			return true
		}
		return set[r.Object().Module()]
	}
}

// Not inverts a filter
func Not(f Filter) Filter {
	return func(r protocol.Record) bool {
		return !f(r)
	}
}
