package cfg

// Successors returns the offsets control may reach after executing the
// instruction at the given offset. Branches yield the fallthrough first and
// the jump target second. Offsets past the end of the code are dropped, so
// methods whose last instruction falls through yield no successor there.
func Successors(m *Method, offset int) []int {
	if offset < 0 || offset >= len(m.Code) {
		return nil
	}

	inBounds := func(offs ...int) []int {
		res := offs[:0]
		for _, o := range offs {
			if 0 <= o && o < len(m.Code) {
				res = append(res, o)
			}
		}
		return res
	}

	switch ins := m.Code[offset].(type) {
	case Goto:
		return inBounds(ins.Target)
	case IfZero:
		return inBounds(offset+1, ins.Target)
	case IfCmp:
		return inBounds(offset+1, ins.Target)
	case Return, Throw:
		return nil
	default:
		return inBounds(offset + 1)
	}
}
