package entity

import "math/bits"

// Mask records which registered component types an entity carries, one bit
// per TypeID. Its width is what fixes MaxComponentTypes.
type Mask uint32

func (m Mask) Has(id TypeID) bool { return m&(1<<id) != 0 }

func (m *Mask) Set(id TypeID) { *m |= 1 << id }

func (m *Mask) Clear(id TypeID) { *m &^= 1 << id }

func (m Mask) Count() int { return bits.OnesCount32(uint32(m)) }
