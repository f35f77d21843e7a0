package lattice

import "strconv"

// IntervalBound is an interface implemented by all interval bounds i.e.,
// any FiniteBound value, PlusInfinity and MinusInfinity.
type IntervalBound interface {
	String() string

	// IsInfinite checks whether the interval bound is finite.
	IsInfinite() bool

	// BINARY RELATIONS

	// Eq checks for interval bound equality.
	Eq(IntervalBound) bool
	// Leq computes b1 ≤ b2. The semantics is -∞ ≤ c ≤ ∞, where c ∈ ℤ.
	Leq(IntervalBound) bool
	// Geq computes b1 ≥ b2. The semantics is ∞ ≥ c ≥ -∞, where c ∈ ℤ.
	Geq(IntervalBound) bool
	// Lt computes b1 < b2. The semantics is -∞ < c < ∞, where c ∈ ℤ.
	Lt(IntervalBound) bool
	// Gt computes b1 > b2. The semantics is -∞ < c < ∞, where c ∈ ℤ.
	Gt(IntervalBound) bool

	// BINARY OPERATIONS

	// Plus computes b1 + b2. The semantics of plus is:
	//	.-----------------------------.
	// 	|   b1   |   b2   |  b1 + b2  |
	// 	|========|========|===========|
	// 	|  ∈  ℤ  |  ∈  ℤ  |  b1 + b2  |
	// 	|--------|--------|-----------|
	// 	|  ∈  ℤ  |    ∞   |     ∞     |
	// 	|--------|--------|-----------|
	// 	|  ∈  ℤ  |   -∞   |    -∞     |
	// 	|--------|--------|-----------|
	// 	|   -∞   |   -∞   |    -∞     |
	// 	|--------|--------|-----------|
	// 	|    ∞   |    ∞   |     ∞     |
	// 	|--------|--------|-----------|
	// 	|    ∞   |   -∞   |   panic   |
	// 	 -----------------------------
	Plus(IntervalBound) IntervalBound

	// Minus computes b1 - b2. The semantics of minus is:
	//	.-----------------------------.
	// 	|   b1   |   b2   |  b1 - b2  |
	// 	|========|========|===========|
	// 	|  ∈  ℤ  |  ∈  ℤ  |  b1 - b2  |
	// 	|--------|--------|-----------|
	// 	|  ∈  ℤ  |    ∞   |    -∞     |
	// 	|--------|--------|-----------|
	// 	|    ∞   |  ∈  ℤ  |     ∞     |
	// 	|--------|--------|-----------|
	// 	|  ∈  ℤ  |   -∞   |     ∞     |
	// 	|--------|--------|-----------|
	// 	|   -∞   |  ∈  ℤ  |    -∞     |
	// 	|--------|--------|-----------|
	// 	|   -∞   |   -∞   |   panic   |
	// 	|--------|--------|-----------|
	// 	|    ∞   |   -∞   |     ∞     |
	// 	|--------|--------|-----------|
	// 	|   -∞   |    ∞   |    -∞     |
	// 	|--------|--------|-----------|
	// 	|    ∞   |    ∞   |   panic   |
	// 	 -----------------------------
	Minus(IntervalBound) IntervalBound

	// Mult computes b1 * b2. The semantics of multiplication is:
	//	.-----------------------------.
	// 	|   b1   |   b2   |  b1 * b2  |
	// 	|========|========|===========|
	// 	|  ∈  ℤ  |  ∈  ℤ  |  b1 * b2  |
	// 	|--------|--------|-----------|
	// 	|  ∈  ℤ+ |    ∞   |     ∞     |
	// 	|--------|--------|-----------|
	// 	|  ∈  ℤ+ |   -∞   |    -∞     |
	// 	|--------|--------|-----------|
	// 	|  ∈  ℤ- |   -∞   |     ∞     |
	// 	|--------|--------|-----------|
	// 	|  ∈  ℤ- |    ∞   |    -∞     |
	// 	|--------|--------|-----------|
	// 	|    ∞   |    ∞   |     ∞     |
	// 	|--------|--------|-----------|
	// 	|   -∞   |   -∞   |     ∞     |
	// 	|--------|--------|-----------|
	// 	|    ∞   |   -∞   |   panic   |
	// 	|--------|--------|-----------|
	// 	|  (-)∞  |    0   |   panic   |
	// 	 -----------------------------
	Mult(IntervalBound) IntervalBound

	// Div computes b1 / b2. The semantics of division is:
	//	.-----------------------------.
	// 	|   b1   |   b2   |  b1 / b2  |
	// 	|========|========|===========|
	// 	|  ∈ ℤ≠0 |  ∈ ℤ≠0 |  b1 / b2  |
	// 	|--------|--------|-----------|
	// 	|   -∞   |  ∈ ℤ+  |    -∞     |
	// 	|--------|--------|-----------|
	// 	|   -∞   |  ∈ ℤ-  |     ∞     |
	// 	|--------|--------|-----------|
	// 	|    ∞   |  ∈ ℤ+  |     ∞     |
	// 	|--------|--------|-----------|
	// 	|    ∞   |  ∈ ℤ-  |    -∞     |
	// 	|--------|--------|-----------|
	// 	|  ∈  ℤ  |  (-)∞  |     0     |
	// 	|--------|--------|-----------|
	// 	|  (-)∞  |  (-)∞  |   panic   |
	// 	|--------|--------|-----------|
	// 	|  (-)∞  |    0   |   panic   |
	// 	 -----------------------------
	Div(IntervalBound) IntervalBound

	// Max computes max(b1, b2). The semantics of maximum is:
	//	.--------------------------------.
	// 	|   b1   |   b2   | max(b1, b2)  |
	// 	|========|========|==============|
	// 	|  ∈  ℤ  |  ∈  ℤ  | max(b1, b2)  |
	// 	|--------|--------|--------------|
	// 	|  ∀ b1  |    ∞   |       ∞      |
	// 	 --------------------------------
	Max(IntervalBound) IntervalBound

	// Min computes min(b1, b2). The semantics of minimum is:
	//	.--------------------------------.
	// 	|   b1   |   b2   | min(b1, b2)  |
	// 	|========|========|==============|
	// 	|  ∈  ℤ  |  ∈  ℤ  | min(b1, b2)  |
	// 	|--------|--------|--------------|
	// 	|  ∀ b1  |   -∞   |      -∞      |
	// 	 --------------------------------
	Min(IntervalBound) IntervalBound
}

type (
	// FiniteBound is used to represent finite limits of an interval value.
	FiniteBound int64
	// PlusInfinity represents ∞.
	PlusInfinity struct{}
	// MinusInfinity represents -∞.
	MinusInfinity struct{}
)

// IsInfinite is false for the finite bound.
func (FiniteBound) IsInfinite() bool {
	return false
}

func (b FiniteBound) String() string {
	return colorize.Element(strconv.FormatInt((int64)(b), 10))
}

// Eq compares for equality with another bound. Two finite bounds
// are equal if their underlying values are equal.
func (b1 FiniteBound) Eq(b2 IntervalBound) bool {
	switch b2 := b2.(type) {
	case FiniteBound:
		return b1 == b2
	}
	return false
}

// Leq computes b1 ≤ b2. The semantics is -∞ ≤ c ≤ ∞, where c ∈ ℤ.
func (b1 FiniteBound) Leq(b2 IntervalBound) bool {
	switch b2 := b2.(type) {
	case FiniteBound:
		return b1 <= b2
	case PlusInfinity:
		return true
	case MinusInfinity:
		return false
	}
	return false
}

// Geq computes b1 ≥ b2. The semantics is ∞ ≥ c ≥ -∞, where c ∈ ℤ.
func (b1 FiniteBound) Geq(b2 IntervalBound) bool {
	switch b2 := b2.(type) {
	case FiniteBound:
		return b1 >= b2
	case PlusInfinity:
		return false
	case MinusInfinity:
		return true
	}
	return false
}

// Lt computes b1 < b2. The semantics is -∞ < c < ∞, where c ∈ ℤ.
func (b1 FiniteBound) Lt(b2 IntervalBound) bool {
	switch b2 := b2.(type) {
	case FiniteBound:
		return b1 < b2
	case PlusInfinity:
		return true
	case MinusInfinity:
		return false
	}
	return false
}

// Gt computes b1 > b2. The semantics is -∞ < c < ∞, where c ∈ ℤ.
func (b1 FiniteBound) Gt(b2 IntervalBound) bool {
	switch b2 := b2.(type) {
	case FiniteBound:
		return b1 > b2
	case PlusInfinity:
		return false
	case MinusInfinity:
		return true
	}
	return false
}

// Plus computes b1 + b2. The semantics of plus is:
//
//	.--------------------.
//	|   b2   |  b1 + b2  |
//	|========|===========|
//	|   ∈ ℤ  |  b1 + b2  |
//	|--------|-----------|
//	|    ∞   |     ∞     |
//	|--------|-----------|
//	|   -∞   |    -∞     |
//	 --------------------
func (b1 FiniteBound) Plus(b2 IntervalBound) IntervalBound {
	switch b2 := b2.(type) {
	case FiniteBound:
		return b1 + b2
	case PlusInfinity:
		return PlusInfinity{}
	case MinusInfinity:
		return MinusInfinity{}
	}
	return nil
}

// Minus computes b1 - b2. The semantics of minus is:
//
//	.--------------------.
//	|   b2   |  b1 - b2  |
//	|========|===========|
//	|   ∈ ℤ  |  b1 - b2  |
//	|--------|-----------|
//	|    ∞   |    -∞     |
//	|--------|-----------|
//	|   -∞   |     ∞     |
//	 --------------------
func (b1 FiniteBound) Minus(b2 IntervalBound) IntervalBound {
	switch b2 := b2.(type) {
	case FiniteBound:
		return b1 - b2
	case PlusInfinity:
		return MinusInfinity{}
	case MinusInfinity:
		return PlusInfinity{}
	}
	return nil
}

// Mult computes b1 * b2. The semantics of multiplication is:
//
//	.-----------------------------.
//	|   b1   |   b2   |  b1 * b2  |
//	|========|========|===========|
//	|  ∈  ℤ  |  ∈  ℤ  |  b1 * b2  |
//	|--------|--------|-----------|
//	|  ∈  ℤ+ |    ∞   |     ∞     |
//	|--------|--------|-----------|
//	|  ∈  ℤ+ |   -∞   |    -∞     |
//	|--------|--------|-----------|
//	|  ∈  ℤ- |   -∞   |     ∞     |
//	|--------|--------|-----------|
//	|  ∈  ℤ- |    ∞   |    -∞     |
//	|--------|--------|-----------|
//	|    0   |  (-)∞  |   panic   |
//	 -----------------------------
func (b1 FiniteBound) Mult(b2 IntervalBound) IntervalBound {
	switch b2 := b2.(type) {
	case FiniteBound:
		return b1 * b2
	case PlusInfinity:
		switch {
		case b1 > 0:
			return PlusInfinity{}
		case b1 == 0:
			panic("0 * ∞")
		case b1 < 0:
			return MinusInfinity{}
		}
	case MinusInfinity:
		switch {
		case b1 > 0:
			return MinusInfinity{}
		case b1 == 0:
			panic("0 * -∞")
		case b1 < 0:
			return PlusInfinity{}
		}
	}
	return nil
}

// Div computes b1 / b2. The semantics of division is:
//
//	.-----------------------------.
//	|   b1   |   b2   |  b1 / b2  |
//	|========|========|===========|
//	|  ∈ ℤ≠0 |  ∈ ℤ≠0 |  b1 / b2  |
//	|--------|--------|-----------|
//	|  ∈  ℤ  |  (-)∞  |     0     |
//	|--------|--------|-----------|
//	|  ∀ b1  |    0   |   panic   |
//	 -----------------------------
func (b1 FiniteBound) Div(b2 IntervalBound) IntervalBound {
	switch b2 := b2.(type) {
	case FiniteBound:
		switch {
		case b2 == 0 && b1 > 0:
			return PlusInfinity{}
		case b2 == 0 && b1 < 0:
			return MinusInfinity{}
		case b1 == 0 && b2 == 0:
			panic("0 / 0")
		}
		return b1 / b2
	case PlusInfinity:
		return FiniteBound(0)
	case MinusInfinity:
		return FiniteBound(0)
	}
	return nil
}

// Max computes max(b1, b2). The semantics of maximum is:
//
//	.-----------------------.
//	|   b2   | max(b1, b2)  |
//	|========|==============|
//	|  ∈  ℤ  | max(b1, b2)  |
//	|--------|--------------|
//	|   -∞   |      b1      |
//	|--------|--------------|
//	|    ∞   |      ∞       |
//	 -----------------------
func (b1 FiniteBound) Max(b2 IntervalBound) IntervalBound {
	switch b2 := b2.(type) {
	case FiniteBound:
		if b1 < b2 {
			return b2
		}
		return b1
	case PlusInfinity:
		return b2
	case MinusInfinity:
		return b1
	}
	return nil
}

// Min computes min(b1, b2). The semantics of minimum is:
//
//	.-----------------------.
//	|   b2   | min(b1, b2)  |
//	|========|==============|
//	|  ∈  ℤ  | min(b1, b2)  |
//	|--------|--------------|
//	|   -∞   |     -∞       |
//	|--------|--------------|
//	|    ∞   |      b1      |
//	 -----------------------
func (b1 FiniteBound) Min(b2 IntervalBound) IntervalBound {
	switch b2 := b2.(type) {
	case FiniteBound:
		if b1 < b2 {
			return b1
		}
		return b2
	case PlusInfinity:
		return b1
	case MinusInfinity:
		return b2
	}
	return nil
}

// IsInfinite is true for ∞.
func (PlusInfinity) IsInfinite() bool {
	return true
}

func (PlusInfinity) String() string {
	return colorize.Element("∞")
}

// Eq checks for interval bound equality.
func (PlusInfinity) Eq(b2 IntervalBound) bool {
	switch b2.(type) {
	case PlusInfinity:
		return true
	}
	return false
}

// Leq computes ∞ ≤ b.
func (PlusInfinity) Leq(b2 IntervalBound) bool {
	switch b2.(type) {
	case PlusInfinity:
		return true
	}
	return false
}

// Geq computes ∞ ≥ b. It is always true as ∞ is the largest possible bound.
func (PlusInfinity) Geq(IntervalBound) bool {
	return true
}

// Lt computes ∞ < b. It is always false as ∞ is the largest possible bound.
func (PlusInfinity) Lt(IntervalBound) bool {
	return false
}

// Gt computes ∞ > b.
func (PlusInfinity) Gt(b2 IntervalBound) bool {
	switch b2.(type) {
	case PlusInfinity:
		return false
	}
	return true
}

// Plus computes ∞ + b. The semantics of plus is:
//
//	.---------------------.
//	|    b    |   ∞ + b   |
//	|=========|===========|
//	|   ∈ ℤ   |     ∞     |
//	|---------|-----------|
//	|   -∞    |   panic   |
//	|---------|-----------|
//	|  	 ∞    |     ∞     |
//	 ---------------------
func (PlusInfinity) Plus(b2 IntervalBound) IntervalBound {
	switch b2.(type) {
	case MinusInfinity:
		panic("∞ - ∞")
	}
	return PlusInfinity{}
}

// Minus computes ∞ - b. The semantics of minus is:
//
//	.----------=----------.
//	|    b    |   ∞ - b   |
//	|=========|===========|
//	|   ∈ ℤ   |     ∞     |
//	|---------|-----------|
//	|  	-∞    |     ∞     |
//	|---------|-----------|
//	|  	 ∞    |   panic   |
//	 ---------------------
func (PlusInfinity) Minus(b2 IntervalBound) IntervalBound {
	switch b2.(type) {
	case PlusInfinity:
		panic("∞ - ∞")
	}
	return PlusInfinity{}
}

// Mult computes ∞ * b. The semantics of multiplication is:
//
//	.----------=----------.
//	|    b    |   ∞ * b   |
//	|=========|===========|
//	|   ∈ ℤ+  |     ∞     |
//	|---------|-----------|
//	|   ∈ ℤ-  |    -∞     |
//	|---------|-----------|
//	|  	 ∞    |     ∞     |
//	|---------|-----------|
//	|  0, -∞  |   panic   |
//	 ---------------------
func (PlusInfinity) Mult(b2 IntervalBound) IntervalBound {
	switch b2 := b2.(type) {
	case FiniteBound:
		switch {
		case b2 < 0:
			return MinusInfinity{}
		case b2 == 0:
			panic("∞ * 0")
		}
	case MinusInfinity:
		panic("∞ * -∞")
	}
	return PlusInfinity{}
}

// Div computes ∞ / b. The semantics of division is:
//
//	.--------------------.
//	|    b   |   ∞ / b   |
//	|========|===========|
//	|  ∈ ℤ+  |     ∞     |
//	|--------|-----------|
//	|  ∈ ℤ-  |    -∞     |
//	|--------|-----------|
//	|  (-)∞  |   panic   |
//	|--------|-----------|
//	|    0   |   panic   |
//	 --------------------
func (PlusInfinity) Div(b2 IntervalBound) IntervalBound {
	switch b2 := b2.(type) {
	case FiniteBound:
		switch {
		case b2 < 0:
			return MinusInfinity{}
		case b2 == 0:
			panic("∞ / 0")
		}
	case PlusInfinity:
		panic("∞ / ∞")
	case MinusInfinity:
		panic("∞ / -∞")
	}
	return PlusInfinity{}
}

// Max computes max(∞, b). The semantics of maximum is:
//
//	.----------------------.
//	|   b   |   max(∞, b)  |
//	|=======|==============|
//	|  ∀ b  |      ∞       |
//	 ----------------------
func (PlusInfinity) Max(IntervalBound) IntervalBound {
	return PlusInfinity{}
}

// Min computes min(∞, b). The semantics of minimum is:
//
//	.----------------------.
//	|   b   |   min(∞, b)  |
//	|=======|==============|
//	|  ∀ b  |      b       |
//	 ----------------------
func (PlusInfinity) Min(b2 IntervalBound) IntervalBound {
	return b2
}

// IsInfinite is true for -∞.
func (MinusInfinity) IsInfinite() bool {
	return true
}

func (MinusInfinity) String() string {
	return colorize.Element("-∞")
}

// Eq computes -∞ = b.
func (MinusInfinity) Eq(b2 IntervalBound) bool {
	switch b2.(type) {
	case MinusInfinity:
		return true
	}
	return false
}

// Leq computes -∞ ≤ b. It is always true as -∞ is the smallest possible bound.
func (MinusInfinity) Leq(IntervalBound) bool {
	return true
}

// Geq computes -∞ ≥ b.
func (MinusInfinity) Geq(b2 IntervalBound) bool {
	switch b2.(type) {
	case MinusInfinity:
		return true
	}
	return false
}

// Lt computes -∞ < b.
func (MinusInfinity) Lt(b2 IntervalBound) bool {
	switch b2.(type) {
	case MinusInfinity:
		return false
	}
	return true
}

// Gt computes -∞ > b. It is always false as -∞ is the smallest possible bound.
func (MinusInfinity) Gt(IntervalBound) bool {
	return false
}

// Plus computes -∞ + b. The semantics of plus is:
//
//	.---------------------.
//	|    b    |  -∞ + b   |
//	|=========|===========|
//	|   ∈ ℤ   |    -∞     |
//	|---------|-----------|
//	|   -∞    |    -∞     |
//	|---------|-----------|
//	|  	 ∞    |   panic   |
//	 ---------------------
func (MinusInfinity) Plus(b IntervalBound) IntervalBound {
	switch b.(type) {
	case PlusInfinity:
		panic("-∞ + ∞")
	}
	return MinusInfinity{}
}

// Minus computes -∞ - b. The semantics of minus is:
//
//	.---------------------.
//	|    b    |  -∞ - b   |
//	|=========|===========|
//	|   ∈ ℤ   |    -∞     |
//	|---------|-----------|
//	|  	-∞    |   panic   |
//	|---------|-----------|
//	|  	 ∞    |    -∞     |
//	 ---------------------
func (MinusInfinity) Minus(b IntervalBound) IntervalBound {
	switch b.(type) {
	case MinusInfinity:
		panic("-∞ - (-∞)")
	}
	return MinusInfinity{}
}

// Mult computes -∞ * b. The semantics of multiplication is:
//
//	.---------------------.
//	|    b    |  -∞ * b   |
//	|=========|===========|
//	|   ∈ ℤ+  |    -∞     |
//	|---------|-----------|
//	|   ∈ ℤ-  |     ∞     |
//	|---------|-----------|
//	|  	-∞    |     ∞     |
//	|---------|-----------|
//	|  0, ∞   |   panic   |
//	 ---------------------
func (MinusInfinity) Mult(b IntervalBound) IntervalBound {
	switch b := b.(type) {
	case FiniteBound:
		switch {
		case b == 0:
			panic("-∞ * 0")
		case b < 0:
			return PlusInfinity{}
		}
	case PlusInfinity:
		panic("-∞ * ∞")
	case MinusInfinity:
		return PlusInfinity{}
	}
	return MinusInfinity{}
}

// Div computes -∞ / b. The semantics of division is:
//
//	.---------------------.
//	|    b    |  -∞ / b   |
//	|=========|===========|
//	|   ∈ ℤ+  |    -∞     |
//	|---------|-----------|
//	|   ∈ ℤ-  |     ∞     |
//	|---------|-----------|
//	|   (-)∞  |   panic   |
//	|---------|-----------|
//	|    0    |   panic   |
//	 ---------------------
func (MinusInfinity) Div(b IntervalBound) IntervalBound {
	switch b := b.(type) {
	case FiniteBound:
		switch {
		case b < 0:
			return PlusInfinity{}
		case b == 0:
			panic("-∞ / 0")
		}
	case PlusInfinity:
		panic("-∞ / ∞")
	case MinusInfinity:
		panic("-∞ / -∞")
	}
	return MinusInfinity{}
}

// Max computes max(-∞, b). The semantics of maximum is:
//
//	.----------------------.
//	|   b   |  max(-∞, b)  |
//	|=======|==============|
//	|  ∀ b  |      b       |
//	 ----------------------
func (MinusInfinity) Max(b IntervalBound) IntervalBound {
	return b
}

// Min computes min(-∞, b). The semantics of minimum is:
//
//	.----------------------.
//	|   b   |  min(-∞, b)  |
//	|=======|==============|
//	|  ∀ b  |     -∞       |
//	 ----------------------
func (MinusInfinity) Min(b IntervalBound) IntervalBound {
	return MinusInfinity{}
}
