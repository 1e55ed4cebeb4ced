package hash

// Distance returns the number of bit positions at which a and b differ.
// All 64 positions are compared, so leading zeros in either operand count.
func Distance(a, b uint64) uint8 {
	var count uint8
	for i := 0; i < 64; i++ {
		if (a>>i)&1 != (b>>i)&1 {
			count++
		}
	}
	return count
}
