package vm

// stepChecked adds delta to v. ok is false when the sum wraps around int64.
func stepChecked(v, delta int64) (sum int64, ok bool) {
	sum = v + delta
	// переполнение меняет знак результата относительно ожидаемого
	return sum, (sum > v) == (delta > 0)
}
