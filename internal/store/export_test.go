package store

// SetNowMillisForTest overrides the store's clock and returns a restore
// function.
func SetNowMillisForTest(f func() int64) func() {
	prev := nowMillis
	nowMillis = f
	return func() {
		nowMillis = prev
	}
}
