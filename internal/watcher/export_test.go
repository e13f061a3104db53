package watcher

// SetSizeFunc replaces how w measures the watched file. Call before Start.
func SetSizeFunc(w *Watcher, fn func(string) int64) {
	w.sizeOf = fn
}
