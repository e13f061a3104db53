package testutil

// acronymData holds the keys of one acronym in the order they are written.
type acronymData struct {
	id   string
	keys []keyValue
}

// AcronymOption configures an acronym during builder setup.
type AcronymOption func(*acronymData)

// LongSuffix sets long-<class>, appended to the long form for that class.
func LongSuffix(class, suffix string) AcronymOption {
	return Key("long-"+class, suffix)
}

// ShortSuffix sets short-<class>, appended to the short form for that class.
func ShortSuffix(class, suffix string) AcronymOption {
	return Key("short-"+class, suffix)
}

// LongForm sets long-<class>-form, which replaces the long form outright.
func LongForm(class, form string) AcronymOption {
	return Key("long-"+class+"-form", form)
}

// ShortForm sets short-<class>-form, which replaces the short form outright.
func ShortForm(class, form string) AcronymOption {
	return Key("short-"+class+"-form", form)
}

// Key adds an arbitrary key, for entries the loader should ignore or reject.
func Key(key string, value any) AcronymOption {
	return func(a *acronymData) {
		a.keys = append(a.keys, keyValue{key, value})
	}
}
