package redq

type Options struct {
	Prefix string
}

type Option func(*Options)

// WithPrefix sets the namespace prepended to every queue and key name in the
// store ("<prefix>:<name>"). Defaults to "redq".
func WithPrefix(prefix string) Option {
	return func(o *Options) { o.Prefix = prefix }
}

func defaultOptions() Options {
	return Options{Prefix: "redq"}
}
