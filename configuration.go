package depot

// Configuration is the complete state ReplaceConfiguration installs.
type Configuration struct {
	// Autoload leaves the current flag unchanged when nil.
	Autoload *bool
	Services map[string]Definition
	// Aliases maps alias to canonical name.
	Aliases map[string]string
}

// Bool returns a pointer to b, for Configuration.Autoload.
func Bool(b bool) *bool {
	return &b
}
