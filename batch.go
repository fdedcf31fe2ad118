package depot

// ServiceEntry pairs a service name with its definition for batch configuration.
type ServiceEntry struct {
	Name       string
	Definition Definition
}

// Entry creates a ServiceEntry for batch configuration.
//
// Example:
//
//	depot.DefineServices(c,
//	    depot.Entry("db", depot.ClassSpec{Class: "database", Autowire: true}),
//	    depot.Entry("cache", depot.FactorySpec{Factory: depot.Func(NewCache)}),
//	)
func Entry(name string, def Definition) ServiceEntry {
	return ServiceEntry{
		Name:       name,
		Definition: def,
	}
}

// DefineServices sets the configuration of multiple services in a single call.
// Later entries overwrite earlier ones with the same name.
func DefineServices(c *Container, entries ...ServiceEntry) {
	for _, e := range entries {
		c.SetServiceConfiguration(e.Name, e.Definition)
	}
}

// KeyedEntry creates a ServiceEntry from a typed service key.
//
// Example:
//
//	var DatabaseKey = depot.NewServiceKey[*Database]("database")
//
//	depot.DefineServices(c,
//	    depot.KeyedEntry(DatabaseKey, depot.ClassSpec{Class: "database", Autowire: true}),
//	)
func KeyedEntry[T any](key ServiceKey[T], def Definition) ServiceEntry {
	return Entry(key.name, def)
}
