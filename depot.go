// Package depot is a service container that builds services by name.
//
// A service is described by a Definition: a registered type built with
// explicit or autowired constructor arguments (ClassSpec), a factory call
// (FactorySpec), or a closure (ClosureSpec). Names without a definition are
// autoloaded when they name a type known to the container's TypeSource.
//
//	types := depot.NewTypeTable()
//	types.Register(NewMailer)
//	types.Register(NewNewsletter, depot.WithTypeName("newsletter"))
//
//	c := depot.New(depot.WithTypes(types))
//	c.SetServiceConfiguration("weekly", depot.ClassSpec{
//	    Class:    "newsletter",
//	    Autowire: true,
//	})
//
//	weekly, err := depot.Get[*Newsletter](c, "weekly")
//
// Get caches what it builds; GetNew always builds a fresh instance. Every
// error returned by either matches ErrLoadServiceSentinel under errors.Is.
package depot
