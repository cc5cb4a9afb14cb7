// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface, which defines its name, an
// enabled switch and route registration:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps the registry and loads every enabled feature via
// LoadAll. The serve command registers the catalog feature this way.
package loader
