package breadcrumb

// Owner is the navigable unit a filter produces an entry for.
type Owner interface {
	// ID returns the owner's identifier, compared with the request's module id.
	ID() string
}

// PropertyOwner exposes named properties. Filters without an explicit label
// read Config.LabelParam through it.
type PropertyOwner interface {
	Owner
	HasProperty(name string) bool
	Property(name string) (interface{}, error)
}

// MethodOwner exposes named route-producing methods for MethodRoute creators.
type MethodOwner interface {
	Owner
	HasMethod(name string) bool
	CallMethod(name string) (string, error)
}
