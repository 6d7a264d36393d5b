package object

// Extend looks up o's type in its profile's object_classes table and, if
// one is registered, applies it to build an extended view — a value
// carrying domain methods beyond generic field access (a class on a VAD
// root might add a traverse() that walks the tree in order, while the
// underlying field access stays engine-driven).
//
// Grounded on the Volatility object_classes dictionary, reworked from a
// dynamic runtime lookup into a small registry keyed by
// (profile, type_name) mapping to a constructor func(*Object) any;
// Extend is the explicit request for that constructed view. The caller
// knows what concrete type to expect back and type-asserts it
// themselves; Extend returns (nil, false) if o is a sentinel or has no
// registered class.
func (o *Object) Extend() (any, bool) {
	if o.IsSentinel() || o.typeName == "" {
		return nil, false
	}
	factory, ok := o.prof.ObjectClass(o.typeName)
	if !ok {
		return nil, false
	}
	return factory(o), true
}
