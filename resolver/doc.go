// Package resolver follows PDF indirect references.
//
// [Resolver.Resolve] walks a chain of references ("5 0 R" pointing at
// "6 0 R" and so on) to the first direct object. [Resolver.ResolveDeep]
// expands every reference inside an object tree:
//
//	r := resolver.New(reader, resolver.WithMaxDepth(32))
//	dict, err := r.ResolveDeep(page.Dict())
//
// Both detect cycles ([ErrCycle]) and bound their work ([ErrTooDeep]).
package resolver
