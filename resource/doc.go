// Package resource stores shared pointers behind integer handles.
//
// A table entry is one more owner of the value it stores. Handing out an
// integer keeps the value alive for code that cannot hold a *shared.Ptr
// directly, such as a WASM guest or a map keyed by id.
//
// # Handle Table
//
//	table := resource.NewTable[*Conn]()
//
//	p := shared.New(conn)
//	h := table.Insert(p) // the table now owns a second reference
//	p.Release()
//
//	// Get returns a new owner; release it when done
//	c, ok := table.Get(h)
//	defer c.Release()
//
//	// Remove releases the table's reference
//	table.Remove(h)
//
// Handle 0 is never issued. Freed handles are reused.
//
// # Borrows
//
// Borrow pins an entry: Remove and LocalBackend.Drop refuse it until every
// borrow is returned.
//
// # Observers
//
//	table.Subscribe(resource.ObserverFunc[*Conn](func(e resource.Event[*Conn]) {
//	    log.Printf("%s %d", e.Type, e.Handle)
//	}))
//
// Observe returns a weak handle, which expires once the table and every
// other owner have released the value.
//
// # Closing
//
// Close releases every stored reference. Values whose last owner was the
// table are finalized by their deleters during Close.
package resource
