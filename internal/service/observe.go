package service

// observers is a subscriber list guarded by the owning component's mutex.
type observers[T any] struct {
	next int
	list []observer[T]
}

type observer[T any] struct {
	id int
	fn func(T)
}

func (o *observers[T]) add(fn func(T)) int {
	o.next++
	o.list = append(o.list, observer[T]{id: o.next, fn: fn})
	return o.next
}

func (o *observers[T]) remove(id int) {
	for i, ob := range o.list {
		if ob.id == id {
			o.list = append(o.list[:i:i], o.list[i+1:]...)
			return
		}
	}
}

// snapshot copies the callbacks so they can run after the lock is released.
func (o *observers[T]) snapshot() []func(T) {
	fns := make([]func(T), len(o.list))
	for i, ob := range o.list {
		fns[i] = ob.fn
	}
	return fns
}

func notify[T any](fns []func(T), v T) {
	for _, fn := range fns {
		fn(v)
	}
}
