package store

import (
	"errors"
	"slices"
)

var (
	// ErrUnbound is returned when reading a Ref before Bind was called.
	ErrUnbound = errors.New("store: ref read before bind")
	// ErrCycle is returned when a Derived is read from inside its own compute function.
	ErrCycle = errors.New("store: derived value read during its own computation")
)

// Unsubscriber removes a subscription. Calling it more than once is a no-op.
type Unsubscriber func()

// Source is anything that notifies subscribers when its value changes.
type Source interface {
	Subscribe(fn func()) Unsubscriber
}

// Readable is a Source whose current value can be read.
type Readable[T any] interface {
	Source
	Get() (T, error)
}

// versioned is implemented by the stores of this package. The version
// changes whenever the value may have changed.
type versioned interface {
	version() (uint64, bool)
}

// versionOf returns the version of src. ok is false for sources that do not
// track versions; a Derived over such a source recomputes on every
// unobserved Get.
func versionOf(src Source) (v uint64, ok bool) {
	if vs, isVersioned := src.(versioned); isVersioned {
		return vs.version()
	}
	return 0, false
}

type subscriber struct {
	id int
	fn func()
}

// subscribers is an ordered listener list. Notification iterates over a
// snapshot so listeners may unsubscribe while being notified.
type subscribers struct {
	next    int
	entries []subscriber
}

func (s *subscribers) add(fn func()) Unsubscriber {
	id := s.next
	s.next++
	s.entries = append(s.entries, subscriber{id: id, fn: fn})
	return func() {
		for i, e := range s.entries {
			if e.id == id {
				s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
				return
			}
		}
	}
}

func (s *subscribers) notify() {
	for _, e := range slices.Clone(s.entries) {
		e.fn()
	}
}

func (s *subscribers) count() int {
	return len(s.entries)
}

// Writable is a mutable value that notifies its subscribers on every Set.
type Writable[T any] struct {
	value T
	ver   uint64
	subs  subscribers
}

// NewWritable creates a Writable holding initial.
func NewWritable[T any](initial T) *Writable[T] {
	return &Writable[T]{value: initial}
}

// Get returns the current value. It never fails.
func (w *Writable[T]) Get() (T, error) {
	return w.value, nil
}

// Value returns the current value.
func (w *Writable[T]) Value() T {
	return w.value
}

// Set stores v and notifies subscribers.
func (w *Writable[T]) Set(v T) {
	w.value = v
	w.ver++
	w.subs.notify()
}

// Update applies transform to the current value and stores the result.
func (w *Writable[T]) Update(transform func(T) T) {
	w.Set(transform(w.value))
}

// Subscribe registers fn to be called after every Set.
func (w *Writable[T]) Subscribe(fn func()) Unsubscriber {
	return w.subs.add(fn)
}

// ListenerCount returns the number of active subscriptions.
func (w *Writable[T]) ListenerCount() int {
	return w.subs.count()
}

func (w *Writable[T]) version() (uint64, bool) {
	return w.ver, true
}

// Derived is a value computed from other sources. It recomputes lazily on
// the first Get after any dependency changed, and caches both the value and
// the error of the last computation.
//
// A Derived subscribes to its dependencies only while it has subscribers.
type Derived[T any] struct {
	compute   func() (T, error)
	deps      []Source
	value     T
	err       error
	ver       uint64
	seen      []uint64
	dirty     bool
	computing bool
	live      bool
	closed    bool
	subs      subscribers
	unsubs    []Unsubscriber
}

// Derive creates a Derived over deps. compute is responsible for reading the
// dependencies it needs; deps only determines when the value goes stale.
func Derive[T any](compute func() (T, error), deps ...Source) *Derived[T] {
	return &Derived[T]{compute: compute, deps: deps, dirty: true}
}

// Derive1 derives a value from a single input.
func Derive1[A, T any](a Readable[A], fn func(A) (T, error)) *Derived[T] {
	return Derive(func() (T, error) {
		av, err := a.Get()
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(av)
	}, a)
}

// Derive2 derives a value from two inputs.
func Derive2[A, B, T any](a Readable[A], b Readable[B], fn func(A, B) (T, error)) *Derived[T] {
	return Derive(func() (T, error) {
		var zero T
		av, err := a.Get()
		if err != nil {
			return zero, err
		}
		bv, err := b.Get()
		if err != nil {
			return zero, err
		}
		return fn(av, bv)
	}, a, b)
}

// Derive3 derives a value from three inputs.
func Derive3[A, B, C, T any](a Readable[A], b Readable[B], c Readable[C], fn func(A, B, C) (T, error)) *Derived[T] {
	return Derive(func() (T, error) {
		var zero T
		av, err := a.Get()
		if err != nil {
			return zero, err
		}
		bv, err := b.Get()
		if err != nil {
			return zero, err
		}
		cv, err := c.Get()
		if err != nil {
			return zero, err
		}
		return fn(av, bv, cv)
	}, a, b, c)
}

// Map derives a value from a single input with an infallible function.
func Map[A, T any](a Readable[A], fn func(A) T) *Derived[T] {
	return Derive1(a, func(av A) (T, error) {
		return fn(av), nil
	})
}

func (d *Derived[T]) invalidate() {
	// Already dirty means every subscriber was told and nobody has read since.
	if d.dirty {
		return
	}
	d.dirty = true
	d.subs.notify()
}

// stale reports whether the cached value must be recomputed.
func (d *Derived[T]) stale() bool {
	if d.dirty {
		return true
	}
	if d.live || d.closed {
		return false
	}
	return !d.current()
}

// current reports whether every dependency still has the version seen by
// the last computation.
func (d *Derived[T]) current() bool {
	if len(d.seen) != len(d.deps) {
		return false
	}
	for i, dep := range d.deps {
		if v, ok := versionOf(dep); !ok || v != d.seen[i] {
			return false
		}
	}
	return true
}

// versions snapshots the dependency versions. It returns nil when a
// dependency does not track versions.
func (d *Derived[T]) versions() []uint64 {
	seen := make([]uint64, len(d.deps))
	for i, dep := range d.deps {
		v, ok := versionOf(dep)
		if !ok {
			return nil
		}
		seen[i] = v
	}
	return seen
}

// Get returns the cached value, recomputing it first if it is stale.
func (d *Derived[T]) Get() (T, error) {
	if d.computing {
		var zero T
		return zero, ErrCycle
	}
	if d.stale() {
		d.computing = true
		d.seen = d.versions()
		v, err := d.compute()
		d.computing = false
		d.value, d.err = v, err
		d.dirty = false
		d.ver++
	}
	return d.value, d.err
}

func (d *Derived[T]) version() (uint64, bool) {
	_, _ = d.Get()
	return d.ver, true
}

// Subscribe registers fn to be called whenever the value goes stale. The
// first subscription attaches the Derived to its dependencies; removing the
// last one detaches it again.
func (d *Derived[T]) Subscribe(fn func()) Unsubscriber {
	if !d.live && !d.closed {
		d.connect()
	}
	unsub := d.subs.add(fn)
	return func() {
		unsub()
		if d.subs.count() == 0 {
			d.disconnect()
		}
	}
}

func (d *Derived[T]) connect() {
	// A change missed while detached must not be lost once notifications
	// take over.
	if !d.dirty && !d.current() {
		d.dirty = true
	}
	d.live = true
	for _, dep := range d.deps {
		d.unsubs = append(d.unsubs, dep.Subscribe(d.invalidate))
	}
}

func (d *Derived[T]) disconnect() {
	for _, unsub := range d.unsubs {
		unsub()
	}
	d.unsubs = nil
	d.live = false
}

// ListenerCount returns the number of active subscriptions.
func (d *Derived[T]) ListenerCount() int {
	return d.subs.count()
}

// Close detaches the Derived from its dependencies. The last value remains
// readable but will never be recomputed.
func (d *Derived[T]) Close() {
	d.disconnect()
	d.closed = true
}

// Ref is a Readable placeholder for a store that is created later.
type Ref[T any] struct {
	target Readable[T]
	unsub  Unsubscriber
	ver    uint64
	subs   subscribers
}

// NewRef creates an unbound Ref.
func NewRef[T any]() *Ref[T] {
	return &Ref[T]{}
}

// Bind points the Ref at target and notifies subscribers. Rebinding detaches
// from the previous target.
func (r *Ref[T]) Bind(target Readable[T]) {
	if r.unsub != nil {
		r.unsub()
	}
	r.target = target
	r.unsub = target.Subscribe(r.changed)
	r.changed()
}

func (r *Ref[T]) changed() {
	r.ver++
	r.subs.notify()
}

func (r *Ref[T]) version() (uint64, bool) {
	if r.target == nil {
		return r.ver, true
	}
	if _, ok := versionOf(r.target); !ok {
		return 0, false
	}
	return r.ver, true
}

// Bound reports whether Bind has been called.
func (r *Ref[T]) Bound() bool {
	return r.target != nil
}

// Get reads the bound store. It returns ErrUnbound before Bind.
func (r *Ref[T]) Get() (T, error) {
	if r.target == nil {
		var zero T
		return zero, ErrUnbound
	}
	return r.target.Get()
}

// Subscribe registers fn to be called whenever the bound store changes.
// Subscriptions made before Bind carry over.
func (r *Ref[T]) Subscribe(fn func()) Unsubscriber {
	return r.subs.add(fn)
}

type readonly[T any] struct {
	inner Readable[T]
}

func (r readonly[T]) Get() (T, error)                  { return r.inner.Get() }
func (r readonly[T]) Subscribe(fn func()) Unsubscriber { return r.inner.Subscribe(fn) }
func (r readonly[T]) version() (uint64, bool)          { return versionOf(r.inner) }

// ReadOnly hides any write methods of r behind a plain Readable.
func ReadOnly[T any](r Readable[T]) Readable[T] {
	return readonly[T]{inner: r}
}

type static[T any] struct {
	value T
}

func (s static[T]) Get() (T, error)               { return s.value, nil }
func (s static[T]) Subscribe(func()) Unsubscriber { return func() {} }
func (s static[T]) version() (uint64, bool)       { return 0, true }

// Static returns a Readable that always yields v and never notifies.
func Static[T any](v T) Readable[T] {
	return static[T]{value: v}
}

// MustGet reads r and panics on error. It is meant for tests and for stores
// that cannot fail, such as Writable and Static.
func MustGet[T any](r Readable[T]) T {
	v, err := r.Get()
	if err != nil {
		panic(err)
	}
	return v
}
