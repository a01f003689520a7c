// Package store provides the reactive value primitive the view model is built
// on: a value that can be read and that notifies on change, and a way to
// derive a new such value from one or more inputs.
//
// # Model
//
// Recomputation is synchronous and push-notified, pull-evaluated:
//
//   - A Writable holds a value. Set stores the value and notifies subscribers.
//   - A Derived holds a compute function over its dependencies. It subscribes
//     to them only while it has subscribers of its own. While subscribed, a
//     dependency notification marks it dirty and is passed on. Without
//     subscribers it compares dependency versions on Get instead, so a
//     Derived nobody listens to holds no subscriptions and can be dropped.
//     The compute function runs on the next Get after a change.
//   - A Ref is a forward declaration: a Readable that can be handed out before
//     the store it stands for exists, and is bound to that store later.
//
// A dirty Derived does not notify again until it has been read, so a diamond
// of dependencies recomputes each node at most once per read.
//
// Stores are NOT thread-safe. All access must happen on one goroutine.
package store
