// Package allocator assigns plan tasks to vehicles.
//
// Each profile keeps an allocation list seeded from its roster. A task is
// offered to the vehicles of its profile in list order; the first available
// vehicle that accepts the plan is moved to the back of the list so that the
// next task of the same profile starts with a different vehicle. Tasks that
// no vehicle accepts wait in a FIFO pending queue until a vehicle of their
// profile reports that it became available.
//
// The service holds a single lock over lists and queues and never calls the
// availability oracle or the transport while holding it.
package allocator
