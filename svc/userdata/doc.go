// Package userdata holds the per-user snapshots that the refresh
// coordinator keeps up to date: reservations, notifications, dashboard,
// payments and receipts.
//
// MemoryStore keeps them in an LRU cache inside the process; RedisStore
// shares them through Redis. Operations binds reservation API fetches to a
// store so they can be handed to refresh.New.
package userdata
