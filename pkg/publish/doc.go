// Package publish fans a finished run out to other systems.
//
// RedisPublisher sends one JSON Event per run to a Redis Pub/Sub channel so
// dashboards can refresh without polling the usage file. Publishing is
// best effort; the caller logs failures and carries on.
package publish
