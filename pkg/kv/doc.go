// Package kv provides the shared ephemeral store the signalkit core coordinates
// through: a small key-value contract with TTL-aware writes, an atomic
// create-if-absent primitive, and an atomic increment-with-expiry primitive.
//
// Two implementations are included:
//
//   - RedisStore wraps the go-redis client for production deployments where
//     multiple request handlers share one store.
//   - MemoryStore keeps everything in process memory with the same semantics,
//     intended for tests and single-node development setups.
//
// The atomicity of SetNX and IncrBy is the only correctness-critical property
// the rest of the kit relies on; see pkg/ledger and pkg/quota.
//
// # Usage
//
//	client, err := kv.Connect(ctx, kv.Config{ConnectionURL: "redis://localhost:6379/0"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	store := kv.NewRedisStore(client)
//	n, err := store.IncrBy(ctx, "quota:signals:acc:2024-01-02", 1, time.Hour)
//
// # Errors
//
// A missing key is reported as ErrNotFound. Every transport or server failure
// is wrapped in ErrUnavailable so callers can distinguish "the store said no"
// from "the store did not answer". The two must never be conflated, because
// the quota gate and the idempotency ledger fail closed on the latter.
package kv
