// Package redis connects to the Redis server that backs the shared snapshot
// store of the booking client.
//
//	client, err := redis.Connect(ctx, cfg, log)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Healthcheck returns a probe suitable for the sandbox health endpoint.
package redis
