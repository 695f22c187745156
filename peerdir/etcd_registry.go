// Package peerdir: etcd-backed peer directory.
//
// etcd is used as a distributed phonebook for peer endpoints:
//
//	Key:   /sideband/peers/{PeerId}/{Addr}
//	Value: JSON-encoded ServiceInstance
//
// Generalized from the teacher's registry.EtcdRegistry (key space
// /mini-rpc/{ServiceName}/{Addr}) — the TTL-lease and KeepAlive mechanics
// are unchanged in shape, but every entry point now speaks the core's own
// identity.PeerID type and rejects an instance advertising a handshake
// protocol version this build doesn't speak, instead of blindly storing
// whatever JSON a caller hands it.
package peerdir

import (
	"context"
	"encoding/json"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/sideband/core/identity"
)

const etcdKeyPrefix = "/sideband/peers/"

func etcdKey(peerID identity.PeerID, addr string) string {
	return etcdKeyPrefix + peerID.String() + "/" + addr
}

func etcdPrefix(peerID identity.PeerID) string {
	return etcdKeyPrefix + peerID.String() + "/"
}

// EtcdRegistry implements Registry using etcd v3.
type EtcdRegistry struct {
	client *clientv3.Client // thread-safe, shared across goroutines
}

// NewEtcdRegistry connects to the given etcd endpoints.
func NewEtcdRegistry(endpoints []string) (*EtcdRegistry, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints: endpoints,
	})
	if err != nil {
		return nil, err
	}
	return &EtcdRegistry{client: c}, nil
}

// Register validates instance, grants a TTL lease, puts the instance
// under it, and starts a background KeepAlive. leaseID is a local
// variable, never stored on the struct, so sharing one EtcdRegistry
// across goroutines stays race-free.
//
// The KeepAlive goroutine is deliberately tied to context.Background(),
// not to the context.TODO() used for Grant/Put below: a lease must
// outlive the Register call that created it, for as long as the peer
// keeps running, so it cannot inherit a context scoped to this one
// method call.
func (r *EtcdRegistry) Register(peerID identity.PeerID, instance ServiceInstance, ttl time.Duration) error {
	if err := validateInstance(instance); err != nil {
		return err
	}

	ctx := context.TODO()

	lease, err := r.client.Grant(ctx, leaseSeconds(ttl))
	if err != nil {
		return err
	}

	val, err := json.Marshal(instance)
	if err != nil {
		return err
	}

	_, err = r.client.Put(ctx, etcdKey(peerID, instance.Addr), string(val), clientv3.WithLease(lease.ID))
	if err != nil {
		return err
	}

	ch, err := r.client.KeepAlive(context.Background(), lease.ID)
	if err != nil {
		return err
	}

	go func() {
		for range ch {
		}
	}()
	return nil
}

// Deregister removes a peer's instance from etcd.
func (r *EtcdRegistry) Deregister(peerID identity.PeerID, addr string) error {
	ctx := context.TODO()
	_, err := r.client.Delete(ctx, etcdKey(peerID, addr))
	return err
}

// Watch monitors a peer's key prefix and emits the full instance list on
// every change, re-fetched via Discover rather than parsed from
// individual watch events.
func (r *EtcdRegistry) Watch(peerID identity.PeerID) <-chan []ServiceInstance {
	ctx := context.Background()
	ch := make(chan []ServiceInstance, 1)
	prefix := etcdPrefix(peerID)

	go func() {
		watchChan := r.client.Watch(ctx, prefix, clientv3.WithPrefix())
		for range watchChan {
			instances, _ := r.Discover(peerID)
			ch <- instances
		}
	}()

	return ch
}

// Discover queries etcd for all instances under peerID's key prefix.
func (r *EtcdRegistry) Discover(peerID identity.PeerID) ([]ServiceInstance, error) {
	ctx := context.TODO()
	prefix := etcdPrefix(peerID)

	resp, err := r.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	instances := make([]ServiceInstance, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var instance ServiceInstance
		if err := json.Unmarshal(kv.Value, &instance); err != nil {
			continue // skip malformed entries
		}
		instances = append(instances, instance)
	}

	return instances, nil
}
