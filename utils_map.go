package nostrnode

import "github.com/puzpuzpuz/xsync/v3"

type MapOf[K comparable, V any] = xsync.MapOf[K, V]

func NewMapOf[K comparable, V any]() *MapOf[K, V] {
	return xsync.NewMapOf[K, V]()
}
