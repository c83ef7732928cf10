package cache

import (
	"context"
	"time"
)

// None is the cache of the "none" backend. Every Get misses and Set
// discards its data, so each render runs the full pipeline.
var None Cache = none{}

type none struct{}

func (none) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (none) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (none) Delete(context.Context, string) error                     { return nil }
func (none) Close() error                                             { return nil }
