package state

import (
	"context"
	"fmt"
)

// Options selects and configures a storage backend.
type Options struct {
	Type string
	Path string
	Addr string
}

// Store is the whole-record durable backend. There is no merge or patch
// operation: load and save move the entire document, which is what makes
// the session's single-load/single-save discipline sufficient.
type Store interface {
	// Load returns the stored document, or the default document if none
	// exists. It fails only for transport errors, never for "not found".
	Load(ctx context.Context) (State, error)
	// Save overwrites the entire document. Callers must not assume
	// partial writes are visible.
	Save(ctx context.Context, st State) error
	// Clear deletes the document, resetting to default on next Load.
	Clear(ctx context.Context) error
	Close(ctx context.Context) error
}

var factoryFuncs = map[string]func(Options) (Store, error){}

func RegisterFactory(storageType string, fn func(Options) (Store, error)) {
	factoryFuncs[storageType] = fn
}

func Open(opts Options) (Store, error) {
	storageType := opts.Type
	if storageType == "" {
		storageType = "sqlite"
	}

	fn, exists := factoryFuncs[storageType]
	if !exists {
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}

	return fn(opts)
}
