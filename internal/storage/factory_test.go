package storage

import "testing"

func TestNewStoreMemory(t *testing.T) {
	store, err := NewStore("memory", "")
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	if store == nil {
		t.Fatal("expected non-nil store")
	}
	if err := CloseIfSupported(store); err != nil {
		t.Fatalf("close memory store: %v", err)
	}
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("unknown", "")
	if err == nil {
		t.Fatal("expected unsupported store error")
	}
}

func TestDefaultStoreKindIsConstructible(t *testing.T) {
	store, err := NewStore(DefaultStoreKind(), t.TempDir()+"/onemax.db")
	if err != nil {
		t.Fatalf("new default store: %v", err)
	}
	_ = CloseIfSupported(store)
}
