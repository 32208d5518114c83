package notebridge_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	notebridge "github.com/goliatone/go-notebridge"
	"github.com/goliatone/go-notebridge/internal/di"
	"github.com/goliatone/go-notebridge/pkg/interfaces"
)

type fakeAPI struct {
	metadata map[string]*interfaces.ResourceMetadata
	data     map[string][]byte
	fetches  int
}

func (f *fakeAPI) Metadata(ctx context.Context, id string) (*interfaces.ResourceMetadata, error) {
	return f.metadata[id], nil
}

func (f *fakeAPI) Data(ctx context.Context, id string) ([]byte, error) {
	f.fetches++
	return f.data[id], nil
}

func TestModuleResolvesInline(t *testing.T) {
	id := strings.Repeat("a", 32)
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	api := &fakeAPI{
		metadata: map[string]*interfaces.ResourceMetadata{
			id: {ID: id, Mime: "image/png"},
		},
		data: map[string][]byte{id: payload},
	}

	module, err := notebridge.New(notebridge.DefaultConfig(), di.WithResourceAPI(api))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	body := "before ![photo](:/" + id + ") after"
	result, err := module.Resolver().Resolve(context.Background(), body, notebridge.ResolveOptions{})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := "before ![photo](data:image/png;base64," + base64.StdEncoding.EncodeToString(payload) + ") after"
	if result.Body != want {
		t.Fatalf("unexpected body:\n got %q\nwant %q", result.Body, want)
	}
	if result.Stats.Succeeded != 1 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
}

func TestModuleCacheRoundTrip(t *testing.T) {
	id := strings.Repeat("b", 32)
	api := &fakeAPI{
		metadata: map[string]*interfaces.ResourceMetadata{
			id: {ID: id, Mime: "image/jpeg"},
		},
		data: map[string][]byte{id: []byte("jpeg-bytes")},
	}

	module, err := notebridge.New(notebridge.DefaultConfig(), di.WithResourceAPI(api))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	body := "![x](:/" + id + ")"
	if _, err := module.Resolver().Resolve(context.Background(), body, notebridge.ResolveOptions{}); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	result, err := module.Resolver().Resolve(context.Background(), body, notebridge.ResolveOptions{})
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if api.fetches != 1 {
		t.Fatalf("expected one payload fetch, got %d", api.fetches)
	}
	if result.Stats.CacheHits != 1 {
		t.Fatalf("expected cache hit, got %+v", result.Stats)
	}
	if module.CacheStats().Hits == 0 {
		t.Fatal("expected cache hit counters on the module facade")
	}
	if module.CacheHitRatio() <= 0 {
		t.Fatal("expected positive cache hit ratio")
	}

	module.ClearCache()
	if module.CacheStats().Size != 0 {
		t.Fatal("expected empty cache after ClearCache")
	}
}
