package unsplash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchRequest_URL(t *testing.T) {
	tests := []struct {
		name string
		req  FetchRequest
		want string
	}{
		{
			name: "collection without query",
			req:  FetchRequest{Size: NewSize(1920, 1080), CollectionID: "nature"},
			want: "https://source.unsplash.com/collection/nature/1920x1080/",
		},
		{
			name: "random with query",
			req:  FetchRequest{Size: NewSize(800, 600), SearchQuery: "cats"},
			want: "https://source.unsplash.com/random/800x600/?cats",
		},
		{
			name: "random without filters",
			req:  FetchRequest{Size: NewSize(2560, 1440)},
			want: "https://source.unsplash.com/random/2560x1440/",
		},
		{
			name: "collection with query",
			req:  FetchRequest{Size: NewSize(1280, 800), CollectionID: "317099", SearchQuery: "mountains"},
			want: "https://source.unsplash.com/collection/317099/1280x800/?mountains",
		},
		{
			name: "fractional size is truncated",
			req:  FetchRequest{Size: Size{Width: 1439.9, Height: 899.5}},
			want: "https://source.unsplash.com/random/1439x899/",
		},
		{
			name: "query is passed raw, not as key=value",
			req:  FetchRequest{Size: NewSize(800, 600), SearchQuery: "water,ocean"},
			want: "https://source.unsplash.com/random/800x600/?water,ocean",
		},
		{
			name: "spaces in query are percent-encoded",
			req:  FetchRequest{Size: NewSize(800, 600), SearchQuery: "red car"},
			want: "https://source.unsplash.com/random/800x600/?red%20car",
		},
		{
			name: "unicode in collection is percent-encoded",
			req:  FetchRequest{Size: NewSize(100, 100), CollectionID: "café"},
			want: "https://source.unsplash.com/collection/caf%C3%A9/100x100/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.URL())
		})
	}
}

func TestFetchRequest_URLIsDeterministic(t *testing.T) {
	req := FetchRequest{Size: NewSize(1920, 1080), CollectionID: "nature", SearchQuery: "lake"}
	first := req.URL()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, req.URL())
	}
}

func TestSize_String(t *testing.T) {
	assert.Equal(t, "1920x1080", NewSize(1920, 1080).String())
	assert.Equal(t, "10x20", Size{Width: 10.7, Height: 20.2}.String())
}
