package docstore_test

import (
	"testing"

	"github.com/likearthian/docstore"
	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Offset(t *testing.T) {
	tests := []struct {
		page, size int
		offset     int64
		limit      int64
	}{
		{page: 1, size: 10, offset: 0, limit: 10},
		{page: 2, size: 10, offset: 10, limit: 10},
		{page: 5, size: 25, offset: 100, limit: 25},
		{page: 0, size: 10, offset: 0, limit: 10},
		{page: -3, size: 10, offset: 0, limit: 10},
		{page: 3, size: 0, offset: 0, limit: 0},
		{page: 3, size: -1, offset: 0, limit: 0},
	}

	for _, tt := range tests {
		p := docstore.NewPageRequest(tt.page, tt.size, false)
		assert.Equal(t, tt.offset, p.GetOffset(), "page %d size %d", tt.page, tt.size)
		assert.Equal(t, tt.limit, p.GetLimit(), "page %d size %d", tt.page, tt.size)
	}
}

func TestPageRequest_GetPage(t *testing.T) {
	assert.Equal(t, 1, docstore.PageRequest{}.GetPage())
	assert.Equal(t, 4, docstore.PageRequest{Page: 4}.GetPage())
}
