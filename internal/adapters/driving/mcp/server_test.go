package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("missing ports returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingIngestionService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(newPorts(&mockIngestionService{}, &mockSearchService{}, &mockLoader{}))
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	ing := &mockIngestionService{}
	search := &mockSearchService{}
	loader := &mockLoader{}

	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"nil ports", nil, ErrMissingIngestionService},
		{"missing ingestion", &Ports{Search: search, Loader: loader}, ErrMissingIngestionService},
		{"missing search", &Ports{Ingestion: ing, Loader: loader}, ErrMissingSearchService},
		{"missing loader", &Ports{Ingestion: ing, Search: search}, ErrMissingLoader},
		{"all set", newPorts(ing, search, loader), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
