package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTaskRequestDeadlinePresence(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantSet      bool
		wantDeadline bool
	}{
		{
			name:    "deadline absent",
			body:    `{"title":"Write report"}`,
			wantSet: false,
		},
		{
			name:    "deadline null",
			body:    `{"deadline":null}`,
			wantSet: true,
		},
		{
			name:         "deadline value",
			body:         `{"deadline":"2026-09-15T12:00:00Z"}`,
			wantSet:      true,
			wantDeadline: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateTaskRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.wantSet, req.DeadlineSet())
			if tt.wantDeadline {
				assert.NotNil(t, req.Deadline)
			} else {
				assert.Nil(t, req.Deadline)
			}
		})
	}
}

func TestUpdateTaskRequestMalformed(t *testing.T) {
	var req UpdateTaskRequest
	assert.Error(t, json.Unmarshal([]byte(`{"deadline":`), &req))
}
