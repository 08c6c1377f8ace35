package student

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStudentRequest_NullableFields(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantPhone *string
	}{
		{name: "absent", body: `{}`, wantSet: false},
		{name: "null", body: `{"phone":null}`, wantSet: true},
		{name: "value", body: `{"phone":"555-1234"}`, wantSet: true, wantPhone: strPtr("555-1234")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateStudentRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			assert.Equal(t, tt.wantSet, req.Phone.Set)
			assert.Equal(t, tt.wantPhone, req.Phone.Value)
		})
	}

	t.Run("wrong type", func(t *testing.T) {
		var req UpdateStudentRequest
		assert.Error(t, json.Unmarshal([]byte(`{"class_id":"seven"}`), &req))
	})
}

func strPtr(s string) *string { return &s }
