package gmail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveWebURL(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		want   string
	}{
		{
			name:   "message id converts to web URL",
			fields: map[string]any{FieldMessageID: "18abc123def456"},
			want:   "https://mail.google.com/mail/u/0/#all/18abc123def456",
		},
		{
			name:   "empty id returns empty",
			fields: map[string]any{FieldMessageID: ""},
			want:   "",
		},
		{
			name:   "missing id returns empty",
			fields: map[string]any{FieldThreadID: "t1"},
			want:   "",
		},
		{
			name:   "nil fields returns empty",
			fields: nil,
			want:   "",
		},
		{
			name:   "non-string id returns empty",
			fields: map[string]any{FieldMessageID: 42},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveWebURL(tt.fields))
		})
	}
}
