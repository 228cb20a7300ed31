package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		query  string
		want   string
	}{
		{
			name:   "postgres untouched",
			driver: "postgres",
			query:  "SELECT * FROM webhook_events WHERE id = $1",
			want:   "SELECT * FROM webhook_events WHERE id = $1",
		},
		{
			name:   "sqlite placeholders",
			driver: "sqlite",
			query:  "UPDATE delivery_attempts SET status = $1 WHERE id = $2 AND attempt_number < $10",
			want:   "UPDATE delivery_attempts SET status = ? WHERE id = ? AND attempt_number < ?",
		},
		{
			name:   "sqlite keeps quoted dollars",
			driver: "sqlite",
			query:  "SELECT '$1', \"col$2\" FROM t WHERE a = $3",
			want:   "SELECT '$1', \"col$2\" FROM t WHERE a = ?",
		},
		{
			name:   "sqlite lone dollar",
			driver: "sqlite",
			query:  "SELECT $ FROM t WHERE a = $1",
			want:   "SELECT $ FROM t WHERE a = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &DB{driver: tt.driver}
			assert.Equal(t, tt.want, d.Rebind(tt.query))
		})
	}
}
