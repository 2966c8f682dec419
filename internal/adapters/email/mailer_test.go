package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailer(t *testing.T) {
	tests := []struct {
		provider string
		wantSES  bool
	}{
		{"ses", true},
		{"noop", false},
		{"", false},
		{"smtp", false},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			m, err := NewMailer(MailerConfig{
				Provider:    tt.provider,
				FromAddress: "noreply@grical.org",
				SES:         SESConfig{Region: "eu-central-1", AccessKeyID: "id", SecretAccessKey: "secret"},
			}, nil)
			require.NoError(t, err)
			_, isSES := m.(*sesMailer)
			assert.Equal(t, tt.wantSES, isSES)
			if !isSES {
				assert.NoError(t, m.Send(context.Background(), "ann@example.com", "subject", "<p>hi</p>", "hi"))
			}
		})
	}
}
