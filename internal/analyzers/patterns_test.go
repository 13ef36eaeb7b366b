package analyzers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

func TestScanPatterns(t *testing.T) {
	s := NewPatternScanner(zap.NewNop())

	tests := []struct {
		name  string
		email core.Email
		want  core.ContentSignals
	}{
		{
			name:  "urgent subject",
			email: core.Email{Subject: "URGENT: Action Required"},
			want:  core.ContentSignals{SubjectHasUrgency: true},
		},
		{
			name:  "body urgency",
			email: core.Email{Body: "Please respond AS SOON AS POSSIBLE."},
			want:  core.ContentSignals{BodyHasUrgency: true},
		},
		{
			name:  "sensitive data request",
			email: core.Email{Body: "Reply with your Credit Card details."},
			want:  core.ContentSignals{RequestsSensitiveData: true},
		},
		{
			name:  "prize claim",
			email: core.Email{Body: "Congratulations, the jackpot is yours."},
			want:  core.ContentSignals{HasSuspiciousClaims: true},
		},
		{
			name:  "grammar",
			email: core.Email{Body: "Dear costumer, please reply."},
			want:  core.ContentSignals{HasPoorGrammar: true},
		},
		{
			name:  "threat",
			email: core.Email{Body: "Your profile will be deleted."},
			want:  core.ContentSignals{HasThreateningLanguage: true},
		},
		{
			name:  "benign",
			email: core.Email{Subject: "Lunch", Body: "Hi all, lunch is at noon tomorrow in the usual place."},
			want:  core.ContentSignals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ScanPatterns(&tt.email))
		})
	}
}
