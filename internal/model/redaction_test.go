package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      RedactionFlags
		wantParse bool
	}{
		{name: "absent", raw: "", want: DefaultFlags()},
		{name: "blank", raw: "   ", want: DefaultFlags()},
		{name: "null", raw: "null", want: DefaultFlags()},
		{name: "not json", raw: "not-json", want: DefaultFlags(), wantParse: true},
		{name: "truncated", raw: `{"redactIPs": true`, want: DefaultFlags(), wantParse: true},
		{name: "array", raw: `[true]`, want: DefaultFlags(), wantParse: true},
		{name: "string flag", raw: `{"redactIPs": "yes"}`, want: DefaultFlags(), wantParse: true},
		{
			name: "all false",
			raw:  `{"redactIPs": false, "redactEmails": false, "redactKeys": false, "redactUsernames": false}`,
			want: RedactionFlags{},
		},
		{
			name: "partial object leaves missing flags off",
			raw:  `{"redactEmails": true, "redactUsernames": true}`,
			want: RedactionFlags{RedactEmails: true, RedactUsernames: true},
		},
		{
			name: "keys differing in case are absent",
			raw:  `{"REDACTIPS": true, "RedactEmails": true}`,
			want: RedactionFlags{},
		},
		{
			name: "exact key beside case variant",
			raw:  `{"redactKeys": true, "REDACTKEYS": false}`,
			want: RedactionFlags{RedactKeys: true},
		},
		{name: "number flag", raw: `{"redactUsernames": 1}`, want: DefaultFlags(), wantParse: true},
		{name: "null flag is off", raw: `{"redactIPs": null, "redactEmails": true}`, want: RedactionFlags{RedactEmails: true}},
		{
			name: "unknown keys ignored",
			raw:  `{"redactIPs": true, "redactPhones": true}`,
			want: RedactionFlags{RedactIPs: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlags(tt.raw)
			if tt.wantParse {
				require.ErrorIs(t, err, ErrFlagsParse)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
