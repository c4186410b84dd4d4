package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/heaths/gitlab-compare/internal/gitlab"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	apiErr := &gitlab.APIError{StatusCode: 503, Endpoint: "/api/v4/projects"}

	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{
			name:     "success",
			wantCode: ExitOK,
		},
		{
			name:        "usage",
			err:         usageErrorf("--out-json and --out-csv are mutually exclusive"),
			wantCode:    ExitUsage,
			wantMessage: "usage error: --out-json and --out-csv are mutually exclusive (see --help)",
		},
		{
			name:        "authentication",
			err:         fmt.Errorf("gitlab2: %w", &gitlab.AuthError{URL: "https://two.example.com", Err: &gitlab.APIError{StatusCode: 401, Endpoint: "/api/v4/user"}}),
			wantCode:    ExitAuth,
			wantMessage: "authentication error: gitlab2: token rejected by https://two.example.com: API status 401 from /api/v4/user",
		},
		{
			name:        "retries exhausted",
			err:         fmt.Errorf("gitlab1: fetching page 3: giving up after 6 attempts: %w", apiErr),
			wantCode:    ExitAPI,
			wantMessage: "GitLab API error: gitlab1: fetching page 3: giving up after 6 attempts: API status 503 from /api/v4/projects",
		},
		{
			name:        "unexpected",
			err:         errors.New("requesting /api/v4/user: connection refused"),
			wantCode:    ExitError,
			wantMessage: "unexpected error: requesting /api/v4/user: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, ExitCode(tt.err))
			if tt.err != nil {
				assert.Equal(t, tt.wantMessage, Message(tt.err))
			}
		})
	}
}
